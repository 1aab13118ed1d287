// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package passage selects short quoted excerpts from ranked literature.
// A language-model path asks for the most relevant excerpts in structured
// form; any failure falls back to a deterministic sentence-window method.
// Either way every passage carries a relevance score and a citation string.
package passage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/manuscript-engine/internal/fileutil"
	"github.com/pdiddy/manuscript-engine/internal/llm"
	"github.com/pdiddy/manuscript-engine/internal/textutil"
	"github.com/pdiddy/manuscript-engine/pkg/types"
)

const (
	// maxPassageChars bounds every passage text.
	maxPassageChars = 300

	// maxTotalPassages caps the final passage list across all documents.
	maxTotalPassages = 20

	// contentPreviewChars bounds the document preview sent to the model.
	contentPreviewChars = 2000

	// minSentenceChars is the shortest sentence the fallback will score.
	minSentenceChars = 10

	// maxRelatedKeywords caps the related-keyword list per fallback passage.
	maxRelatedKeywords = 5
)

// Chatter is the single language-model capability the selector needs.
// A nil Chatter selects the fallback path unconditionally.
type Chatter interface {
	Chat(ctx context.Context, prompt, system string) (string, error)
}

// Selector extracts scored passages from ranked literature.
type Selector struct {
	chatter Chatter
}

// NewSelector returns a selector. chatter may be nil.
func NewSelector(chatter Chatter) *Selector {
	return &Selector{chatter: chatter}
}

// Select processes the top maxLiterature documents of the ranked list and
// extracts up to perLiterature passages from each. Per-document failures
// are logged to w and skipped. The final list is sorted descending by
// relevance_score + 0.1*combined_score and capped at 20 entries.
func (s *Selector) Select(ctx context.Context, literature []types.LiteratureMetadata, keywords []string, maxLiterature, perLiterature int, w io.Writer) []types.Passage {
	count := min(maxLiterature, len(literature))

	var passages []types.Passage
	for _, lit := range literature[:count] {
		content, err := fileutil.ReadContent(lit.FilePath)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping passages for %s: %v\n", lit.FilePath, err)
			continue
		}

		var extracted []types.Passage
		if s.chatter != nil {
			extracted, err = s.llmPassages(ctx, content, keywords, lit, perLiterature)
			if err != nil {
				fmt.Fprintf(w, "warning: llm passage extraction failed for %q, using sentence fallback: %v\n", lit.Title, err)
				extracted = fallbackPassages(content, keywords, lit, perLiterature)
			}
		} else {
			extracted = fallbackPassages(content, keywords, lit, perLiterature)
		}

		passages = append(passages, extracted...)
	}

	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].RelevanceScore+0.1*passages[i].CombinedScore >
			passages[j].RelevanceScore+0.1*passages[j].CombinedScore
	})

	if len(passages) > maxTotalPassages {
		passages = passages[:maxTotalPassages]
	}
	return passages
}

// passagePayload is the structured-output schema for passage extraction.
type passagePayload struct {
	Passages []struct {
		Text            string   `json:"text"`
		RelevanceScore  *float64 `json:"relevance_score"`
		RelatedKeywords []string `json:"related_keywords"`
	} `json:"passages"`
}

// llmPassages asks the model for the most relevant excerpts, giving it the
// abstract plus a bounded content preview.
func (s *Selector) llmPassages(ctx context.Context, content string, keywords []string, lit types.LiteratureMetadata, maxPassages int) ([]types.Passage, error) {
	preview := textutil.Truncate(content, contentPreviewChars)
	contextText := preview
	if lit.Abstract != "" {
		contextText = fmt.Sprintf("Abstract: %s\n\nBody preview: %s", lit.Abstract, preview)
	}

	prompt := buildPassagePrompt(contextText, keywords, lit.Title, maxPassages)

	resp, err := s.chatter.Chat(ctx, prompt,
		"You are a literature analysis assistant skilled at selecting relevant excerpts from academic documents.")
	if err != nil {
		return nil, err
	}

	raw, err := llm.ExtractJSONObject(resp)
	if err != nil {
		return nil, err
	}

	var payload passagePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("parsing passage response: %w", err)
	}

	var passages []types.Passage
	for _, p := range payload.Passages {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		// The model omitting a score is not a failure; assume middling.
		score := 0.5
		if p.RelevanceScore != nil {
			score = clamp01(*p.RelevanceScore)
		}
		passages = append(passages, newPassage(textutil.Truncate(p.Text, maxPassageChars), score, p.RelatedKeywords, lit))
	}
	return passages, nil
}

func buildPassagePrompt(contextText string, keywords []string, title string, maxPassages int) string {
	kws := keywords
	if len(kws) > 10 {
		kws = kws[:10]
	}
	return fmt.Sprintf(`Extract the %d excerpts most relevant to the keywords from the following document.

Keywords: %s

Document title: %s

Document content:
%s

Requirements:
1. Choose the excerpts most relevant to the keywords
2. Each excerpt should be 80-200 characters
3. Keep excerpts intact with their context, do not cut sentences short
4. Order by relevance

Return the following JSON format:
{
    "passages": [
        {
            "text": "excerpt text",
            "relevance_score": 0.9,
            "related_keywords": ["matching keyword"]
        }
    ]
}

Return only JSON, nothing else.`, maxPassages, strings.Join(kws, ", "), orDefault(title, "Unknown"), contextText)
}

// scoredSentence pairs a sentence index with its keyword hit count.
type scoredSentence struct {
	index   int
	score   int
	matched []string
}

// fallbackPassages is the deterministic path: split into sentences, score
// each by keyword substring hits, keep the top maxPassages, and widen each
// by one sentence of context on both sides.
func fallbackPassages(content string, keywords []string, lit types.LiteratureMetadata, maxPassages int) []types.Passage {
	sentences := splitRaw(content)

	var scored []scoredSentence
	for i, sentence := range sentences {
		if len([]rune(strings.TrimSpace(sentence))) < minSentenceChars {
			continue
		}

		lower := strings.ToLower(sentence)
		var matched []string
		for _, kw := range keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > 0 {
			scored = append(scored, scoredSentence{index: i, score: len(matched), matched: matched})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > maxPassages {
		scored = scored[:maxPassages]
	}

	var passages []types.Passage
	for _, item := range scored {
		start := max(0, item.index-1)
		end := min(len(sentences), item.index+2)

		var window []string
		for _, s := range sentences[start:end] {
			if t := strings.TrimSpace(s); t != "" {
				window = append(window, t)
			}
		}
		text := textutil.Truncate(strings.Join(window, ". "), maxPassageChars)

		score := float64(item.score) / float64(len(keywords))
		if score > 1.0 {
			score = 1.0
		}

		related := item.matched
		if len(related) > maxRelatedKeywords {
			related = related[:maxRelatedKeywords]
		}

		passages = append(passages, newPassage(text, score, related, lit))
	}
	return passages
}

// splitRaw splits on sentence terminators without cleaning, preserving
// piece positions so context windows line up with the source order.
func splitRaw(content string) []string {
	return strings.FieldsFunc(content, func(r rune) bool {
		return r == '。' || r == '.' || r == '!' || r == '?'
	})
}

func newPassage(text string, score float64, related []string, lit types.LiteratureMetadata) types.Passage {
	return types.Passage{
		Text:            text,
		SourceTitle:     orDefault(lit.Title, "Unknown"),
		SourceAuthors:   lit.Authors,
		SourceYear:      lit.Year,
		RelevanceScore:  score,
		RelatedKeywords: related,
		Citation:        FormatCitation(lit),
		SourceFile:      lit.FilePath,
		CombinedScore:   lit.CombinedScore,
	}
}

// FormatCitation renders an author-year citation: up to three authors,
// comma-joined, "et al." appended when there are more.
func FormatCitation(lit types.LiteratureMetadata) string {
	authorStr := "Unknown Author"
	if len(lit.Authors) > 0 {
		authorStr = strings.Join(lit.Authors[:min(3, len(lit.Authors))], ", ")
		if len(lit.Authors) > 3 {
			authorStr += " et al."
		}
	}
	return fmt.Sprintf("%s (%s). %s", authorStr, lit.Year, orDefault(lit.Title, "Unknown Title"))
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
