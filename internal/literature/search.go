// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package literature searches a local directory of documents and returns
// metadata records ranked by relevance to a keyword set. The corpus is
// bounded (tens to low hundreds of files) and processed entirely in memory
// per run; one unreadable or unscorable file is skipped, never fatal.
package literature

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/manuscript-engine/internal/fileutil"
	"github.com/pdiddy/manuscript-engine/internal/metadata"
	"github.com/pdiddy/manuscript-engine/internal/scoring"
	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// Service orchestrates file enumeration, metadata extraction, and scoring.
type Service struct {
	cache *metadata.Cache
	cfg   types.SearchConfig
}

// NewService returns a search service backed by the given metadata cache.
func NewService(cache *metadata.Cache, cfg types.SearchConfig) *Service {
	return &Service{cache: cache, cfg: cfg}
}

// Output holds the ranked results plus per-file skip reasons, so degraded
// runs are visible to the caller instead of silent.
type Output struct {
	// Results are the ranked literature records, highest combined score first.
	Results []types.LiteratureMetadata

	// FilesScanned is the number of supported files enumerated.
	FilesScanned int

	// SkippedFiles records per-file failures as "path: reason".
	SkippedFiles []string
}

// Search ranks every supported document under literatureDir against
// keywords. The keyword set is expanded through the synonym table and
// capped at the configured maximum; each document gets a lexical match
// score and a TF-IDF score against the full
// scanned corpus, combined as 0.6*lexical + 0.4*tfidf. Documents at or
// below the relevance threshold are dropped; survivors are sorted by
// combined score descending (stable over enumeration order) and truncated
// to maxResults. A missing directory is returned as an error with empty
// results.
func (s *Service) Search(keywords []string, literatureDir string, maxResults int, useCache bool, w io.Writer) (Output, error) {
	files, err := fileutil.SupportedFiles(literatureDir, s.cfg.SupportedExtensions)
	if err != nil {
		fmt.Fprintf(w, "error: %v\n", err)
		return Output{}, err
	}

	out := Output{FilesScanned: len(files)}

	// First pass: read every document into memory. The full corpus is the
	// document-frequency base for TF-IDF, target document included.
	contents := make(map[string]string, len(files))
	corpus := make([]string, 0, len(files))
	for _, f := range files {
		content, err := fileutil.ReadContent(f)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping %s: %v\n", f, err)
			out.SkippedFiles = append(out.SkippedFiles, fmt.Sprintf("%s: %v", f, err))
			continue
		}
		contents[f] = content
		corpus = append(corpus, content)
	}

	expanded := scoring.ExpandKeywords(keywords, scoring.GeneralSynonyms())
	if s.cfg.MaxKeywords > 0 && len(expanded) > s.cfg.MaxKeywords {
		expanded = expanded[:s.cfg.MaxKeywords]
	}

	// Second pass: score each readable document against the corpus.
	for _, f := range files {
		content, ok := contents[f]
		if !ok || content == "" {
			continue
		}

		md, err := s.cache.GetOrExtract(f, useCache, w)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping %s: %v\n", f, err)
			out.SkippedFiles = append(out.SkippedFiles, fmt.Sprintf("%s: %v", f, err))
			continue
		}

		md.MatchScore = scoring.MatchScore(expanded, content)
		md.TFIDFScore = scoring.TFIDFScore(expanded, content, corpus)
		md.CombinedScore = scoring.CombinedScore(md.MatchScore, md.TFIDFScore)
		md.MatchedKeywords = scoring.MatchedKeywords(expanded, content)
		md.TitleMatches = scoring.CountMatches(expanded, md.Title)
		md.AbstractMatches = scoring.CountMatches(expanded, md.Abstract)
		md.TotalKeywordsChecked = len(expanded)

		if md.CombinedScore > scoring.ScoreThreshold {
			out.Results = append(out.Results, md)
		}
	}

	sort.SliceStable(out.Results, func(i, j int) bool {
		return out.Results[i].CombinedScore > out.Results[j].CombinedScore
	})

	if maxResults > 0 && len(out.Results) > maxResults {
		out.Results = out.Results[:maxResults]
	}

	return out, nil
}

// FormatTable writes ranked results as a human-readable table to w.
func FormatTable(out Output, w io.Writer) {
	if len(out.Results) == 0 {
		fmt.Fprintln(w, "No matching literature found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-56s  %-6s  %-6s  %-6s  %s\n",
		"Rank", "Title", "Match", "TFIDF", "Score", "Year")
	fmt.Fprintln(w, strings.Repeat("-", 96))

	for i, r := range out.Results {
		title := r.Title
		if len(title) > 56 {
			title = title[:53] + "..."
		}
		fmt.Fprintf(w, "%-4d  %-56s  %-6.2f  %-6.2f  %-6.2f  %s\n",
			i+1, title, r.MatchScore, r.TFIDFScore, r.CombinedScore, r.Year)
	}

	fmt.Fprintf(w, "\n%d of %d files matched", len(out.Results), out.FilesScanned)
	if len(out.SkippedFiles) > 0 {
		fmt.Fprintf(w, " (%d skipped)", len(out.SkippedFiles))
	}
	fmt.Fprintln(w)
}

// FormatJSON writes ranked results as indented JSON to w.
func FormatJSON(out Output, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out.Results)
}
