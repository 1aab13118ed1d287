// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring computes document relevance for keyword sets: synonym
// expansion, whole-word lexical match fraction, additive TF-IDF against an
// in-memory corpus, and the weighted combined score used for ranking.
package scoring

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/manuscript-engine/internal/textutil"
)

// Combined-score weights. CombinedScore is exactly
// MatchWeight*lexical + TFIDFWeight*tfidf.
const (
	MatchWeight = 0.6
	TFIDFWeight = 0.4
)

// ScoreThreshold is the combined score at or below which a document is
// dropped from search results.
const ScoreThreshold = 0.1

// generalSynonyms maps lowercase academic terms to their synonyms. Lookup
// is case-insensitive exact match; terms absent from the table expand to
// themselves only.
var generalSynonyms = map[string][]string{
	"research":    {"study", "investigation", "analysis", "examination"},
	"method":      {"approach", "technique", "methodology", "procedure"},
	"result":      {"outcome", "finding", "conclusion", "output"},
	"analysis":    {"examination", "evaluation", "assessment", "study"},
	"data":        {"information", "dataset", "statistics", "evidence"},
	"model":       {"framework", "system", "structure", "design"},
	"algorithm":   {"method", "procedure", "technique", "approach"},
	"performance": {"efficiency", "effectiveness", "capability", "quality"},
	"evaluation":  {"assessment", "analysis", "examination", "review"},
	"experiment":  {"test", "trial", "study", "investigation"},
	"application": {"use", "implementation", "deployment", "utilization"},
	"development": {"creation", "construction", "building", "design"},
	"improvement": {"enhancement", "optimization", "refinement", "upgrade"},
	"comparison":  {"contrast", "evaluation", "analysis", "assessment"},
	"validation":  {"verification", "confirmation", "testing", "proof"},
}

// GeneralSynonyms returns the built-in synonym table.
func GeneralSynonyms() map[string][]string {
	return generalSynonyms
}

// ExpandKeywords returns keywords plus the synonyms of every keyword found
// in the table. Duplicates are collapsed; the result keeps insertion order
// (originals first, then synonyms in table order) so downstream scoring is
// deterministic.
func ExpandKeywords(keywords []string, synonyms map[string][]string) []string {
	seen := make(map[string]bool, len(keywords))
	expanded := make([]string, 0, len(keywords))

	add := func(kw string) {
		if kw == "" || seen[kw] {
			return
		}
		seen[kw] = true
		expanded = append(expanded, kw)
	}

	for _, kw := range keywords {
		add(kw)
	}
	for _, kw := range keywords {
		for _, syn := range synonyms[strings.ToLower(kw)] {
			add(syn)
		}
	}
	return expanded
}

// MatchScore returns the fraction of keywords that occur as whole-word,
// case-insensitive matches anywhere in text. Zero when the keyword set or
// text is empty.
func MatchScore(keywords []string, text string) float64 {
	if len(keywords) == 0 || text == "" {
		return 0.0
	}

	textLower := strings.ToLower(text)
	matched := 0
	for _, kw := range keywords {
		if wholeWordMatch(kw, textLower) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

// wholeWordMatch reports whether keyword occurs in textLower with a word
// boundary on each side. A boundary is a word/non-word transition over
// Unicode word runes (letter, digit, underscore), so space-delimited CJK
// keywords match while substrings of longer words do not.
func wholeWordMatch(keyword, textLower string) bool {
	kw := strings.ToLower(keyword)
	if kw == "" {
		return false
	}
	firstKw, _ := utf8.DecodeRuneInString(kw)
	lastKw, _ := utf8.DecodeLastRuneInString(kw)

	for start := 0; start+len(kw) <= len(textLower); {
		idx := strings.Index(textLower[start:], kw)
		if idx < 0 {
			return false
		}
		idx += start

		before, _ := utf8.DecodeLastRuneInString(textLower[:idx])
		after, _ := utf8.DecodeRuneInString(textLower[idx+len(kw):])
		if isWordRune(firstKw) != isWordRune(before) && isWordRune(lastKw) != isWordRune(after) {
			return true
		}
		start = idx + 1
	}
	return false
}

// isWordRune mirrors the tokenizer's word class: letters, digits, underscore.
// Text edges decode to RuneError, which is not a word rune.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// TFIDFScore computes the additive TF-IDF score of documentText for the
// keyword set, against corpus (the full set of documents read during the
// directory scan, target included). Multi-word keywords are decomposed into
// individual tokens. Tokens absent from the document contribute zero; IDF
// is only computed when at least one corpus document contains the token,
// so there is no log-of-zero trap. The score is unbounded above.
func TFIDFScore(keywords []string, documentText string, corpus []string) float64 {
	docTokens := textutil.WordTokens(documentText)
	totalWords := len(docTokens)
	if totalWords == 0 {
		return 0.0
	}

	counts := make(map[string]int, totalWords)
	for _, tok := range docTokens {
		counts[tok]++
	}

	corpusLower := make([]string, len(corpus))
	for i, doc := range corpus {
		corpusLower[i] = strings.ToLower(doc)
	}

	score := 0.0
	for _, kw := range keywords {
		for _, word := range textutil.WordTokens(kw) {
			tf := float64(counts[word]) / float64(totalWords)
			if tf == 0 {
				continue
			}
			docsContaining := 0
			for _, doc := range corpusLower {
				if strings.Contains(doc, word) {
					docsContaining++
				}
			}
			if docsContaining > 0 {
				idf := math.Log(float64(len(corpus)) / float64(docsContaining))
				score += tf * idf
			}
		}
	}
	return score
}

// CombinedScore weighs the lexical match score against the TF-IDF score.
func CombinedScore(matchScore, tfidfScore float64) float64 {
	return MatchWeight*matchScore + TFIDFWeight*tfidfScore
}

// MatchedKeywords returns the keywords occurring in content as
// case-insensitive substrings, in keyword order.
func MatchedKeywords(keywords []string, content string) []string {
	contentLower := strings.ToLower(content)
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(contentLower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// CountMatches counts the keywords occurring in text as case-insensitive
// substrings. Used for the per-field hit counts on metadata records.
func CountMatches(keywords []string, text string) int {
	return len(MatchedKeywords(keywords, text))
}
