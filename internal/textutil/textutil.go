// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil provides the text normalization primitives the scoring
// and extraction stages share: whitespace cleaning, sentence splitting,
// Unicode-aware word tokenization, and frequency-based keyword fallback.
// All functions are deterministic and side-effect-free.
package textutil

import (
	"regexp"
	"sort"
	"strings"
)

// wordPattern matches word tokens: letters, digits, and underscore.
// Unicode classes so both Latin words and CJK runs are captured.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// sentencePattern matches sentence terminators, Latin and CJK.
var sentencePattern = regexp.MustCompile(`[。.!?]`)

// fallbackWordPattern matches candidate fallback keywords: runs of Latin
// letters or CJK ideographs, at least two characters long.
var fallbackWordPattern = regexp.MustCompile(`[a-zA-Z\p{Han}]{2,}`)

// Clean collapses whitespace runs into single spaces and trims the result.
func Clean(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// SplitSentences splits text on sentence terminators (. ! ? 。), cleans
// each piece, and drops empty results.
func SplitSentences(text string) []string {
	parts := sentencePattern.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := Clean(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// WordTokens lowercases text and returns its word tokens.
func WordTokens(text string) []string {
	return wordPattern.FindAllString(strings.ToLower(text), -1)
}

// Truncate shortens s to at most max characters (runes, not bytes).
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// FrequencyKeywords extracts up to maxKeywords keywords from text by word
// frequency. It is the local fallback used when the language-model keyword
// path is unavailable. Ties keep first-occurrence order so output is
// deterministic.
func FrequencyKeywords(text string, maxKeywords int) []string {
	words := fallbackWordPattern.FindAllString(strings.ToLower(text), -1)

	counts := make(map[string]int)
	var order []string
	for _, w := range words {
		if len([]rune(w)) <= 2 {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return order
}
