// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// --- ExpandKeywords ---

func TestExpandKeywords(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		want     []string
	}{
		{
			name:     "no synonyms",
			keywords: []string{"quantum", "entanglement"},
			want:     []string{"quantum", "entanglement"},
		},
		{
			name:     "single table hit",
			keywords: []string{"research"},
			want:     []string{"research", "study", "investigation", "analysis", "examination"},
		},
		{
			name:     "case-insensitive lookup",
			keywords: []string{"Research"},
			want:     []string{"Research", "study", "investigation", "analysis", "examination"},
		},
		{
			name:     "duplicates collapsed",
			keywords: []string{"analysis", "research"},
			want: []string{
				"analysis", "research",
				"examination", "evaluation", "assessment", "study",
				"investigation",
			},
		},
		{
			name:     "empty input",
			keywords: nil,
			want:     []string{},
		},
		{
			name:     "blank keyword dropped",
			keywords: []string{"", "data"},
			want:     []string{"data", "information", "dataset", "statistics", "evidence"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandKeywords(tt.keywords, GeneralSynonyms())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandKeywords(%v) = %v, want %v", tt.keywords, got, tt.want)
			}
		})
	}
}

func TestExpandKeywordsDeterministic(t *testing.T) {
	keywords := []string{"method", "result", "data"}
	first := ExpandKeywords(keywords, GeneralSynonyms())
	for i := 0; i < 10; i++ {
		again := ExpandKeywords(keywords, GeneralSynonyms())
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, again, first)
		}
	}
}

// --- MatchScore ---

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		text     string
		want     float64
	}{
		{
			name:     "all matched",
			keywords: []string{"neural", "network"},
			text:     "A neural network for image classification.",
			want:     1.0,
		},
		{
			name:     "half matched",
			keywords: []string{"neural", "quantum"},
			text:     "A neural network for image classification.",
			want:     0.5,
		},
		{
			name:     "none matched",
			keywords: []string{"quantum"},
			text:     "A neural network for image classification.",
			want:     0.0,
		},
		{
			name:     "case-insensitive",
			keywords: []string{"NEURAL"},
			text:     "a Neural approach",
			want:     1.0,
		},
		{
			name:     "whole word only",
			keywords: []string{"net"},
			text:     "networks everywhere",
			want:     0.0,
		},
		{
			name:     "empty keywords",
			keywords: nil,
			text:     "anything",
			want:     0.0,
		},
		{
			name:     "empty text",
			keywords: []string{"neural"},
			text:     "",
			want:     0.0,
		},
		{
			name:     "regex metacharacters have no effect",
			keywords: []string{"c++"},
			text:     "implemented in c++ and go",
			want:     0.0, // '+' is not a word rune, so no boundary follows it
		},
		{
			name:     "cjk keyword space delimited",
			keywords: []string{"图像"},
			text:     "这是 图像 处理",
			want:     1.0,
		},
		{
			name:     "cjk keyword at text edges",
			keywords: []string{"图像识别"},
			text:     "图像识别",
			want:     1.0,
		},
		{
			name:     "cjk keyword embedded in longer run",
			keywords: []string{"图像"},
			text:     "这是图像处理",
			want:     0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchScore(tt.keywords, tt.text)
			if !almostEqual(got, tt.want) {
				t.Errorf("MatchScore(%v, %q) = %v, want %v", tt.keywords, tt.text, got, tt.want)
			}
		})
	}
}

func TestMatchScoreBounds(t *testing.T) {
	keywords := []string{"alpha", "beta", "gamma", "delta"}
	texts := []string{
		"alpha beta gamma delta",
		"alpha only",
		"nothing relevant at all",
		"beta beta beta",
	}
	for _, text := range texts {
		score := MatchScore(keywords, text)
		if score < 0 || score > 1 {
			t.Errorf("MatchScore out of [0,1]: %v for %q", score, text)
		}
	}
}

// --- TFIDFScore ---

func TestTFIDFScoreAbsentKeyword(t *testing.T) {
	corpus := []string{"document one text", "document two text"}
	got := TFIDFScore([]string{"zephyr"}, corpus[0], corpus)
	if got != 0 {
		t.Errorf("TFIDFScore for absent keyword = %v, want 0", got)
	}
}

func TestTFIDFScoreEmptyDocument(t *testing.T) {
	got := TFIDFScore([]string{"anything"}, "", []string{"", "other"})
	if got != 0 {
		t.Errorf("TFIDFScore on empty document = %v, want 0", got)
	}
}

func TestTFIDFScoreRareTermOutranksCommon(t *testing.T) {
	// "zephyr" occurs in one corpus document, "common" in all three.
	target := "zephyr common filler words here"
	corpus := []string{
		target,
		"common text in the second document",
		"common text in the third document",
	}
	rare := TFIDFScore([]string{"zephyr"}, target, corpus)
	common := TFIDFScore([]string{"common"}, target, corpus)
	if rare <= common {
		t.Errorf("rare term score %v not above common term score %v", rare, common)
	}
	// A term in every corpus document has idf ln(3/3)=0.
	if common != 0 {
		t.Errorf("ubiquitous term score = %v, want 0", common)
	}
}

func TestTFIDFScoreTermFrequencyMonotonic(t *testing.T) {
	corpus := []string{
		"signal signal signal noise noise noise",
		"signal noise filler words padding here",
		"entirely unrelated content goes in this one",
	}
	dense := TFIDFScore([]string{"signal"}, corpus[0], corpus)
	sparse := TFIDFScore([]string{"signal"}, corpus[1], corpus)
	if dense <= sparse {
		t.Errorf("denser document scored %v, sparser %v; want dense > sparse", dense, sparse)
	}
}

func TestTFIDFScoreMultiWordKeyword(t *testing.T) {
	corpus := []string{
		"machine learning improves machine translation",
		"cooking recipes and kitchen notes",
	}
	// "machine learning" decomposes into both tokens; each contributes.
	got := TFIDFScore([]string{"machine learning"}, corpus[0], corpus)
	single := TFIDFScore([]string{"learning"}, corpus[0], corpus)
	if got <= single {
		t.Errorf("multi-word keyword score %v not above single token score %v", got, single)
	}
}

// --- CombinedScore ---

func TestCombinedScore(t *testing.T) {
	tests := []struct {
		match, tfidf, want float64
	}{
		{0, 0, 0},
		{1, 0, 0.6},
		{0, 1, 0.4},
		{1, 1, 1.0},
		{0.5, 0.25, 0.4},
	}
	for _, tt := range tests {
		got := CombinedScore(tt.match, tt.tfidf)
		if !almostEqual(got, tt.want) {
			t.Errorf("CombinedScore(%v, %v) = %v, want %v", tt.match, tt.tfidf, got, tt.want)
		}
	}
}

// Frequent-term document must outrank a document without the term under
// the combined score used for ranking.
func TestCombinedScoreRankingSeparation(t *testing.T) {
	keywords := []string{"algorithm"}

	frequent := strings.Repeat("algorithm design and analysis of the algorithm core with the algorithm loop and algorithm proofs plus algorithm notes ", 5)
	absent := strings.Repeat("gardening tips for growing tomatoes in raised beds during the summer months with regular watering and pruning schedules ", 5)
	corpus := []string{frequent, absent}

	scoreFor := func(doc string) float64 {
		return CombinedScore(MatchScore(keywords, doc), TFIDFScore(keywords, doc, corpus))
	}

	if hi, lo := scoreFor(frequent), scoreFor(absent); hi <= lo {
		t.Errorf("frequent-term document scored %v, absent-term %v; want strictly higher", hi, lo)
	}
	if got := scoreFor(absent); got != 0 {
		t.Errorf("absent-term document combined score = %v, want 0", got)
	}
}

// --- MatchedKeywords / CountMatches ---

func TestMatchedKeywords(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		content  string
		want     []string
	}{
		{
			name:     "substring semantics",
			keywords: []string{"net", "quantum"},
			content:  "neural networks",
			want:     []string{"net"},
		},
		{
			name:     "keyword order preserved",
			keywords: []string{"beta", "alpha"},
			content:  "alpha then beta",
			want:     []string{"beta", "alpha"},
		},
		{
			name:     "no matches",
			keywords: []string{"missing"},
			content:  "nothing here",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchedKeywords(tt.keywords, tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MatchedKeywords(%v, %q) = %v, want %v", tt.keywords, tt.content, got, tt.want)
			}
			if n := CountMatches(tt.keywords, tt.content); n != len(tt.want) {
				t.Errorf("CountMatches = %d, want %d", n, len(tt.want))
			}
		})
	}
}
