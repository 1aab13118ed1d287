// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textutil

import (
	"reflect"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses runs", "a  b\t\tc", "a b c"},
		{"trims edges", "  hello world  ", "hello world"},
		{"newlines", "line one\n\nline two", "line one line two"},
		{"empty", "", ""},
		{"only whitespace", " \t\n ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "latin terminators",
			in:   "First sentence. Second one! Third?",
			want: []string{"First sentence", "Second one", "Third"},
		},
		{
			name: "cjk terminator",
			in:   "第一句。第二句。",
			want: []string{"第一句", "第二句"},
		},
		{
			name: "empty pieces dropped",
			in:   "One... Two.",
			want: []string{"One", "Two"},
		},
		{
			name: "no terminator",
			in:   "just a fragment",
			want: []string{"just a fragment"},
		},
		{
			name: "empty input",
			in:   "",
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWordTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"lowercases", "Deep Learning", []string{"deep", "learning"}},
		{"punctuation split", "end-to-end, really", []string{"end", "to", "end", "really"}},
		{"digits and underscore", "v2_final", []string{"v2_final"}},
		{"cjk run", "机器学习 rocks", []string{"机器学习", "rocks"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WordTokens(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("WordTokens(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "abc", 10, "abc"},
		{"exact length", "abc", 3, "abc"},
		{"truncated", "abcdef", 3, "abc"},
		{"multibyte runes counted once", "日本語テキスト", 3, "日本語"},
		{"zero max", "abc", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestFrequencyKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want []string
	}{
		{
			name: "ordered by frequency",
			in:   "kernel kernel kernel cache cache driver",
			max:  10,
			want: []string{"kernel", "cache", "driver"},
		},
		{
			name: "short words excluded",
			in:   "an of to kernel kernel it",
			max:  10,
			want: []string{"kernel"},
		},
		{
			name: "truncated to max",
			in:   "aaa aaa bbb bbb ccc ddd",
			max:  2,
			want: []string{"aaa", "bbb"},
		},
		{
			name: "ties keep first occurrence order",
			in:   "delta omega delta omega",
			max:  10,
			want: []string{"delta", "omega"},
		},
		{
			name: "digits ignored",
			in:   "2024 2024 2024 kernel",
			max:  10,
			want: []string{"kernel"},
		},
		{
			name: "empty text",
			in:   "",
			max:  5,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FrequencyKeywords(tt.in, tt.max)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FrequencyKeywords(%q, %d) = %v, want %v", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestFrequencyKeywordsDeterministic(t *testing.T) {
	text := "graph graph node node edge edge walk walk path path"
	first := FrequencyKeywords(text, 10)
	for i := 0; i < 10; i++ {
		if got := FrequencyKeywords(text, 10); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
}
