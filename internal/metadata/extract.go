// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata extracts literature metadata from source documents and
// caches it as per-file JSON. Two interchangeable strategies sit behind one
// contract: a fast local line-heuristic parser that is always available,
// and a language-model strategy that falls back to the local parser on any
// failure.
package metadata

import (
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/manuscript-engine/internal/fileutil"
	"github.com/pdiddy/manuscript-engine/internal/textutil"
	"github.com/pdiddy/manuscript-engine/pkg/types"
)

const (
	titleScanLines        = 10
	authorScanLines       = 15
	abstractWindow        = 20
	maxKeywords           = 10
	maxAuthors            = 5
	abstractFallbackLimit = 500
)

// yearPattern matches a four-digit year starting with 19 or 20.
var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Field markers. Matched as case-insensitive substrings; both English and
// Chinese forms appear in the corpus this pipeline targets.
var (
	titleDenylist   = []string{"author", "date", "@", "http", "doi"}
	abstractMarkers = []string{"abstract", "摘要", "summary", "概 要"}
	keywordMarkers  = []string{"keywords", "关键词", "key words", "关键字"}
	authorMarkers   = []string{"author", "作者", "@"}
)

// ExtractFast reads the file at path and extracts metadata with local
// heuristics only. The only error is a failed read; a field that cannot be
// found is left empty, never an error.
func ExtractFast(path string) (types.LiteratureMetadata, error) {
	content, err := fileutil.ReadContent(path)
	if err != nil {
		return types.LiteratureMetadata{
			FilePath:         path,
			ExtractionMethod: types.ExtractionUnknown,
		}, err
	}
	return FastFromContent(path, content), nil
}

// FastFromContent extracts metadata from already-read document content.
// Deterministic and side-effect-free apart from the extraction timestamp.
func FastFromContent(path, content string) types.LiteratureMetadata {
	md := types.LiteratureMetadata{
		FilePath:         path,
		ExtractionTime:   time.Now().Format(time.RFC3339),
		ExtractionMethod: types.ExtractionFastLocal,
	}

	lines := strings.Split(content, "\n")

	md.Title = extractTitle(lines, path)
	md.Abstract = extractAbstract(lines)
	md.Keywords = extractKeywords(lines)
	md.Authors = extractAuthors(lines)

	if m := yearPattern.FindString(content); m != "" {
		md.Year = m
	}

	if md.Abstract == "" {
		md.Abstract = fallbackAbstract(lines)
	}

	return md
}

// extractTitle returns the first plausible title line among the leading
// lines: non-empty, not a heading, longer than five characters, and free of
// denylisted substrings. Falls back to the file stem.
func extractTitle(lines []string, path string) string {
	limit := min(titleScanLines, len(lines))
	for _, raw := range lines[:limit] {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") || len([]rune(line)) <= 5 {
			continue
		}
		if containsAny(strings.ToLower(line), titleDenylist) {
			continue
		}
		return line
	}
	return strings.ReplaceAll(fileutil.Stem(path), "_", " ")
}

// extractAbstract finds the first abstract marker line. Text on the marker
// line after the marker is the abstract itself; a bare marker line starts
// accumulation of the following non-empty lines until a heading or a blank
// line after content has begun.
func extractAbstract(lines []string) string {
	for i, line := range lines {
		lower := strings.ToLower(line)
		marker, ok := firstMarker(lower, abstractMarkers)
		if !ok {
			continue
		}

		idx := strings.Index(lower, marker)
		if rest := strings.TrimSpace(strings.TrimLeft(line[idx+len(marker):], ":： \t")); rest != "" {
			return rest
		}

		var collected []string
		for j := i + 1; j < min(i+abstractWindow, len(lines)); j++ {
			if strings.TrimSpace(lines[j]) != "" {
				if strings.HasPrefix(lines[j], "#") {
					break
				}
				collected = append(collected, lines[j])
			} else if len(collected) > 0 {
				break
			}
		}
		return strings.TrimSpace(strings.Join(collected, " "))
	}
	return ""
}

// extractKeywords finds the first keyword marker line and splits the next
// few lines on commas (Latin and Chinese).
func extractKeywords(lines []string) []string {
	for i, line := range lines {
		if !containsAny(strings.ToLower(line), keywordMarkers) {
			continue
		}
		end := min(i+5, len(lines))
		text := strings.TrimSpace(strings.Join(lines[i+1:end], " "))
		keywords := splitList(text)
		if len(keywords) > maxKeywords {
			keywords = keywords[:maxKeywords]
		}
		return keywords
	}
	return nil
}

// extractAuthors scans the leading lines for an author marker, strips the
// marker text, and splits on commas or " and ".
func extractAuthors(lines []string) []string {
	limit := min(authorScanLines, len(lines))
	for _, line := range lines[:limit] {
		if !containsAny(strings.ToLower(line), authorMarkers) {
			continue
		}
		text := stripFold(line, "author:")
		text = strings.ReplaceAll(text, "作者:", "")
		text = strings.ReplaceAll(text, "@", "")
		text = strings.TrimSpace(text)
		if text == "" {
			break
		}
		text = strings.ReplaceAll(text, " and ", ",")
		authors := splitList(text)
		if len(authors) > maxAuthors {
			authors = authors[:maxAuthors]
		}
		return authors
	}
	return nil
}

// fallbackAbstract concatenates the first three substantive lines when no
// abstract marker was found, truncated to 500 characters.
func fallbackAbstract(lines []string) string {
	var paragraphs []string
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line != "" && len([]rune(line)) > 20 {
			paragraphs = append(paragraphs, line)
			if len(paragraphs) == 3 {
				break
			}
		}
	}
	return textutil.Truncate(strings.Join(paragraphs, " "), abstractFallbackLimit)
}

// splitList splits comma-separated text (Latin or Chinese commas) into
// trimmed non-empty entries.
func splitList(text string) []string {
	text = strings.ReplaceAll(text, "，", ",")
	var out []string
	for _, part := range strings.Split(text, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// stripFold removes the first case-insensitive occurrence of marker from s.
func stripFold(s, marker string) string {
	idx := strings.Index(strings.ToLower(s), strings.ToLower(marker))
	if idx < 0 {
		return s
	}
	return s[:idx] + s[idx+len(marker):]
}

func containsAny(haystack string, needles []string) bool {
	_, ok := firstMarker(haystack, needles)
	return ok
}

// firstMarker returns the first needle contained in haystack.
func firstMarker(haystack string, needles []string) (string, bool) {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return n, true
		}
	}
	return "", false
}
