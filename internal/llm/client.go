// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm defines the language-model capability contract the pipeline
// depends on and one concrete adapter speaking the OpenAI-compatible
// chat-completions protocol. The core never depends on a provider type;
// every caller of this package must tolerate failure and degrade to a
// local heuristic.
package llm

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// Client is the capability set the pipeline consumes. Retry and timeout
// policy belong to implementations, not to callers.
type Client interface {
	// Chat sends a prompt (plus optional system instruction) and returns
	// the model's plain-text reply.
	Chat(ctx context.Context, prompt, system string) (string, error)

	// GenerateKeywords produces up to maxKeywords search keywords for text.
	GenerateKeywords(ctx context.Context, text string, maxKeywords int) ([]string, error)

	// ExtractMetadata parses literature metadata out of document content.
	ExtractMetadata(ctx context.Context, content string) (types.LiteratureMetadata, error)

	// OptimizeManuscript rewrites a manuscript using the given references.
	OptimizeManuscript(ctx context.Context, manuscript string, references []types.LiteratureMetadata, maxReferences int) (string, error)
}

// ExtractJSONObject returns the first balanced JSON object embedded in a
// model response. Responses may arrive bare, fenced in Markdown code
// blocks, or wrapped in prose; anything without a braced object is an
// error the caller turns into a fallback.
func ExtractJSONObject(response string) ([]byte, error) {
	s := response
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		s = strings.TrimPrefix(s, "json")
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	return []byte(s[start : end+1]), nil
}

// ParseKeywordList parses a raw comma-separated keyword response. Entries
// are trimmed; single characters, bare numbers, and empties are dropped.
func ParseKeywordList(response string, maxKeywords int) []string {
	fields := strings.FieldsFunc(response, func(r rune) bool {
		return r == ',' || r == '，' || r == '\n'
	})

	var keywords []string
	for _, f := range fields {
		kw := strings.TrimSpace(f)
		if len([]rune(kw)) <= 1 || isDigits(kw) {
			continue
		}
		keywords = append(keywords, kw)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
