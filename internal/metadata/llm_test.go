// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// mockExtractor returns a canned result or a forced error.
type mockExtractor struct {
	result types.LiteratureMetadata
	err    error
	calls  int
}

func (m *mockExtractor) ExtractMetadata(_ context.Context, _ string) (types.LiteratureMetadata, error) {
	m.calls++
	if m.err != nil {
		return types.LiteratureMetadata{}, m.err
	}
	return m.result, nil
}

func TestExtractWithLLMSuccess(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "paper.md", "A Local Heuristic Title Line\n")

	mock := &mockExtractor{result: types.LiteratureMetadata{
		Title:    "Model-Provided Title",
		Authors:  []string{"A. Author"},
		Abstract: "Model-provided abstract.",
	}}

	var buf bytes.Buffer
	md, err := ExtractWithLLM(context.Background(), mock, doc, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if md.Title != "Model-Provided Title" {
		t.Errorf("Title = %q", md.Title)
	}
	if md.ExtractionMethod != types.ExtractionLLM {
		t.Errorf("ExtractionMethod = %q, want %q", md.ExtractionMethod, types.ExtractionLLM)
	}
	if md.FilePath != doc {
		t.Errorf("FilePath = %q, want %q", md.FilePath, doc)
	}
	if md.ExtractionTime == "" {
		t.Error("ExtractionTime empty")
	}
	if mock.calls != 1 {
		t.Errorf("extractor called %d times, want 1", mock.calls)
	}
}

func TestExtractWithLLMFallsBackOnError(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "paper.md", "A Local Heuristic Title Line\n")

	mock := &mockExtractor{err: errors.New("model unavailable")}

	var buf bytes.Buffer
	md, err := ExtractWithLLM(context.Background(), mock, doc, &buf)
	if err != nil {
		t.Fatalf("fallback must not surface the model error: %v", err)
	}
	if md.Title != "A Local Heuristic Title Line" {
		t.Errorf("Title = %q, want local extraction", md.Title)
	}
	if md.ExtractionMethod != types.ExtractionFastLocal {
		t.Errorf("ExtractionMethod = %q, want %q", md.ExtractionMethod, types.ExtractionFastLocal)
	}
	if !strings.Contains(buf.String(), "falling back") {
		t.Errorf("fallback not logged: %q", buf.String())
	}
}

func TestExtractWithLLMNilExtractor(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "paper.md", "A Local Heuristic Title Line\n")

	var buf bytes.Buffer
	md, err := ExtractWithLLM(context.Background(), nil, doc, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if md.ExtractionMethod != types.ExtractionFastLocal {
		t.Errorf("ExtractionMethod = %q, want %q", md.ExtractionMethod, types.ExtractionFastLocal)
	}
	if buf.Len() == 0 {
		t.Error("nil-extractor fallback not logged")
	}
}

func TestExtractWithLLMReadError(t *testing.T) {
	mock := &mockExtractor{}
	var buf bytes.Buffer
	_, err := ExtractWithLLM(context.Background(), mock, "does/not/exist.md", &buf)
	if err == nil {
		t.Fatal("expected read error")
	}
	if mock.calls != 0 {
		t.Errorf("extractor called %d times on unreadable file, want 0", mock.calls)
	}
}
