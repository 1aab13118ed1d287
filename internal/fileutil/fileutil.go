// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fileutil provides the filesystem collaborators for the pipeline:
// directory enumeration by extension, text extraction from supported
// document formats, and JSON persistence with directory auto-creation.
package fileutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ledongthuc/pdf"
)

// SupportedFiles returns all files under dir (recursive) whose extension is
// in extensions, lexicographically sorted so enumeration order is stable.
// A missing directory is an error.
func SupportedFiles(dir string, extensions []string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("literature directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("literature directory %s: not a directory", dir)
	}

	var files []string
	for _, ext := range extensions {
		pattern := filepath.Join(dir, "**", "*"+ext)
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("globbing %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}

	sort.Strings(files)
	return files, nil
}

// ReadContent returns the text content of a supported document. Plain-text
// formats must be valid UTF-8; .pdf content is extracted as plain text.
func ReadContent(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return readPDF(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("reading %s: not valid UTF-8", path)
	}
	return string(data), nil
}

// readPDF extracts plain text from a PDF file.
func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	body, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting text from %s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return "", fmt.Errorf("reading text from %s: %w", path, err)
	}
	return buf.String(), nil
}

// WriteContent writes content to path, creating parent directories.
func WriteContent(content, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// SaveJSON marshals v as indented JSON to path, creating parent directories.
func SaveJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	return WriteContent(string(data), path)
}

// LoadJSON unmarshals the JSON file at path into v.
func LoadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Stem returns the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TimestampName returns "<prefix>_<YYYYMMDD_HHMMSS>.<ext>" for output files.
func TimestampName(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("20060102_150405"), ext)
}
