// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/manuscript-engine/internal/fileutil"
	"github.com/pdiddy/manuscript-engine/internal/textutil"
	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// llmPreviewLimit bounds the content sent to the model, in characters.
const llmPreviewLimit = 2000

// Extractor abstracts the language-model metadata capability so tests can
// supply a mock. The concrete implementation lives in internal/llm.
type Extractor interface {
	ExtractMetadata(ctx context.Context, content string) (types.LiteratureMetadata, error)
}

// ExtractWithLLM extracts metadata via the language-model strategy. It sends
// a bounded content preview and expects the structured metadata schema back.
// On any call or parse failure it falls back to the fast local strategy; the
// fallback is logged to w so failure injection is observable.
func ExtractWithLLM(ctx context.Context, extractor Extractor, path string, w io.Writer) (types.LiteratureMetadata, error) {
	if extractor == nil {
		fmt.Fprintf(w, "warning: no language-model client configured, using fast extraction for %s\n", path)
		return ExtractFast(path)
	}

	content, err := fileutil.ReadContent(path)
	if err != nil {
		return types.LiteratureMetadata{FilePath: path, ExtractionMethod: types.ExtractionUnknown}, err
	}

	preview := textutil.Truncate(content, llmPreviewLimit)

	md, err := extractor.ExtractMetadata(ctx, preview)
	if err != nil {
		fmt.Fprintf(w, "warning: llm metadata extraction failed for %s, falling back to fast extraction: %v\n", path, err)
		return FastFromContent(path, content), nil
	}

	md.FilePath = path
	md.ExtractionTime = time.Now().Format(time.RFC3339)
	md.ExtractionMethod = types.ExtractionLLM
	return md, nil
}
