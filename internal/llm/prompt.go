// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"fmt"
	"strings"

	"github.com/pdiddy/manuscript-engine/internal/textutil"
	"github.com/pdiddy/manuscript-engine/pkg/types"
)

const (
	// keywordContextLimit bounds text sent for keyword generation, in characters.
	keywordContextLimit = 3000

	// metadataContextLimit bounds document content sent for metadata extraction.
	metadataContextLimit = 2000

	// referenceAbstractLimit bounds each reference abstract in the
	// optimization prompt.
	referenceAbstractLimit = 200
)

func keywordPrompt(text string, maxKeywords int) string {
	text = textutil.Truncate(text, keywordContextLimit)
	return fmt.Sprintf(`Extract the %d most important keywords from the following text, for use in literature retrieval.
Requirements:
1. Keywords should be academic terms or technical concepts
2. Prefer nouns and noun phrases
3. Avoid overly generic words
4. Separate keywords with commas
5. Return only the keywords, no explanation

Text:
%s

Keywords:`, maxKeywords, text)
}

func metadataPrompt(content string) string {
	content = textutil.Truncate(content, metadataContextLimit)
	return fmt.Sprintf(`Extract metadata from the following document content and return it as JSON.
Required fields:
- title: the document title
- authors: list of authors (array)
- abstract: the abstract
- keywords: list of keywords (array)
- year: the publication year

Set any field you cannot extract to an empty string or empty array.
Return only JSON, no other explanation.

Document content:
%s`, content)
}

// optimizePrompt builds the rewrite prompt. The manuscript is already
// bounded by the caller (the workflow's preview limit).
func optimizePrompt(manuscript string, references []types.LiteratureMetadata, maxReferences int) string {
	var refLines []string
	for i, ref := range references {
		if i == maxReferences {
			break
		}
		line := fmt.Sprintf("%d. %s", i+1, orDefault(ref.Title, "Unknown Title"))
		if len(ref.Authors) > 0 {
			line += " - " + strings.Join(ref.Authors[:min(2, len(ref.Authors))], ", ")
		}
		if ref.Year != "" {
			line += fmt.Sprintf(" (%s)", ref.Year)
		}
		if ref.Abstract != "" {
			line += fmt.Sprintf("\n   Abstract: %s...", textutil.Truncate(ref.Abstract, referenceAbstractLimit))
		}
		refLines = append(refLines, line)
	}

	return fmt.Sprintf(`Improve the following academic manuscript using the provided references. Requirements:

1. Preserve the core arguments and structure of the original
2. Add theoretical support and empirical evidence from the references
3. Insert citations where appropriate (format: [author, year])
4. Improve academic tone and precision
5. Keep the argument coherent and well supported

Original manuscript:
%s

References:
%s

Improved manuscript:`, manuscript, strings.Join(refLines, "\n"))
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
