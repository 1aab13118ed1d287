// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metadata

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/pdiddy/manuscript-engine/internal/fileutil"
	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// Cache is the per-file JSON metadata cache. Entries are keyed by the
// source file's stem as <stem>_metadata.json and trusted indefinitely:
// there is no TTL and no invalidation on source modification. The only
// refresh path is Preprocess with force set.
type Cache struct {
	dir string
}

// NewCache returns a cache rooted at cfg.Dir. The directory is created
// lazily on first write.
func NewCache(cfg types.CacheConfig) *Cache {
	return &Cache{dir: cfg.Dir}
}

// EntryPath returns the cache file path for a source document.
func (c *Cache) EntryPath(sourcePath string) string {
	return filepath.Join(c.dir, fileutil.Stem(sourcePath)+"_metadata.json")
}

// GetOrExtract returns cached metadata for sourcePath when useCache is set
// and a parseable entry with a non-empty title exists. Otherwise it extracts
// fresh via the fast strategy and persists the result. Persistence failure
// is logged to w, not propagated; a corrupt cache entry is a cache miss.
func (c *Cache) GetOrExtract(sourcePath string, useCache bool, w io.Writer) (types.LiteratureMetadata, error) {
	entry := c.EntryPath(sourcePath)

	if useCache {
		var md types.LiteratureMetadata
		if err := fileutil.LoadJSON(entry, &md); err == nil && md.Title != "" {
			return md, nil
		}
	}

	md, err := ExtractFast(sourcePath)
	if err != nil {
		return md, err
	}

	if err := fileutil.SaveJSON(md, entry); err != nil {
		fmt.Fprintf(w, "warning: could not persist metadata cache for %s: %v\n", sourcePath, err)
	}
	return md, nil
}

// PreprocessSummary holds counts from a batch cache-warming run.
type PreprocessSummary struct {
	Processed int
	Skipped   int
	Failed    int
}

// Total returns the number of files considered.
func (s PreprocessSummary) Total() int {
	return s.Processed + s.Skipped + s.Failed
}

// Preprocess warms the cache for every supported file under literatureDir,
// skipping files with an existing entry unless forceUpdate is set. A non-nil
// extractor selects the language-model strategy (which itself falls back to
// fast extraction). Per-file failures are logged and counted, never fatal;
// a missing directory is returned as an error value.
func (c *Cache) Preprocess(ctx context.Context, literatureDir string, extensions []string, extractor Extractor, forceUpdate bool, w io.Writer) (PreprocessSummary, error) {
	files, err := fileutil.SupportedFiles(literatureDir, extensions)
	if err != nil {
		return PreprocessSummary{}, err
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("preprocessing metadata"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var summary PreprocessSummary
	for _, f := range files {
		bar.Add(1)

		entry := c.EntryPath(f)
		if !forceUpdate {
			if _, err := os.Stat(entry); err == nil {
				summary.Skipped++
				continue
			}
		}

		var md types.LiteratureMetadata
		var err error
		if extractor != nil {
			md, err = ExtractWithLLM(ctx, extractor, f, w)
		} else {
			md, err = ExtractFast(f)
		}
		if err != nil {
			fmt.Fprintf(w, "warning: extraction failed for %s: %v\n", f, err)
			summary.Failed++
			continue
		}

		if err := fileutil.SaveJSON(md, entry); err != nil {
			fmt.Fprintf(w, "warning: could not persist metadata for %s: %v\n", f, err)
			summary.Failed++
			continue
		}
		summary.Processed++
	}

	fmt.Fprintf(w, "\nprocessed: %d, skipped: %d, failed: %d\n",
		summary.Processed, summary.Skipped, summary.Failed)
	return summary, nil
}
