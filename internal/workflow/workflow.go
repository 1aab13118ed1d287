// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workflow coordinates the manuscript-polish run: keyword
// generation, literature search, passage selection, manuscript
// optimization, and result persistence. Every language-model step has a
// local fallback, so a run always completes with a (possibly degraded)
// result; the only hard failures are a missing manuscript or literature
// directory.
package workflow

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/manuscript-engine/internal/fileutil"
	"github.com/pdiddy/manuscript-engine/internal/literature"
	"github.com/pdiddy/manuscript-engine/internal/llm"
	"github.com/pdiddy/manuscript-engine/internal/metadata"
	"github.com/pdiddy/manuscript-engine/internal/passage"
	"github.com/pdiddy/manuscript-engine/internal/textutil"
	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// maxGeneratedKeywords bounds the keyword set used for retrieval.
const maxGeneratedKeywords = 10

// nonKeyChars strips everything but letters and digits from citation keys.
var nonKeyChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Orchestrator wires the pipeline stages together. client may be nil, in
// which case every model-backed step uses its local fallback.
type Orchestrator struct {
	client   llm.Client
	cache    *metadata.Cache
	search   *literature.Service
	selector *passage.Selector
	cfg      types.Config
}

// New builds an orchestrator from explicit configuration.
func New(client llm.Client, cfg types.Config) *Orchestrator {
	cache := metadata.NewCache(cfg.Cache)
	var chatter passage.Chatter
	if client != nil {
		chatter = client
	}
	return &Orchestrator{
		client:   client,
		cache:    cache,
		search:   literature.NewService(cache, cfg.Search),
		selector: passage.NewSelector(chatter),
		cfg:      cfg,
	}
}

// Options holds the inputs of one run.
type Options struct {
	// ManuscriptPath is the manuscript file to polish.
	ManuscriptPath string

	// LiteratureDir is the directory searched for supporting literature.
	LiteratureDir string

	// Preprocess warms the metadata cache before searching.
	Preprocess bool

	// UseCache reads metadata through the cache during the search.
	UseCache bool
}

// Run reads the manuscript and executes the full workflow. A missing
// manuscript or literature directory is returned as an error.
func (o *Orchestrator) Run(ctx context.Context, opts Options, w io.Writer) (types.WorkflowResult, error) {
	content, err := fileutil.ReadContent(opts.ManuscriptPath)
	if err != nil {
		return types.WorkflowResult{}, fmt.Errorf("manuscript: %w", err)
	}

	title := fileutil.Stem(opts.ManuscriptPath)
	return o.RunWithContent(ctx, content, title, opts, w)
}

// RunWithContent executes the workflow for already-loaded manuscript text.
func (o *Orchestrator) RunWithContent(ctx context.Context, manuscript, title string, opts Options, w io.Writer) (types.WorkflowResult, error) {
	start := time.Now()

	result := types.WorkflowResult{
		Timestamp:            start.Format(time.RFC3339),
		InputManuscript:      title,
		LiteratureDirectory:  opts.LiteratureDir,
		PreprocessingEnabled: opts.Preprocess,
	}

	if opts.Preprocess {
		fmt.Fprintln(w, "preprocessing literature metadata...")
		if _, err := o.cache.Preprocess(ctx, opts.LiteratureDir, o.cfg.Search.SupportedExtensions, nil, false, w); err != nil {
			return result, err
		}
	}

	fmt.Fprintln(w, "generating search keywords...")
	keywords := o.generateKeywords(ctx, manuscript, w)
	result.GeneratedKeywords = keywords
	fmt.Fprintf(w, "keywords: %s\n", strings.Join(keywords, ", "))

	fmt.Fprintln(w, "searching literature...")
	searchOut, err := o.search.Search(keywords, opts.LiteratureDir, o.cfg.Search.MaxResults, opts.UseCache, w)
	if err != nil {
		return result, err
	}
	result.MatchedLiterature = searchOut.Results
	result.MatchedLiteratureCount = len(searchOut.Results)
	fmt.Fprintf(w, "matched %d of %d documents\n", len(searchOut.Results), searchOut.FilesScanned)

	fmt.Fprintln(w, "selecting relevant passages...")
	passages := o.selector.Select(ctx, searchOut.Results, keywords,
		o.cfg.Workflow.MaxLiteratureCount, o.cfg.Workflow.PassagesPerLiterature, w)
	result.RelevantPassages = passages
	result.RelevantPassagesCount = len(passages)
	fmt.Fprintf(w, "selected %d passages\n", len(passages))

	fmt.Fprintln(w, "optimizing manuscript...")
	optimized := o.optimizeManuscript(ctx, manuscript, searchOut.Results, w)

	if err := o.persist(&result, title, optimized, searchOut.Results, w); err != nil {
		return result, err
	}

	fmt.Fprintf(w, "done in %s\n", time.Since(start).Round(time.Millisecond))
	return result, nil
}

// generateKeywords uses the model when available and falls back to
// frequency-based extraction on failure. The fallback is logged.
func (o *Orchestrator) generateKeywords(ctx context.Context, manuscript string, w io.Writer) []string {
	text := textutil.Truncate(manuscript, o.cfg.Workflow.ContextLengthLimit)

	if o.client != nil {
		keywords, err := o.client.GenerateKeywords(ctx, text, maxGeneratedKeywords)
		if err == nil {
			return keywords
		}
		fmt.Fprintf(w, "warning: keyword generation failed, using frequency fallback: %v\n", err)
	}
	return textutil.FrequencyKeywords(text, maxGeneratedKeywords)
}

// optimizeManuscript rewrites the manuscript against the top references.
// On any failure the original content is kept unchanged.
func (o *Orchestrator) optimizeManuscript(ctx context.Context, manuscript string, references []types.LiteratureMetadata, w io.Writer) string {
	if o.client == nil {
		fmt.Fprintln(w, "warning: no language-model client configured, keeping manuscript unchanged")
		return manuscript
	}

	preview := manuscript
	if limit := o.cfg.Workflow.ManuscriptPreviewLimit; limit > 0 {
		preview = textutil.Truncate(manuscript, limit)
	}

	optimized, err := o.client.OptimizeManuscript(ctx, preview, references, o.cfg.Workflow.MaxReferences)
	if err != nil {
		fmt.Fprintf(w, "warning: manuscript optimization failed, keeping original: %v\n", err)
		return manuscript
	}
	return optimized
}

// persist writes the optimized manuscript, the JSON run record, and the
// references YAML export to the output directory.
func (o *Orchestrator) persist(result *types.WorkflowResult, title, optimized string, references []types.LiteratureMetadata, w io.Writer) error {
	outDir := o.cfg.Workflow.OutputDir

	outPath := filepath.Join(outDir, fileutil.TimestampName("optimized_"+title, "md"))
	if err := fileutil.WriteContent(optimized, outPath); err != nil {
		return fmt.Errorf("writing optimized manuscript: %w", err)
	}
	result.OutputManuscript = outPath
	fmt.Fprintf(w, "optimized manuscript: %s\n", outPath)

	recordPath := filepath.Join(outDir, fileutil.TimestampName("workflow_result_"+title, "json"))
	if err := fileutil.SaveJSON(result, recordPath); err != nil {
		return fmt.Errorf("writing run record: %w", err)
	}

	refs := BuildReferences(title, references, o.cfg.Workflow.MaxReferences)
	data, err := yaml.Marshal(refs)
	if err != nil {
		return fmt.Errorf("marshaling references: %w", err)
	}
	refPath := filepath.Join(outDir, fileutil.TimestampName("references_"+title, "yaml"))
	if err := fileutil.WriteContent(string(data), refPath); err != nil {
		return fmt.Errorf("writing references: %w", err)
	}

	return nil
}

// BuildReferences converts the top-ranked literature into the citable
// references export, assigning AuthorYear citation keys.
func BuildReferences(manuscript string, literature []types.LiteratureMetadata, maxReferences int) types.ReferencesFile {
	refs := types.ReferencesFile{Manuscript: manuscript}

	seen := make(map[string]int)
	for i, lit := range literature {
		if i == maxReferences {
			break
		}
		key := citationKey(lit)
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s-%d", key, n)
		}

		refs.References = append(refs.References, types.Reference{
			CitationKey:   key,
			Title:         lit.Title,
			Authors:       lit.Authors,
			Year:          lit.Year,
			FilePath:      lit.FilePath,
			CombinedScore: lit.CombinedScore,
		})
	}
	return refs
}

// citationKey derives an AuthorYear key from the first author's surname.
func citationKey(lit types.LiteratureMetadata) string {
	surname := "Anon"
	if len(lit.Authors) > 0 {
		parts := strings.Fields(lit.Authors[0])
		if len(parts) > 0 {
			surname = nonKeyChars.ReplaceAllString(parts[len(parts)-1], "")
		}
	}
	if surname == "" {
		surname = "Anon"
	}
	return surname + lit.Year
}
