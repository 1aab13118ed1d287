// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-engine/internal/metadata"
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess",
	Short: "Batch-extract and cache literature metadata",
	Long: `Preprocess walks a literature directory and warms the per-file metadata
cache. Extraction uses fast local heuristics by default; --llm asks the
configured language model instead, falling back to local extraction per file
on failure. Files with an existing cache entry are skipped unless --force
is set.`,
	RunE: runPreprocess,
}

func runPreprocess(cmd *cobra.Command, args []string) error {
	literatureDir, _ := cmd.Flags().GetString("literature")
	force, _ := cmd.Flags().GetBool("force")
	useLLM, _ := cmd.Flags().GetBool("llm")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var extractor metadata.Extractor
	if useLLM {
		if client := newLLMClient(cfg); client != nil {
			extractor = client
		}
	}

	cache := metadata.NewCache(cfg.Cache)
	summary, err := cache.Preprocess(context.Background(), literatureDir, cfg.Search.SupportedExtensions, extractor, force, os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed preprocessing", summary.Failed)
	}
	return nil
}

func init() {
	preprocessCmd.Flags().StringP("literature", "l", "", "literature directory path")
	preprocessCmd.Flags().BoolP("force", "f", false, "re-extract files that already have a cache entry")
	preprocessCmd.Flags().Bool("llm", false, "extract with the language model instead of local heuristics")
	preprocessCmd.MarkFlagRequired("literature")

	rootCmd.AddCommand(preprocessCmd)
}
