// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-engine/internal/workflow"
)

var polishCmd = &cobra.Command{
	Use:   "polish",
	Short: "Run the full manuscript-polish workflow",
	Long: `Polish generates search keywords from a manuscript, retrieves and ranks
relevant literature from a local directory, selects supporting passages, and
rewrites the manuscript with the language model. Outputs (the optimized
manuscript, a JSON run record, and a references export) are written to the
output directory.`,
	RunE: runPolish,
}

func runPolish(cmd *cobra.Command, args []string) error {
	manuscript, _ := cmd.Flags().GetString("manuscript")
	literatureDir, _ := cmd.Flags().GetString("literature")
	preprocess, _ := cmd.Flags().GetBool("preprocess")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outputDir, _ := cmd.Flags().GetString("output"); outputDir != "" {
		cfg.Workflow.OutputDir = outputDir
	}

	orch := workflow.New(newLLMClient(cfg), cfg)

	result, err := orch.Run(context.Background(), workflow.Options{
		ManuscriptPath: manuscript,
		LiteratureDir:  literatureDir,
		Preprocess:     preprocess,
		UseCache:       !noCache,
	}, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Printf("matched literature: %d, passages: %d\n",
		result.MatchedLiteratureCount, result.RelevantPassagesCount)
	return nil
}

func init() {
	polishCmd.Flags().StringP("manuscript", "m", "", "manuscript file path")
	polishCmd.Flags().StringP("literature", "l", "", "literature directory path")
	polishCmd.Flags().BoolP("preprocess", "p", false, "warm the metadata cache before searching")
	polishCmd.Flags().Bool("no-cache", false, "bypass the metadata cache")
	polishCmd.Flags().String("output", "", "output directory (default from config)")
	polishCmd.MarkFlagRequired("manuscript")
	polishCmd.MarkFlagRequired("literature")

	rootCmd.AddCommand(polishCmd)
}
