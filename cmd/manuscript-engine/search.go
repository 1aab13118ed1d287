// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/manuscript-engine/internal/literature"
	"github.com/pdiddy/manuscript-engine/internal/metadata"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search a literature directory by keywords",
	Long: `Search ranks every supported document (.txt, .md, .pdf) in a directory
against a keyword set, using whole-word matching and TF-IDF over the scanned
corpus. Keywords are expanded through a built-in synonym table. No language
model is involved.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	keywordsFlag, _ := cmd.Flags().GetString("keywords")
	literatureDir, _ := cmd.Flags().GetString("literature")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	var keywords []string
	for _, kw := range strings.Split(keywordsFlag, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc := literature.NewService(metadata.NewCache(cfg.Cache), cfg.Search)
	out, err := svc.Search(keywords, literatureDir, maxResults, !noCache, os.Stderr)
	if err != nil {
		return err
	}

	if jsonOutput {
		return literature.FormatJSON(out, os.Stdout)
	}
	literature.FormatTable(out, os.Stdout)
	return nil
}

func init() {
	searchCmd.Flags().StringP("keywords", "k", "", "search keywords (comma-separated)")
	searchCmd.Flags().StringP("literature", "l", "", "literature directory path")
	searchCmd.Flags().Int("max-results", 50, "maximum number of results to return")
	searchCmd.Flags().Bool("no-cache", false, "bypass the metadata cache")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.MarkFlagRequired("keywords")
	searchCmd.MarkFlagRequired("literature")

	rootCmd.AddCommand(searchCmd)
}
