// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the manuscript-engine CLI: literature
// search, metadata preprocessing, and the full manuscript-polish workflow.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/manuscript-engine/internal/llm"
	"github.com/pdiddy/manuscript-engine/internal/secrets"
	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the manuscript-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "manuscript-engine",
	Short: "Literature retrieval and manuscript polishing",
	Long: `manuscript-engine retrieves relevant literature from a local document
directory and rewrites a manuscript draft with the help of a language model.

The retrieval pipeline (metadata extraction, relevance scoring, passage
selection) works without any API key; the polish workflow degrades to local
heuristics when no model is configured.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./manuscript-engine.yaml or ~/.config/manuscript-engine/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("manuscript-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "manuscript-engine"))
		}
	}

	viper.SetEnvPrefix("MANUSCRIPT_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig merges the config file over the defaults and fills the API
// key from secrets or the environment.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing configuration: %w", err)
	}

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = loadedSecrets["llm-api-key"]
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = loadedSecrets["llm-base-url"]
	}
	return cfg, nil
}

// newLLMClient returns a client when an API key is configured, nil
// otherwise. A nil client selects the local fallback everywhere.
func newLLMClient(cfg types.Config) llm.Client {
	if cfg.LLM.APIKey == "" {
		fmt.Fprintln(os.Stderr, "notice: no LLM API key configured, using local fallbacks")
		return nil
	}
	return llm.NewOpenAIClient(cfg.LLM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
