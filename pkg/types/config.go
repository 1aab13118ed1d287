// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LLMConfig holds settings for the language-model client.
type LLMConfig struct {
	// APIKey authenticates against the chat-completions endpoint.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint for OpenAI-compatible providers
	// (e.g. the DashScope compatible-mode URL). Empty uses the default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Model is the model identifier (e.g. "qwen-plus").
	Model string `json:"model" yaml:"model"`

	// Temperature is the sampling temperature.
	Temperature float32 `json:"temperature" yaml:"temperature"`

	// MaxTokens bounds the completion length.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// MaxRetries is the number of retry attempts for failed API calls.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// SearchConfig holds settings for the literature search stage.
type SearchConfig struct {
	// SupportedExtensions lists the file extensions scanned for literature.
	SupportedExtensions []string `json:"supported_extensions" yaml:"supported_extensions"`

	// MaxResults is the maximum number of ranked documents returned.
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MaxKeywords bounds the keyword set handed to the search.
	MaxKeywords int `json:"max_keywords" yaml:"max_keywords"`
}

// CacheConfig holds settings for the metadata cache.
type CacheConfig struct {
	// Dir is the directory holding <stem>_metadata.json entries.
	Dir string `json:"dir" yaml:"dir"`
}

// WorkflowConfig holds settings for the manuscript-polish workflow.
type WorkflowConfig struct {
	// MaxLiteratureCount bounds the documents processed for passages.
	MaxLiteratureCount int `json:"max_literature_count" yaml:"max_literature_count"`

	// PassagesPerLiterature is the number of excerpts requested per document.
	PassagesPerLiterature int `json:"passages_per_literature" yaml:"passages_per_literature"`

	// MaxReferences bounds the references handed to manuscript optimization.
	MaxReferences int `json:"max_references" yaml:"max_references"`

	// ContextLengthLimit bounds text sent for keyword generation, in characters.
	ContextLengthLimit int `json:"context_length_limit" yaml:"context_length_limit"`

	// ManuscriptPreviewLimit bounds manuscript text sent for optimization, in characters.
	ManuscriptPreviewLimit int `json:"manuscript_preview_limit" yaml:"manuscript_preview_limit"`

	// OutputDir is where optimized manuscripts and run records are written.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// Config groups all stage configurations. It is built once at startup and
// passed into every constructor; there is no ambient global state.
type Config struct {
	LLM      LLMConfig      `json:"llm" yaml:"llm"`
	Search   SearchConfig   `json:"search" yaml:"search"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Workflow WorkflowConfig `json:"workflow" yaml:"workflow"`
}

// DefaultConfig returns the configuration used when no file or flags
// override it. Values mirror the documented workflow defaults.
func DefaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			Model:       "qwen-plus",
			Temperature: 0.7,
			MaxTokens:   2000,
			MaxRetries:  3,
			Timeout:     60 * time.Second,
		},
		Search: SearchConfig{
			SupportedExtensions: []string{".txt", ".md", ".pdf"},
			MaxResults:          50,
			MaxKeywords:         30,
		},
		Cache: CacheConfig{
			Dir: "cache/metadata",
		},
		Workflow: WorkflowConfig{
			MaxLiteratureCount:     50,
			PassagesPerLiterature:  2,
			MaxReferences:          10,
			ContextLengthLimit:     3000,
			ManuscriptPreviewLimit: 2000,
			OutputDir:              "output",
		},
	}
}
