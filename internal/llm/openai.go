// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pdiddy/manuscript-engine/pkg/types"
)

// backoffBase controls the base duration for exponential backoff between
// retries. Tests override this to avoid real sleeps.
var backoffBase = time.Second

// OpenAIClient implements Client against any OpenAI-compatible
// chat-completions endpoint. The original deployment targets DashScope's
// compatible mode via BaseURL; the default endpoint works unchanged.
type OpenAIClient struct {
	client *openai.Client
	cfg    types.LLMConfig
}

// NewOpenAIClient builds a client from config. Timeout applies per request;
// MaxRetries bounds the retry loop around each call.
func NewOpenAIClient(cfg types.LLMConfig) *OpenAIClient {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(apiCfg),
		cfg:    cfg,
	}
}

// Chat sends one user prompt with an optional system instruction.
func (c *OpenAIClient) Chat(ctx context.Context, prompt, system string) (string, error) {
	return c.complete(ctx, prompt, system, false)
}

func (c *OpenAIClient) complete(ctx context.Context, prompt, system string, jsonMode bool) (string, error) {
	var messages []openai.ChatCompletionMessage
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	req := openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	maxRetries := c.cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.client.CreateChatCompletion(ctx, req)
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("empty completion response")
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}
	return "", fmt.Errorf("chat completion after %d retries: %w", maxRetries, lastErr)
}

// GenerateKeywords asks the model for retrieval keywords and parses the
// comma-separated reply. Callers fall back to frequency-based extraction
// on error.
func (c *OpenAIClient) GenerateKeywords(ctx context.Context, text string, maxKeywords int) ([]string, error) {
	resp, err := c.Chat(ctx, keywordPrompt(text, maxKeywords), "")
	if err != nil {
		return nil, err
	}

	keywords := ParseKeywordList(resp, maxKeywords)
	if len(keywords) == 0 {
		return nil, fmt.Errorf("no keywords in response %q", resp)
	}
	return keywords, nil
}

// metadataPayload is the structured-output schema for metadata extraction.
type metadataPayload struct {
	Title    string   `json:"title"`
	Authors  []string `json:"authors"`
	Abstract string   `json:"abstract"`
	Keywords []string `json:"keywords"`
	Year     string   `json:"year"`
}

// ExtractMetadata asks the model for the metadata schema in JSON mode and
// parses the reply. Any parse failure is an error; callers fall back to
// the fast local extractor.
func (c *OpenAIClient) ExtractMetadata(ctx context.Context, content string) (types.LiteratureMetadata, error) {
	resp, err := c.complete(ctx, metadataPrompt(content),
		"You are a precise literature analysis assistant.", true)
	if err != nil {
		return types.LiteratureMetadata{}, err
	}

	raw, err := ExtractJSONObject(resp)
	if err != nil {
		return types.LiteratureMetadata{}, fmt.Errorf("metadata response: %w", err)
	}

	var payload metadataPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return types.LiteratureMetadata{}, fmt.Errorf("parsing metadata response: %w", err)
	}

	return types.LiteratureMetadata{
		Title:    payload.Title,
		Authors:  payload.Authors,
		Abstract: payload.Abstract,
		Keywords: payload.Keywords,
		Year:     payload.Year,
	}, nil
}

// OptimizeManuscript rewrites the manuscript against the references. The
// caller keeps the original content on error.
func (c *OpenAIClient) OptimizeManuscript(ctx context.Context, manuscript string, references []types.LiteratureMetadata, maxReferences int) (string, error) {
	return c.Chat(ctx, optimizePrompt(manuscript, references, maxReferences),
		"You are an academic writing assistant.")
}
