// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/manuscript-engine/pkg/types"
)

func init() {
	// Use a tiny base delay so retry tests finish quickly.
	backoffBase = 1 * time.Millisecond
}

// --- ExtractJSONObject ---

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		wantErr  bool
	}{
		{
			name:     "bare object",
			response: `{"title": "x"}`,
			want:     `{"title": "x"}`,
		},
		{
			name:     "fenced with language tag",
			response: "```json\n{\"title\": \"x\"}\n```",
			want:     "{\"title\": \"x\"}",
		},
		{
			name:     "fenced without language tag",
			response: "```\n{\"title\": \"x\"}\n```",
			want:     "{\"title\": \"x\"}",
		},
		{
			name:     "wrapped in prose",
			response: "Here is the result: {\"title\": \"x\"} as requested.",
			want:     "{\"title\": \"x\"}",
		},
		{
			name:     "nested objects",
			response: `{"passages": [{"text": "a"}]}`,
			want:     `{"passages": [{"text": "a"}]}`,
		},
		{
			name:     "no object",
			response: "I could not produce any structured output.",
			wantErr:  true,
		},
		{
			name:     "empty response",
			response: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSONObject(tt.response)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.True(t, json.Valid(got), "extracted payload must be valid JSON")
		})
	}
}

// --- ParseKeywordList ---

func TestParseKeywordList(t *testing.T) {
	tests := []struct {
		name     string
		response string
		max      int
		want     []string
	}{
		{
			name:     "comma separated",
			response: "deep learning, neural networks, attention",
			max:      10,
			want:     []string{"deep learning", "neural networks", "attention"},
		},
		{
			name:     "chinese commas and newlines",
			response: "图像识别，深度学习\nattention",
			max:      10,
			want:     []string{"图像识别", "深度学习", "attention"},
		},
		{
			name:     "drops single characters and bare numbers",
			response: "a, 42, gradient, 7",
			max:      10,
			want:     []string{"gradient"},
		},
		{
			name:     "truncated to max",
			response: "one, two, three, four",
			max:      2,
			want:     []string{"one", "two"},
		},
		{
			name:     "empty response",
			response: "",
			max:      5,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKeywordList(tt.response, tt.max))
		})
	}
}

// --- OpenAIClient ---

// completionResponse builds a minimal chat-completions reply body.
func completionResponse(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":     "test",
		"object": "chat.completion",
		"choices": []map[string]any{
			{"index": 0, "message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	return string(body)
}

func testClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return NewOpenAIClient(types.LLMConfig{
		APIKey:     "test-key",
		BaseURL:    ts.URL + "/v1",
		Model:      "test-model",
		MaxRetries: 3,
		Timeout:    5 * time.Second,
	})
}

func TestChatImmediateSuccess(t *testing.T) {
	var calls int32
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionResponse("hello back")))
	})

	got, err := client.Chat(context.Background(), "hello", "")
	require.NoError(t, err)
	assert.Equal(t, "hello back", got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestChatRetriesThenSucceeds(t *testing.T) {
	var calls int32
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionResponse("third time lucky")))
	})

	got, err := client.Chat(context.Background(), "hello", "system text")
	require.NoError(t, err)
	assert.Equal(t, "third time lucky", got)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestChatExhaustsRetries(t *testing.T) {
	var calls int32
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Chat(context.Background(), "hello", "")
	require.Error(t, err)
	// 1 initial attempt + 3 retries.
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestChatContextCancelled(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Chat(ctx, "hello", "")
	require.Error(t, err)
}

func TestGenerateKeywords(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionResponse("neural networks, attention, transformers")))
	})

	got, err := client.GenerateKeywords(context.Background(), "some manuscript text", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"neural networks", "attention", "transformers"}, got)
}

func TestGenerateKeywordsEmptyReply(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionResponse("")))
	})

	_, err := client.GenerateKeywords(context.Background(), "text", 10)
	require.Error(t, err)
}

func TestExtractMetadata(t *testing.T) {
	reply := "```json\n" + `{"title": "A Title", "authors": ["X"], "abstract": "Short.", "keywords": ["k1"], "year": "2019"}` + "\n```"
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionResponse(reply)))
	})

	got, err := client.ExtractMetadata(context.Background(), "document content")
	require.NoError(t, err)
	assert.Equal(t, "A Title", got.Title)
	assert.Equal(t, []string{"X"}, got.Authors)
	assert.Equal(t, "Short.", got.Abstract)
	assert.Equal(t, []string{"k1"}, got.Keywords)
	assert.Equal(t, "2019", got.Year)
}

func TestExtractMetadataMalformedReply(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionResponse("no structured output at all")))
	})

	_, err := client.ExtractMetadata(context.Background(), "document content")
	require.Error(t, err)
}

func TestOptimizeManuscript(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionResponse("the improved manuscript")))
	})

	refs := []types.LiteratureMetadata{{Title: "Ref", Authors: []string{"A"}, Year: "2020"}}
	got, err := client.OptimizeManuscript(context.Background(), "draft text", refs, 5)
	require.NoError(t, err)
	assert.Equal(t, "the improved manuscript", got)
}
