package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("rejects missing API key", func(t *testing.T) {
		_, err := NewClient(nil, Config{})
		assert.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		c, err := NewClient(nil, Config{APIKey: "key"})
		require.NoError(t, err)
		gc := c.(*groqClient)
		assert.Equal(t, defaultBaseURL, gc.baseURL)
		assert.NotEmpty(t, gc.config.Model)
		assert.NotZero(t, gc.config.MaxTokens)
	})
}

func TestComplete(t *testing.T) {
	t.Run("sends prompt and returns choice content", func(t *testing.T) {
		var got chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`))
		}))
		defer server.Close()

		c, err := NewClient(server.Client(), Config{APIKey: "key", Model: "test-model", BaseURL: server.URL})
		require.NoError(t, err)

		out, err := c.Complete(context.Background(), "you are a planner", "plan my day")
		require.NoError(t, err)
		assert.Equal(t, "hello there", out)

		require.Len(t, got.Messages, 2)
		assert.Equal(t, "system", got.Messages[0].Role)
		assert.Equal(t, "you are a planner", got.Messages[0].Content)
		assert.Equal(t, "user", got.Messages[1].Role)
		assert.Equal(t, "test-model", got.Model)
	})

	t.Run("omits system message when prompt is empty", func(t *testing.T) {
		var got chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
		}))
		defer server.Close()

		c, err := NewClient(server.Client(), Config{APIKey: "key", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = c.Complete(context.Background(), "", "hi")
		require.NoError(t, err)
		require.Len(t, got.Messages, 1)
		assert.Equal(t, "user", got.Messages[0].Role)
	})

	t.Run("surfaces API error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
		}))
		defer server.Close()

		c, err := NewClient(server.Client(), Config{APIKey: "bad", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = c.Complete(context.Background(), "", "hi")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid api key")
	})

	t.Run("fails on empty choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		}))
		defer server.Close()

		c, err := NewClient(server.Client(), Config{APIKey: "key", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = c.Complete(context.Background(), "", "hi")
		assert.Error(t, err)
	})
}
