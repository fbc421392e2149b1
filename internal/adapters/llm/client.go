// Package llm wraps an OpenAI-compatible chat-completions API (Groq) behind
// the domain.ChatCompleter port. The client is constructed once at process
// start and injected into the assistant service.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"dayplanner/internal/domain"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// Config holds settings for the chat-completion client.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string // defaults to the Groq endpoint
	Temperature float64
	MaxTokens   int
}

type groqClient struct {
	client  *http.Client
	baseURL string
	config  Config
}

// NewClient returns a ChatCompleter that calls the configured
// chat-completions API.
func NewClient(client *http.Client, config Config) (domain.ChatCompleter, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("llm: API key is not set")
	}
	if config.Model == "" {
		config.Model = "llama-3.1-8b-instant"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 1024
	}
	if client == nil {
		client = http.DefaultClient
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &groqClient{client: client, baseURL: baseURL, config: config}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *groqClient) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: userMessage})

	body, err := json.Marshal(chatRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: c.config.Temperature,
		MaxTokens:   c.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call chat completions: %w", err)
	}
	defer resp.Body.Close()

	var data chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if data.Error != nil {
			return "", fmt.Errorf("chat completions returned status %d: %s", resp.StatusCode, data.Error.Message)
		}
		return "", fmt.Errorf("chat completions returned status: %d", resp.StatusCode)
	}
	if len(data.Choices) == 0 {
		return "", fmt.Errorf("chat completions returned no choices")
	}
	return data.Choices[0].Message.Content, nil
}
