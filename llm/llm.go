// Package llm wraps an OpenAI-compatible chat-completions endpoint (Groq in
// production) behind a single-turn Complete call.
//
// One fixed model, one user message, no retries: retry policy belongs to
// callers, and in this pipeline there is none: an extraction failure is
// degradable, a generation failure fails the request.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/janmitra/yojana/kit"
	"github.com/janmitra/yojana/safeurl"
)

// DefaultBaseURL is the Groq OpenAI-compatible API root.
const DefaultBaseURL = "https://api.groq.com/openai/v1"

// DefaultModel is the fixed inference model.
const DefaultModel = "llama3-8b-8192"

// ErrUnavailable is returned when the inference endpoint cannot be reached
// or answers with a non-success status.
var ErrUnavailable = errors.New("llm: upstream unavailable")

// Config configures the client.
type Config struct {
	BaseURL string       `yaml:"base_url"`
	APIKey  string       `yaml:"api_key"`
	Model   string       `yaml:"model"`
	Timeout kit.Duration `yaml:"timeout"`
}

func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = kit.Duration(60 * time.Second)
	}
}

// Client calls the inference endpoint.
type Client struct {
	config Config
	client *http.Client
}

// New creates a Client. A nil httpClient gets a client with the configured
// timeout.
func New(cfg Config, httpClient *http.Client) *Client {
	cfg.defaults()
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout.Std()}
	}
	return &Client{config: cfg, client: httpClient}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends prompt as a single user message and returns the first
// choice's content. Transport errors, non-2xx statuses, and empty choice
// lists all wrap ErrUnavailable.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.config.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: http %d", ErrUnavailable, resp.StatusCode)
	}

	data, err := safeurl.LimitedReadAll(resp.Body, safeurl.MaxResponseBody)
	if err != nil {
		return "", fmt.Errorf("llm: read body: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrUnavailable)
	}
	return parsed.Choices[0].Message.Content, nil
}
