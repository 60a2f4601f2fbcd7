// Package anthropic implements llm.Generator on the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
)

// Config configures a Client.
type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// Client calls POST /v1/messages with a single user turn.
type Client struct {
	client    *resty.Client
	model     string
	maxTokens int
}

// New creates a Client. An empty BaseURL falls back to the public endpoint.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("anthropic: model is required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(base, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", apiVersion).
		SetTimeout(timeout)

	return &Client{client: c, model: cfg.Model, maxTokens: maxTokens}, nil
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends system and user to the model and concatenates the returned text blocks.
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	reqBody := messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: user}},
	}

	var out messagesResponse
	var apiErr apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&reqBody).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v1/messages")
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		if apiErr.Error.Message != "" {
			return "", fmt.Errorf("anthropic status %d: %s: %s", resp.StatusCode(), apiErr.Error.Type, apiErr.Error.Message)
		}
		return "", fmt.Errorf("anthropic status %d: %s", resp.StatusCode(), resp.String())
	}

	var sb strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic: response has no text content (stop_reason=%s)", out.StopReason)
	}
	return sb.String(), nil
}

// HealthPing lists models, which is authenticated but does not spend tokens.
func (c *Client) HealthPing(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("limit", "1").
		Get("/v1/models")
	if err != nil {
		return fmt.Errorf("anthropic ping: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("anthropic ping status %d", resp.StatusCode())
	}
	return nil
}
