// Package gemini implements llm.Generator on the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Config configures a Client.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
}

// Client wraps a genai client bound to one model.
type Client struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

// New creates a Gemini API client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini: model is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Client{client: client, model: cfg.Model, maxTokens: int32(maxTokens)}, nil
}

// Generate sends user with system as the system instruction and returns the response text.
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	conf := &genai.GenerateContentConfig{
		MaxOutputTokens: c.maxTokens,
	}
	if strings.TrimSpace(system) != "" {
		conf.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(user), conf)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: response has no text content")
	}
	return text, nil
}

// HealthPing fetches the model metadata.
func (c *Client) HealthPing(ctx context.Context) error {
	if _, err := c.client.Models.Get(ctx, c.model, nil); err != nil {
		return fmt.Errorf("gemini ping: %w", err)
	}
	return nil
}
