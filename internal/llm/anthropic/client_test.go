package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{APIKey: "test-key", Model: "claude-test", BaseURL: srv.URL, MaxTokens: 256})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestGenerate_SendsMessagesRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" || r.Header.Get("anthropic-version") != apiVersion {
			t.Fatalf("missing auth headers: %v", r.Header)
		}
		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Model != "claude-test" || req.MaxTokens != 256 || req.System != "be terse" {
			t.Fatalf("unexpected body: %+v", req)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "hello" {
			t.Fatalf("unexpected messages: %+v", req.Messages)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"[{\"type\":"},{"type":"text","text":"\"unknown\"}]"}],"stop_reason":"end_turn"}`))
	})

	out, err := c.Generate(context.Background(), "be terse", "hello")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != `[{"type":"unknown"}]` {
		t.Fatalf("unexpected text %q", out)
	}
}

func TestGenerate_ProviderErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	})

	_, err := c.Generate(context.Background(), "", "hello")
	if err == nil || !strings.Contains(err.Error(), "rate_limit_error") {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestHealthPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	if err := c.HealthPing(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := New(Config{Model: "m"}); err == nil {
		t.Fatalf("expected error without api key")
	}
}
