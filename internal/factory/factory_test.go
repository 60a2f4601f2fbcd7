package factory

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ryan-kosiba/nutriclaude/internal/config"
	"github.com/ryan-kosiba/nutriclaude/internal/llm/anthropic"
)

func TestNewStore_SQLiteMemory(t *testing.T) {
	cfg := config.NewForTesting()
	st, err := NewStore(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer func() { _ = st.Close() }()
	if err := st.HealthPing(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestNewStore_PostgresNeedsDSN(t *testing.T) {
	cfg := config.NewForTesting()
	cfg.DBDriver = "postgres"
	if _, err := NewStore(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected error without DSN")
	}
}

func TestNewGenerator(t *testing.T) {
	cfg := config.NewForTesting()
	if _, err := NewGenerator(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected error without api key")
	}

	cfg.AnthropicAPIKey = "test-key"
	gen, err := NewGenerator(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	if _, ok := gen.(*anthropic.Client); !ok {
		t.Fatalf("expected anthropic client, got %T", gen)
	}

	cfg.LLMProvider = "openai"
	if _, err := NewGenerator(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}
