package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ryan-kosiba/nutriclaude/internal/store"
	"github.com/ryan-kosiba/nutriclaude/internal/store/storetest"
)

func makeMemoryStore(t *testing.T) store.Store {
	t.Helper()
	s, err := Bootstrap(context.Background(), Memory)
	if err != nil {
		t.Fatalf("sqlite bootstrap: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_Compliance(t *testing.T) {
	storetest.Run(t, makeMemoryStore)
}

func TestSQLiteStore_FileCompliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		path := filepath.Join(t.TempDir(), "nested", "nutriclaude.db")
		s, err := Bootstrap(context.Background(), path)
		if err != nil {
			t.Fatalf("sqlite bootstrap: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestBootstrapIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nutriclaude.db")
	for i := 0; i < 2; i++ {
		s, err := Bootstrap(context.Background(), path)
		if err != nil {
			t.Fatalf("bootstrap #%d: %v", i+1, err)
		}
		if err := s.HealthPing(context.Background()); err != nil {
			t.Fatalf("ping: %v", err)
		}
		_ = s.Close()
	}
}
