package llm

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type pingingGenerator struct {
	fail atomic.Bool
}

func (g *pingingGenerator) Generate(context.Context, string, string) (string, error) {
	panic("unused")
}

func (g *pingingGenerator) HealthPing(context.Context) error {
	if g.fail.Load() {
		return errors.New("provider unreachable")
	}
	return nil
}

func TestProviderHealthChecker_UsesHealthPing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := &pingingGenerator{}
	hc := NewProviderHealthChecker(g, zerolog.Nop(), 50*time.Millisecond)
	go hc.Start(ctx, 10*time.Millisecond)
	waitFor(t, hc.IsHealthy)

	g.fail.Store(true)
	waitFor(t, func() bool { return !hc.IsHealthy() })
}

func TestProviderHealthChecker_NoPingerIsHealthy(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen := GeneratorFunc(func(context.Context, string, string) (string, error) {
		t.Fatalf("health check must not call Generate")
		return "", nil
	})
	hc := NewProviderHealthChecker(gen, zerolog.Nop(), 0)
	go hc.Start(ctx, time.Hour)
	waitFor(t, hc.IsHealthy)
}

func waitFor(t *testing.T, pred func() bool) {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		if pred() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before timeout")
}
