package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestProbeChecker_TracksFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fail atomic.Bool
	c := NewProbeChecker("db", func(context.Context) error {
		if fail.Load() {
			return errors.New("down")
		}
		return nil
	}, zerolog.Nop(), 0)

	if c.IsHealthy() {
		t.Fatalf("checker must start unhealthy")
	}
	go c.Start(ctx, 5*time.Millisecond)
	waitTrue(t, c.IsHealthy)

	fail.Store(true)
	waitTrue(t, func() bool { return !c.IsHealthy() && c.ConsecutiveFailures() >= 2 })

	fail.Store(false)
	waitTrue(t, func() bool { return c.IsHealthy() && c.ConsecutiveFailures() == 0 })
}

func TestProbeChecker_AppliesTimeout(t *testing.T) {
	c := NewProbeChecker("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, zerolog.Nop(), 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		c.check(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("probe was not bounded by its timeout")
	}
	if c.IsHealthy() || c.ConsecutiveFailures() != 1 {
		t.Fatalf("want one failure, got healthy=%v failures=%d", c.IsHealthy(), c.ConsecutiveFailures())
	}
}
