package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const defaultProbeTimeout = 2 * time.Second

// Probe returns nil when a dependency answers.
type Probe func(ctx context.Context) error

// ProbeChecker runs a Probe on an interval and caches the result.
// It reports unhealthy until the first probe succeeds.
type ProbeChecker struct {
	name    string
	probe   Probe
	timeout time.Duration
	log     zerolog.Logger

	healthy  atomic.Bool
	failures atomic.Int64
}

func NewProbeChecker(name string, probe Probe, log zerolog.Logger, timeout time.Duration) *ProbeChecker {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &ProbeChecker{name: name, probe: probe, timeout: timeout, log: log}
}

func (c *ProbeChecker) Name() string    { return c.name }
func (c *ProbeChecker) IsHealthy() bool { return c.healthy.Load() }

// ConsecutiveFailures is reset by every successful probe.
func (c *ProbeChecker) ConsecutiveFailures() int64 { return c.failures.Load() }

func (c *ProbeChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.check(ctx)
		}
	}
}

func (c *ProbeChecker) check(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.probe(probeCtx); err != nil {
		n := c.failures.Add(1)
		c.healthy.Store(false)
		c.log.Error().Stack().
			Str("checker", c.name).
			Int64("consecutive_failures", n).
			Err(err).
			Msg("health probe failed")
		return
	}
	if c.failures.Swap(0) > 0 {
		c.log.Info().Str("checker", c.name).Msg("health probe recovered")
	}
	c.healthy.Store(true)
}
