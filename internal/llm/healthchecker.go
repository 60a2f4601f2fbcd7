package llm

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryan-kosiba/nutriclaude/internal/health"
)

// NewProviderHealthChecker monitors a language-model provider through its HealthPing.
// Providers without one are reported healthy; probing them would spend tokens.
func NewProviderHealthChecker(g Generator, log zerolog.Logger, probeTimeout time.Duration) *health.ProbeChecker {
	probe := func(context.Context) error { return nil }
	if p, ok := g.(health.HealthPinger); ok {
		probe = p.HealthPing
	}
	return health.NewProbeChecker("llm", probe, log, probeTimeout)
}
