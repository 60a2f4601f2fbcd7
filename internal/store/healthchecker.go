package store

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryan-kosiba/nutriclaude/internal/health"
	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

// NewStoreHealthChecker probes st with HealthPing when available, otherwise with a
// pending-log read that is expected to miss.
func NewStoreHealthChecker(st Store, log zerolog.Logger, probeTimeout time.Duration) *health.ProbeChecker {
	return health.NewProbeChecker("store", storeProbe(st), log, probeTimeout)
}

func storeProbe(st Store) health.Probe {
	if p, ok := st.(health.HealthPinger); ok {
		return p.HealthPing
	}
	return func(ctx context.Context) error {
		_, err := st.Pending().Get(ctx, "__health_check__")
		if err != nil && !errors.Is(err, model.ErrNotFound) {
			return err
		}
		return nil
	}
}
