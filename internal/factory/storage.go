package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryan-kosiba/nutriclaude/internal/config"
	"github.com/ryan-kosiba/nutriclaude/internal/store/postgres"
	"github.com/ryan-kosiba/nutriclaude/internal/store/sqlite"
	"github.com/ryan-kosiba/nutriclaude/internal/store/sqlstore"
)

const bootstrapTimeout = 30 * time.Second

// NewStore opens the store selected by cfg.DBDriver and applies the schema.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*sqlstore.Store, error) {
	bctx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
	defer cancel()

	switch cfg.DBDriver {
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("NUTRICLAUDE_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}
		st, err := postgres.Bootstrap(bctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres bootstrap: %w", err)
		}
		log.Debug().Str("driver", cfg.DBDriver).Msg("store bootstrap completed")
		return st, nil
	case "sqlite":
		st, err := sqlite.Bootstrap(bctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite bootstrap %s: %w", cfg.SQLitePath, err)
		}
		log.Debug().Str("driver", cfg.DBDriver).Str("path", cfg.SQLitePath).Msg("store bootstrap completed")
		return st, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
