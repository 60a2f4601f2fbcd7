package store

import (
	"context"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
type Store interface {
	Logs() Logs
	Pending() Pending
	Summaries() Summaries
	Goals() Goals
}

// Logs holds permanent rows, one table per persistent kind.
// Lookups that match no row return model.ErrNotFound.
type Logs interface {
	Insert(ctx context.Context, r *model.Record) (*model.Record, error)
	List(ctx context.Context, req model.ListLogsRequest) ([]*model.Record, error)
	Get(ctx context.Context, kind model.Kind, userID, id string) (*model.Record, error)
	Update(ctx context.Context, r *model.Record) (*model.Record, error)
	Delete(ctx context.Context, kind model.Kind, userID, id string) error
}

// Pending holds staged entries awaiting confirmation.
type Pending interface {
	Create(ctx context.Context, p *model.PendingLog) (*model.PendingLog, error)
	Get(ctx context.Context, id string) (*model.PendingLog, error)
	Delete(ctx context.Context, id string) error
	// Commit removes the staged row and inserts r in one transaction. r.ID is the
	// pending id. Returns model.ErrNotFound, with no insert, when nothing was staged under it.
	Commit(ctx context.Context, pendingID string, r *model.Record) (*model.Record, error)
}

// Summaries caches narrative summaries keyed by (user, date).
type Summaries interface {
	Get(ctx context.Context, userID, date string) (*model.WorkoutSummary, error)
	Upsert(ctx context.Context, s *model.WorkoutSummary) (*model.WorkoutSummary, error)
}

type Goals interface {
	Get(ctx context.Context, userID string) (*model.Goals, error)
	Upsert(ctx context.Context, g *model.Goals) (*model.Goals, error)
}
