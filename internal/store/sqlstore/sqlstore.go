// Package sqlstore implements store.Store on database/sql for Postgres and SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
	"github.com/ryan-kosiba/nutriclaude/internal/store"
)

// Store is a store.Store over a single *sql.DB handle.
type Store struct {
	db  *sql.DB
	d   Dialect
	now func() time.Time
}

// New wraps db. The handle is shared by every sub-store and owned by the caller.
func New(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, d: d, now: time.Now}
}

func (s *Store) Logs() store.Logs           { return &logs{s} }
func (s *Store) Pending() store.Pending     { return &pending{s} }
func (s *Store) Summaries() store.Summaries { return &summaries{s} }
func (s *Store) Goals() store.Goals         { return &goals{s} }

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// HealthPing implements health.HealthPinger.
func (s *Store) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error { return s.db.Close() }

type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}
