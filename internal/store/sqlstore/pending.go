package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

type pending struct{ s *Store }

func (p *pending) Create(ctx context.Context, pl *model.PendingLog) (*model.PendingLog, error) {
	if pl == nil || pl.Entry == nil {
		return nil, fmt.Errorf("pending log has no entry: %w", model.ErrValidation)
	}
	payload, err := model.Encode(pl.Entry)
	if err != nil {
		return nil, fmt.Errorf("encode pending payload: %w", err)
	}
	out := *pl
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	out.CreatedAt = p.s.now().UTC()

	_, err = p.s.db.ExecContext(ctx, p.s.d.rebind(`
        INSERT INTO pending_logs (id, user_id, channel_ref, type, payload, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `), out.ID, out.UserID, out.ChannelRef, string(out.Entry.Kind()), string(payload), p.s.d.time(out.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("insert pending log: %w", err)
	}
	return &out, nil
}

func (p *pending) Get(ctx context.Context, id string) (*model.PendingLog, error) {
	var out model.PendingLog
	var kind string
	var payload []byte
	row := p.s.db.QueryRowContext(ctx, p.s.d.rebind(`
        SELECT id, user_id, channel_ref, type, payload, created_at
        FROM pending_logs WHERE id = ?
    `), id)
	if err := row.Scan(&out.ID, &out.UserID, &out.ChannelRef, &kind, &payload, timeValue{&out.CreatedAt}); err != nil {
		return nil, notFound(err)
	}
	e, err := model.Decode(model.Kind(kind), payload)
	if err != nil {
		return nil, err
	}
	out.Entry = e
	return &out, nil
}

func (p *pending) Delete(ctx context.Context, id string) error {
	res, err := p.s.db.ExecContext(ctx, p.s.d.rebind(`DELETE FROM pending_logs WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete pending log: %w", err)
	}
	return affected(res)
}

func (p *pending) Commit(ctx context.Context, pendingID string, r *model.Record) (*model.Record, error) {
	if r == nil || r.Entry == nil {
		return nil, fmt.Errorf("record has no entry: %w", model.ErrValidation)
	}
	rec := *r
	rec.ID = pendingID

	tx, err := p.s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin commit: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, p.s.d.rebind(`DELETE FROM pending_logs WHERE id = ?`), pendingID)
	if err != nil {
		return nil, fmt.Errorf("delete pending log: %w", err)
	}
	if err := affected(res); err != nil {
		return nil, err
	}
	out, err := p.s.insertRecord(ctx, tx, &rec, true)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit confirm: %w", err)
	}
	return out, nil
}
