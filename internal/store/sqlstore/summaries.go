package sqlstore

import (
	"context"
	"fmt"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

type summaries struct{ s *Store }

func (m *summaries) Get(ctx context.Context, userID, date string) (*model.WorkoutSummary, error) {
	out := model.WorkoutSummary{UserID: userID, Date: date}
	row := m.s.db.QueryRowContext(ctx, m.s.d.rebind(`
        SELECT workout_count, summary, updated_at
        FROM workout_summaries WHERE user_id = ? AND date = ?
    `), userID, date)
	if err := row.Scan(&out.WorkoutCount, &out.Summary, timeValue{&out.UpdatedAt}); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (m *summaries) Upsert(ctx context.Context, ws *model.WorkoutSummary) (*model.WorkoutSummary, error) {
	out := *ws
	out.UpdatedAt = m.s.now().UTC()
	_, err := m.s.db.ExecContext(ctx, m.s.d.rebind(`
        INSERT INTO workout_summaries (user_id, date, workout_count, summary, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT (user_id, date) DO UPDATE SET
            workout_count = excluded.workout_count,
            summary = excluded.summary,
            updated_at = excluded.updated_at
    `), out.UserID, out.Date, out.WorkoutCount, out.Summary, m.s.d.time(out.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("upsert workout summary: %w", err)
	}
	return &out, nil
}
