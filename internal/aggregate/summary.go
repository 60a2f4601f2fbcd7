package aggregate

import (
	"context"
	"errors"
	"fmt"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

// Summary returns the narrative for one day's workouts and exercises. The cached text is
// reused while the number of contributing rows is unchanged; otherwise it is regenerated
// and the cache overwritten. A day with no rows gets an empty summary without a model call.
func (e *Engine) Summary(ctx context.Context, userID, date string) (*model.WorkoutSummary, error) {
	start, err := ParseDate(date, e.loc)
	if err != nil {
		return nil, err
	}
	workouts, err := e.onDay(ctx, model.KindWorkout, userID, start)
	if err != nil {
		return nil, err
	}
	exercises, err := e.onDay(ctx, model.KindExercise, userID, start)
	if err != nil {
		return nil, err
	}
	rows := append(workouts, exercises...)
	count := len(rows)

	cached, err := e.store.Summaries().Get(ctx, userID, date)
	switch {
	case err == nil && cached.WorkoutCount == count:
		return cached, nil
	case err != nil && !errors.Is(err, model.ErrNotFound):
		return nil, err
	}

	if count == 0 {
		return &model.WorkoutSummary{UserID: userID, Date: date}, nil
	}
	if e.summarizer == nil {
		return nil, fmt.Errorf("no summarizer configured")
	}

	text, err := e.summarizer.Summarize(ctx, date, rows)
	if err != nil {
		return nil, err
	}
	saved, err := e.store.Summaries().Upsert(ctx, &model.WorkoutSummary{
		UserID:       userID,
		Date:         date,
		WorkoutCount: count,
		Summary:      text,
	})
	if err != nil {
		return nil, fmt.Errorf("cache summary: %w", err)
	}
	e.log.Debug().Str("user_id", userID).Str("date", date).Int("rows", count).Msg("summary regenerated")
	return saved, nil
}
