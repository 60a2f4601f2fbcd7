package aggregate

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

// HistoryAll selects every kind in LogHistory.
const HistoryAll = "all"

// HistoryItem is a log row projected onto the shape shared by every kind.
// Macro fields are only set for meals.
type HistoryItem struct {
	ID          string     `json:"id"`
	Timestamp   time.Time  `json:"timestamp"`
	Type        model.Kind `json:"type"`
	Description string     `json:"description"`
	Value       string     `json:"value"`
	Protein     *int       `json:"protein"`
	Carbs       *int       `json:"carbs"`
	Fat         *int       `json:"fat"`
}

// historyKind maps a filter to a kind. "weight" is accepted for bodyweight.
func historyKind(filter string) (model.Kind, bool) {
	if filter == "weight" {
		return model.KindBodyweight, true
	}
	k, ok := model.ParseKind(filter)
	if !ok || !k.Persistent() {
		return "", false
	}
	return k, true
}

// LogHistory merges rows of every kind, or only the kind named by filter, newest first.
// An unrecognised filter yields an empty history.
func (e *Engine) LogHistory(ctx context.Context, userID string, days int, filter string) ([]HistoryItem, error) {
	var kinds []model.Kind
	if filter == "" || filter == HistoryAll {
		kinds = model.PersistentKinds
	} else if k, ok := historyKind(filter); ok {
		kinds = []model.Kind{k}
	}

	out := []HistoryItem{}
	for _, k := range kinds {
		rows, err := e.since(ctx, k, userID, days)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, project(r, e.loc))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func project(r *model.Record, loc *time.Location) HistoryItem {
	item := HistoryItem{ID: r.ID, Timestamp: r.Entry.When().In(loc), Type: r.Kind()}
	switch x := r.Entry.(type) {
	case *model.Meal:
		item.Description = x.Description
		item.Value = fmt.Sprintf("%d kcal", x.Calories)
		p, c, f := x.ProteinG, x.CarbsG, x.FatG
		item.Protein, item.Carbs, item.Fat = &p, &c, &f
	case *model.Workout:
		item.Description = x.Description
		item.Value = fmt.Sprintf("%d kcal burned", x.EstimatedCaloriesBurned)
	case *model.Exercise:
		item.Description = x.ExerciseName
		item.Value = fmt.Sprintf("%dx%d @ %s lbs", x.Sets, x.Reps, number(x.WeightLbs))
	case *model.Bodyweight:
		item.Description = "Weigh-In"
		item.Value = number(x.WeightLbs) + " lbs"
	case *model.Wellness:
		item.Description = "Symptom Score"
		if x.Symptom != nil && *x.Symptom != "" {
			item.Description = *x.Symptom
		}
		item.Value = fmt.Sprintf("%d/10", x.SymptomScore)
	case *model.WorkoutQuality:
		item.Description = "Workout Quality"
		item.Value = fmt.Sprintf("%d/10", x.PerformanceScore)
	}
	return item
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Exercises lists exercise rows in the window, newest first.
func (e *Engine) Exercises(ctx context.Context, userID string, days int) ([]*model.Record, error) {
	rows, err := e.store.Logs().List(ctx, model.ListLogsRequest{
		Kind:   model.KindExercise,
		UserID: userID,
		From:   windowStart(e.now(), days, e.loc),
		Desc:   true,
	})
	if err != nil {
		return nil, err
	}
	return nonNil(rows), nil
}

// ExerciseNames returns every distinct exercise name the user has logged, sorted.
func (e *Engine) ExerciseNames(ctx context.Context, userID string) ([]string, error) {
	rows, err := e.store.Logs().List(ctx, model.ListLogsRequest{Kind: model.KindExercise, UserID: userID})
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, r := range rows {
		seen[r.Entry.(*model.Exercise).ExerciseName] = struct{}{}
	}
	return sortedKeys(seen), nil
}

// ExerciseHistory lists one exercise's rows in the window, oldest first.
func (e *Engine) ExerciseHistory(ctx context.Context, userID, name string, days int) ([]*model.Record, error) {
	if name == "" {
		return nil, fmt.Errorf("exercise name is required: %w", model.ErrValidation)
	}
	rows, err := e.store.Logs().List(ctx, model.ListLogsRequest{
		Kind:         model.KindExercise,
		UserID:       userID,
		From:         windowStart(e.now(), days, e.loc),
		ExerciseName: name,
	})
	if err != nil {
		return nil, err
	}
	return nonNil(rows), nil
}

// ExercisePRs keeps the heaviest row per exercise name over all time, sorted by name.
// On equal weights the earliest logged row is kept.
func (e *Engine) ExercisePRs(ctx context.Context, userID string) ([]*model.Record, error) {
	rows, err := e.store.Logs().List(ctx, model.ListLogsRequest{Kind: model.KindExercise, UserID: userID})
	if err != nil {
		return nil, err
	}
	best := map[string]*model.Record{}
	for _, r := range rows {
		x := r.Entry.(*model.Exercise)
		cur, ok := best[x.ExerciseName]
		if !ok || x.WeightLbs > cur.Entry.(*model.Exercise).WeightLbs {
			best[x.ExerciseName] = r
		}
	}
	out := make([]*model.Record, 0, len(best))
	for _, name := range sortedKeys(best) {
		out = append(out, best[name])
	}
	return out, nil
}

func nonNil(rows []*model.Record) []*model.Record {
	if rows == nil {
		return []*model.Record{}
	}
	return rows
}
