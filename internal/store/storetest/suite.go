package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
	"github.com/ryan-kosiba/nutriclaude/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// makeStore must return a clean, isolated store with its schema applied.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("LogsRoundTripEveryKind", func(t *testing.T) { logsRoundTrip(t, makeStore(t)) })
	t.Run("LogsListFilters", func(t *testing.T) { logsListFilters(t, makeStore(t)) })
	t.Run("LogsUpdateDelete", func(t *testing.T) { logsUpdateDelete(t, makeStore(t)) })
	t.Run("PendingLifecycle", func(t *testing.T) { pendingLifecycle(t, makeStore(t)) })
	t.Run("PendingCommit", func(t *testing.T) { pendingCommit(t, makeStore(t)) })
	t.Run("Summaries", func(t *testing.T) { summaries(t, makeStore(t)) })
	t.Run("Goals", func(t *testing.T) { goals(t, makeStore(t)) })
}

func newUser() string { return "u-" + uuid.New().String() }

var base = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func intp(v int) *int         { return &v }
func strp(v string) *string   { return &v }
func f64p(v float64) *float64 { return &v }

func sampleEntries(ts time.Time) []model.Entry {
	return []model.Entry{
		&model.Meal{Timestamp: ts, Description: "chicken bowl", Calories: 650, ProteinG: 45, CarbsG: 70, FatG: 18},
		&model.Workout{Timestamp: ts, Description: "run", EstimatedCaloriesBurned: 300, IntensityScore: intp(6)},
		&model.Workout{Timestamp: ts, Description: "walk", EstimatedCaloriesBurned: 90},
		&model.Exercise{Timestamp: ts, ExerciseName: "bench press", Sets: 3, Reps: 8, WeightLbs: 185.5, Notes: strp("paused")},
		&model.Exercise{Timestamp: ts, ExerciseName: "pull up", Sets: 4, Reps: 10, WeightLbs: 0},
		&model.Bodyweight{Timestamp: ts, WeightLbs: 181.2},
		&model.Wellness{Timestamp: ts, SymptomScore: 4, Symptom: strp("fatigue")},
		&model.Wellness{Timestamp: ts, SymptomScore: 2},
		&model.WorkoutQuality{Timestamp: ts, PerformanceScore: 8},
	}
}

func logsRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := newUser()

	for _, e := range sampleEntries(base) {
		created, err := s.Logs().Insert(ctx, &model.Record{UserID: user, Entry: e})
		if err != nil {
			t.Fatalf("Insert %s: %v", e.Kind(), err)
		}
		if created.ID == "" {
			t.Fatalf("Insert %s: empty id", e.Kind())
		}
		got, err := s.Logs().Get(ctx, e.Kind(), user, created.ID)
		if err != nil {
			t.Fatalf("Get %s: %v", e.Kind(), err)
		}
		if got.UserID != user || got.ID != created.ID {
			t.Fatalf("Get %s: identity mismatch %+v", e.Kind(), got)
		}
		if !sameEntry(e, got.Entry) {
			t.Fatalf("Get %s: got %+v want %+v", e.Kind(), got.Entry, e)
		}
	}

	if _, err := s.Logs().Get(ctx, model.KindMeal, user, "missing"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get missing: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Logs().Insert(ctx, &model.Record{UserID: user, Entry: &model.Unknown{Timestamp: base}}); err == nil {
		t.Fatalf("Insert unknown: expected error")
	}
}

func logsListFilters(t *testing.T, s store.Store) {
	ctx := context.Background()
	user, other := newUser(), newUser()

	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i) * 24 * time.Hour)
		if _, err := s.Logs().Insert(ctx, &model.Record{UserID: user, Entry: &model.Meal{Timestamp: ts, Description: "meal", Calories: 100 * (i + 1)}}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	if _, err := s.Logs().Insert(ctx, &model.Record{UserID: other, Entry: &model.Meal{Timestamp: base, Description: "other", Calories: 999}}); err != nil {
		t.Fatalf("Insert other: %v", err)
	}

	all, err := s.Logs().List(ctx, model.ListLogsRequest{Kind: model.KindMeal, UserID: user})
	if err != nil || len(all) != 5 {
		t.Fatalf("List all: n=%d err=%v", len(all), err)
	}
	for i := 1; i < len(all); i++ {
		if all[i].Entry.When().Before(all[i-1].Entry.When()) {
			t.Fatalf("List all: not ascending")
		}
	}

	ranged, err := s.Logs().List(ctx, model.ListLogsRequest{
		Kind: model.KindMeal, UserID: user,
		From: base.Add(24 * time.Hour), To: base.Add(3 * 24 * time.Hour),
		Desc: true,
	})
	if err != nil || len(ranged) != 3 {
		t.Fatalf("List ranged: n=%d err=%v", len(ranged), err)
	}
	if ranged[0].Entry.(*model.Meal).Calories != 400 || ranged[2].Entry.(*model.Meal).Calories != 200 {
		t.Fatalf("List ranged: unexpected order %v", ranged)
	}

	limited, err := s.Logs().List(ctx, model.ListLogsRequest{Kind: model.KindMeal, UserID: user, Desc: true, Limit: 1})
	if err != nil || len(limited) != 1 || limited[0].Entry.(*model.Meal).Calories != 500 {
		t.Fatalf("List limit: %v err=%v", limited, err)
	}

	for _, name := range []string{"squat", "bench", "squat"} {
		if _, err := s.Logs().Insert(ctx, &model.Record{UserID: user, Entry: &model.Exercise{Timestamp: base, ExerciseName: name, Sets: 1, Reps: 1, WeightLbs: 100}}); err != nil {
			t.Fatalf("Insert exercise: %v", err)
		}
	}
	squats, err := s.Logs().List(ctx, model.ListLogsRequest{Kind: model.KindExercise, UserID: user, ExerciseName: "squat"})
	if err != nil || len(squats) != 2 {
		t.Fatalf("List by exercise name: n=%d err=%v", len(squats), err)
	}

	empty, err := s.Logs().List(ctx, model.ListLogsRequest{Kind: model.KindBodyweight, UserID: user})
	if err != nil || len(empty) != 0 {
		t.Fatalf("List empty table: n=%d err=%v", len(empty), err)
	}
}

func logsUpdateDelete(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := newUser()

	created, err := s.Logs().Insert(ctx, &model.Record{UserID: user, Entry: &model.Bodyweight{Timestamp: base, WeightLbs: 180}})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	upd, err := s.Logs().Update(ctx, &model.Record{ID: created.ID, UserID: user, Entry: &model.Bodyweight{Timestamp: base.Add(time.Hour), WeightLbs: 179.4}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	bw := upd.Entry.(*model.Bodyweight)
	if bw.WeightLbs != 179.4 || !bw.Timestamp.Equal(base.Add(time.Hour)) {
		t.Fatalf("Update: got %+v", bw)
	}

	// another user cannot touch the row
	if _, err := s.Logs().Update(ctx, &model.Record{ID: created.ID, UserID: newUser(), Entry: bw}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Update foreign: expected ErrNotFound, got %v", err)
	}
	if err := s.Logs().Delete(ctx, model.KindBodyweight, newUser(), created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Delete foreign: expected ErrNotFound, got %v", err)
	}

	if err := s.Logs().Delete(ctx, model.KindBodyweight, user, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Logs().Delete(ctx, model.KindBodyweight, user, created.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Delete twice: expected ErrNotFound, got %v", err)
	}
}

func pendingLifecycle(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := newUser()

	p, err := s.Pending().Create(ctx, &model.PendingLog{UserID: user, ChannelRef: "chat-42", Entry: &model.Workout{Timestamp: base, Description: "spin", EstimatedCaloriesBurned: 350, IntensityScore: intp(7)}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID == "" || p.CreatedAt.IsZero() {
		t.Fatalf("Create: missing id or created_at: %+v", p)
	}

	got, err := s.Pending().Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != user || got.ChannelRef != "chat-42" || got.Kind() != model.KindWorkout {
		t.Fatalf("Get: got %+v", got)
	}
	if !sameEntry(p.Entry, got.Entry) {
		t.Fatalf("Get: payload mismatch %+v", got.Entry)
	}

	if err := s.Pending().Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Pending().Get(ctx, p.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get after delete: expected ErrNotFound, got %v", err)
	}
	if err := s.Pending().Delete(ctx, p.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Delete twice: expected ErrNotFound, got %v", err)
	}
}

func pendingCommit(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := newUser()
	meal := &model.Meal{Timestamp: base, Description: "salmon", Calories: 500, ProteinG: 40, CarbsG: 10, FatG: 25}

	p, err := s.Pending().Create(ctx, &model.PendingLog{UserID: user, ChannelRef: "c", Entry: meal})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec, err := s.Pending().Commit(ctx, p.ID, &model.Record{UserID: user, Entry: p.Entry})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if rec.ID != p.ID {
		t.Fatalf("Commit: permanent id %s should reuse pending id %s", rec.ID, p.ID)
	}
	if _, err := s.Pending().Get(ctx, p.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("pending row should be gone, got %v", err)
	}

	if _, err := s.Pending().Commit(ctx, p.ID, &model.Record{UserID: user, Entry: p.Entry}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Commit twice: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Pending().Commit(ctx, "never-staged", &model.Record{UserID: user, Entry: meal}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Commit unknown: expected ErrNotFound, got %v", err)
	}

	rows, err := s.Logs().List(ctx, model.ListLogsRequest{Kind: model.KindMeal, UserID: user})
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected exactly one permanent row, n=%d err=%v", len(rows), err)
	}
	if !sameEntry(meal, rows[0].Entry) {
		t.Fatalf("permanent row mismatch: %+v", rows[0].Entry)
	}
}

func summaries(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := newUser()

	if _, err := s.Summaries().Get(ctx, user, "2025-03-10"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get missing: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Summaries().Upsert(ctx, &model.WorkoutSummary{UserID: user, Date: "2025-03-10", WorkoutCount: 2, Summary: "first"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := s.Summaries().Upsert(ctx, &model.WorkoutSummary{UserID: user, Date: "2025-03-10", WorkoutCount: 3, Summary: "second"}); err != nil {
		t.Fatalf("Upsert overwrite: %v", err)
	}
	got, err := s.Summaries().Get(ctx, user, "2025-03-10")
	if err != nil || got.WorkoutCount != 3 || got.Summary != "second" {
		t.Fatalf("Get: got=%+v err=%v", got, err)
	}
}

func goals(t *testing.T, s store.Store) {
	ctx := context.Background()
	user := newUser()

	if _, err := s.Goals().Get(ctx, user); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Get missing: expected ErrNotFound, got %v", err)
	}
	in := &model.Goals{UserID: user, HeightInches: f64p(70.5), TargetWeightLbs: f64p(175), DailyCalories: intp(2400)}
	if _, err := s.Goals().Upsert(ctx, in); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := s.Goals().Get(ctx, user)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.HeightInches == nil || *got.HeightInches != 70.5 || got.DailyCalories == nil || *got.DailyCalories != 2400 || got.MaxFatG != nil {
		t.Fatalf("Get: got %+v", got)
	}

	in.DailyCalories = nil
	in.MaxFatG = intp(70)
	if _, err := s.Goals().Upsert(ctx, in); err != nil {
		t.Fatalf("Upsert overwrite: %v", err)
	}
	got, _ = s.Goals().Get(ctx, user)
	if got.DailyCalories != nil || got.MaxFatG == nil || *got.MaxFatG != 70 {
		t.Fatalf("Upsert overwrite: got %+v", got)
	}
}

// sameEntry compares entries field by field with instant equality for timestamps.
func sameEntry(a, b model.Entry) bool {
	if a.Kind() != b.Kind() || !a.When().Equal(b.When()) {
		return false
	}
	ab, err1 := model.Encode(withUTC(a))
	bb, err2 := model.Encode(withUTC(b))
	return err1 == nil && err2 == nil && string(ab) == string(bb)
}

func withUTC(e model.Entry) model.Entry {
	switch x := e.(type) {
	case *model.Meal:
		c := *x
		c.Timestamp = c.Timestamp.UTC()
		return &c
	case *model.Workout:
		c := *x
		c.Timestamp = c.Timestamp.UTC()
		return &c
	case *model.Exercise:
		c := *x
		c.Timestamp = c.Timestamp.UTC()
		return &c
	case *model.Bodyweight:
		c := *x
		c.Timestamp = c.Timestamp.UTC()
		return &c
	case *model.Wellness:
		c := *x
		c.Timestamp = c.Timestamp.UTC()
		return &c
	case *model.WorkoutQuality:
		c := *x
		c.Timestamp = c.Timestamp.UTC()
		return &c
	default:
		return e
	}
}
