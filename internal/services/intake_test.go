package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryan-kosiba/nutriclaude/internal/extract"
	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

type fakeExtractor struct {
	res   *extract.Result
	err   error
	calls int
	ref   time.Time
}

func (f *fakeExtractor) Extract(_ context.Context, _ string, ref time.Time) (*extract.Result, error) {
	f.calls++
	f.ref = ref
	return f.res, f.err
}

func intPtr(v int) *int { return &v }

func TestIngest_StagesEachLoggableEntry(t *testing.T) {
	ts := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ext := &fakeExtractor{res: &extract.Result{Entries: []model.Entry{
		&model.Meal{Timestamp: ts, Description: "oatmeal", Calories: 300, ProteinG: 10, CarbsG: 54, FatG: 5},
		&model.Unknown{Timestamp: ts},
		&model.Workout{Timestamp: ts, Description: "legs", EstimatedCaloriesBurned: 450, IntensityScore: intPtr(7)},
	}}}
	fs := newFakeStore()
	svc := NewIntakeService(ext, NewStagingService(fs, zerolog.Nop()), "", zerolog.Nop())
	svc.now = func() time.Time { return ts }

	staged, err := svc.Ingest(context.Background(), "u1", "chat-9", "had oatmeal, did legs")
	require.NoError(t, err)
	require.Len(t, staged, 2)
	assert.Equal(t, ts, ext.ref)
	assert.Len(t, fs.pending, 2)

	assert.Equal(t, model.KindMeal, staged[0].Pending.Kind())
	assert.Equal(t, "chat-9", staged[0].Pending.ChannelRef)
	assert.Contains(t, staged[0].Text, "Calories: 300")
	assert.Contains(t, staged[1].Text, "Intensity: 7/10")
}

func TestIngest_StagingFailureDiscardsEarlierEntries(t *testing.T) {
	ts := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	ext := &fakeExtractor{res: &extract.Result{Entries: []model.Entry{
		&model.Meal{Timestamp: ts, Description: "oatmeal", Calories: 300, ProteinG: 10, CarbsG: 54, FatG: 5},
		&model.Bodyweight{Timestamp: ts, WeightLbs: 181},
		&model.Workout{Timestamp: ts, Description: "legs", EstimatedCaloriesBurned: 450},
	}}}
	fs := newFakeStore()
	fs.failCreateAt = 3
	svc := NewIntakeService(ext, NewStagingService(fs, zerolog.Nop()), "", zerolog.Nop())

	staged, err := svc.Ingest(context.Background(), "u1", "chat-9", "oatmeal, weighed 181, legs")
	require.Error(t, err)
	assert.Nil(t, staged)
	assert.Empty(t, fs.pending, "entries staged before the failure must be discarded")
}

func TestIngest_OnlyUnknownIsNothingToLog(t *testing.T) {
	ext := &fakeExtractor{res: &extract.Result{Entries: []model.Entry{&model.Unknown{Timestamp: time.Now()}}}}
	fs := newFakeStore()
	svc := NewIntakeService(ext, NewStagingService(fs, zerolog.Nop()), "", zerolog.Nop())

	_, err := svc.Ingest(context.Background(), "u1", "c", "hello there")
	assert.ErrorIs(t, err, ErrNothingToLog)
	assert.Empty(t, fs.pending)
}

func TestIngest_AllowedUserRestriction(t *testing.T) {
	ext := &fakeExtractor{}
	svc := NewIntakeService(ext, NewStagingService(newFakeStore(), zerolog.Nop()), "owner", zerolog.Nop())

	_, err := svc.Ingest(context.Background(), "someone-else", "c", "ate a pizza")
	assert.ErrorIs(t, err, ErrUserNotAllowed)
	assert.Zero(t, ext.calls)
}

func TestIngest_PropagatesExtractionFailure(t *testing.T) {
	ext := &fakeExtractor{err: extract.ProviderError{Err: errors.New("timeout")}}
	svc := NewIntakeService(ext, NewStagingService(newFakeStore(), zerolog.Nop()), "", zerolog.Nop())

	_, err := svc.Ingest(context.Background(), "u1", "c", "ate a pizza")
	assert.True(t, extract.IsProviderError(err))
}

func TestConfirmationText(t *testing.T) {
	ts := time.Now()
	notes := "slow eccentric"
	symptom := "headache"
	cases := []struct {
		e    model.Entry
		want string
	}{
		{&model.Exercise{Timestamp: ts, ExerciseName: "bench press", Sets: 3, Reps: 8, WeightLbs: 185, Notes: &notes}, "3x8 @ 185 lbs\nNotes: slow eccentric"},
		{&model.Bodyweight{Timestamp: ts, WeightLbs: 182.4}, "182.4 lbs"},
		{&model.Wellness{Timestamp: ts, SymptomScore: 6, Symptom: &symptom}, "headache: 6/10"},
		{&model.Wellness{Timestamp: ts, SymptomScore: 2}, "Symptom score: 2/10"},
		{&model.WorkoutQuality{Timestamp: ts, PerformanceScore: 9}, "Performance: 9/10"},
		{&model.Workout{Timestamp: ts, Description: "walk", EstimatedCaloriesBurned: 80}, "Calories burned: 80"},
		{&model.Unknown{Timestamp: ts}, "Could not understand"},
	}
	for _, tc := range cases {
		got := ConfirmationText(tc.e)
		if !strings.Contains(got, tc.want) {
			t.Fatalf("%s: %q does not contain %q", tc.e.Kind(), got, tc.want)
		}
	}
	if strings.Contains(ConfirmationText(cases[5].e), "Intensity") {
		t.Fatalf("absent intensity must not be rendered")
	}
}
