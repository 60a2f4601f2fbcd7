package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestGoals_HeightStoredAsTotalInches(t *testing.T) {
	fs := newFakeStore()
	svc := NewGoalsService(fs)

	view, err := svc.Put(context.Background(), "u1", GoalsView{HeightFeet: intPtr(5), HeightInches: f64(10.5), DailyCalories: intPtr(2200)})
	require.NoError(t, err)
	require.NotNil(t, fs.goals["u1"].HeightInches)
	assert.Equal(t, 70.5, *fs.goals["u1"].HeightInches)

	require.NotNil(t, view.HeightFeet)
	assert.Equal(t, 5, *view.HeightFeet)
	assert.Equal(t, 10.5, *view.HeightInches)
	assert.Equal(t, 2200, *view.DailyCalories)
}

func TestGoals_EmptyWhenUnset(t *testing.T) {
	svc := NewGoalsService(newFakeStore())
	view, err := svc.Get(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, &GoalsView{}, view)
}

func TestGoals_NoHeightLeavesHeightUnset(t *testing.T) {
	fs := newFakeStore()
	svc := NewGoalsService(fs)
	_, err := svc.Put(context.Background(), "u1", GoalsView{TargetWeightLbs: f64(170)})
	require.NoError(t, err)
	assert.Nil(t, fs.goals["u1"].HeightInches)
}
