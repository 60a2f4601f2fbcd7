package services

import (
	"context"
	"errors"
	"math"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
	"github.com/ryan-kosiba/nutriclaude/internal/store"
)

// GoalsView is the user-facing shape of goals, with height split into feet and inches.
type GoalsView struct {
	CurrentWeightLbs *float64 `json:"current_weight_lbs"`
	HeightFeet       *int     `json:"height_feet"`
	HeightInches     *float64 `json:"height_inches"`
	TargetWeightLbs  *float64 `json:"target_weight_lbs"`
	DailyCalories    *int     `json:"daily_calories"`
	DailyProteinG    *int     `json:"daily_protein_g"`
	MaxCarbsG        *int     `json:"max_carbs_g"`
	MaxFatG          *int     `json:"max_fat_g"`
}

type GoalsService struct {
	store store.Store
}

func NewGoalsService(s store.Store) *GoalsService {
	return &GoalsService{store: s}
}

// Get returns the user's goals, or an empty view when none were saved.
func (s *GoalsService) Get(ctx context.Context, userID string) (*GoalsView, error) {
	g, err := s.store.Goals().Get(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return &GoalsView{}, nil
	}
	if err != nil {
		return nil, err
	}
	v := &GoalsView{
		CurrentWeightLbs: g.CurrentWeightLbs,
		TargetWeightLbs:  g.TargetWeightLbs,
		DailyCalories:    g.DailyCalories,
		DailyProteinG:    g.DailyProteinG,
		MaxCarbsG:        g.MaxCarbsG,
		MaxFatG:          g.MaxFatG,
	}
	if g.HeightInches != nil && *g.HeightInches != 0 {
		total := *g.HeightInches
		feet := int(math.Floor(total / 12))
		inches := math.Round(math.Mod(total, 12)*10) / 10
		v.HeightFeet = &feet
		v.HeightInches = &inches
	}
	return v, nil
}

// Put replaces the user's goals. Height is stored as total inches.
func (s *GoalsService) Put(ctx context.Context, userID string, v GoalsView) (*GoalsView, error) {
	g := &model.Goals{
		UserID:           userID,
		CurrentWeightLbs: v.CurrentWeightLbs,
		TargetWeightLbs:  v.TargetWeightLbs,
		DailyCalories:    v.DailyCalories,
		DailyProteinG:    v.DailyProteinG,
		MaxCarbsG:        v.MaxCarbsG,
		MaxFatG:          v.MaxFatG,
	}
	if v.HeightFeet != nil || v.HeightInches != nil {
		var total float64
		if v.HeightFeet != nil {
			total += float64(*v.HeightFeet) * 12
		}
		if v.HeightInches != nil {
			total += *v.HeightInches
		}
		g.HeightInches = &total
	}
	if _, err := s.store.Goals().Upsert(ctx, g); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}
