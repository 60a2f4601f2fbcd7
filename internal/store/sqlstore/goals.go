package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

type goals struct{ s *Store }

func (g *goals) Get(ctx context.Context, userID string) (*model.Goals, error) {
	out := model.Goals{UserID: userID}
	var weight, height, target sql.NullFloat64
	var cals, protein, carbs, fat sql.NullInt64
	row := g.s.db.QueryRowContext(ctx, g.s.d.rebind(`
        SELECT current_weight_lbs, height_inches, target_weight_lbs,
               daily_calories, daily_protein_g, max_carbs_g, max_fat_g, updated_at
        FROM goals WHERE user_id = ?
    `), userID)
	if err := row.Scan(&weight, &height, &target, &cals, &protein, &carbs, &fat, timeValue{&out.UpdatedAt}); err != nil {
		return nil, notFound(err)
	}
	out.CurrentWeightLbs = floatPtr(weight)
	out.HeightInches = floatPtr(height)
	out.TargetWeightLbs = floatPtr(target)
	out.DailyCalories = intPtr(cals)
	out.DailyProteinG = intPtr(protein)
	out.MaxCarbsG = intPtr(carbs)
	out.MaxFatG = intPtr(fat)
	return &out, nil
}

func (g *goals) Upsert(ctx context.Context, in *model.Goals) (*model.Goals, error) {
	out := *in
	out.UpdatedAt = g.s.now().UTC()
	_, err := g.s.db.ExecContext(ctx, g.s.d.rebind(`
        INSERT INTO goals (user_id, current_weight_lbs, height_inches, target_weight_lbs,
                           daily_calories, daily_protein_g, max_carbs_g, max_fat_g, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (user_id) DO UPDATE SET
            current_weight_lbs = excluded.current_weight_lbs,
            height_inches = excluded.height_inches,
            target_weight_lbs = excluded.target_weight_lbs,
            daily_calories = excluded.daily_calories,
            daily_protein_g = excluded.daily_protein_g,
            max_carbs_g = excluded.max_carbs_g,
            max_fat_g = excluded.max_fat_g,
            updated_at = excluded.updated_at
    `), out.UserID, nullable(out.CurrentWeightLbs), nullable(out.HeightInches), nullable(out.TargetWeightLbs),
		nullable(out.DailyCalories), nullable(out.DailyProteinG), nullable(out.MaxCarbsG), nullable(out.MaxFatG),
		g.s.d.time(out.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("upsert goals: %w", err)
	}
	return &out, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
