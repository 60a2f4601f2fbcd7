package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

// table describes how one persistent kind maps onto its columns.
type table struct {
	columns []string
	// values returns the variant column values of e, in column order.
	values func(e model.Entry) []any
	// target returns a fresh entry, scan destinations for timestamp and the
	// variant columns, and a hook to run after Scan.
	target func() (model.Entry, []any, func())
}

func tableFor(kind model.Kind) (table, error) {
	switch kind {
	case model.KindMeal:
		return table{
			columns: []string{"description", "calories", "protein_g", "carbs_g", "fat_g"},
			values: func(e model.Entry) []any {
				m := e.(*model.Meal)
				return []any{m.Description, m.Calories, m.ProteinG, m.CarbsG, m.FatG}
			},
			target: func() (model.Entry, []any, func()) {
				m := &model.Meal{}
				return m, []any{timeValue{&m.Timestamp}, &m.Description, &m.Calories, &m.ProteinG, &m.CarbsG, &m.FatG}, nil
			},
		}, nil
	case model.KindWorkout:
		return table{
			columns: []string{"description", "estimated_calories_burned", "intensity_score"},
			values: func(e model.Entry) []any {
				w := e.(*model.Workout)
				return []any{w.Description, w.EstimatedCaloriesBurned, nullable(w.IntensityScore)}
			},
			target: func() (model.Entry, []any, func()) {
				w := &model.Workout{}
				var intensity sql.NullInt64
				return w, []any{timeValue{&w.Timestamp}, &w.Description, &w.EstimatedCaloriesBurned, &intensity}, func() {
					if intensity.Valid {
						v := int(intensity.Int64)
						w.IntensityScore = &v
					}
				}
			},
		}, nil
	case model.KindExercise:
		return table{
			columns: []string{"exercise_name", "sets", "reps", "weight_lbs", "notes"},
			values: func(e model.Entry) []any {
				x := e.(*model.Exercise)
				return []any{x.ExerciseName, x.Sets, x.Reps, x.WeightLbs, nullable(x.Notes)}
			},
			target: func() (model.Entry, []any, func()) {
				x := &model.Exercise{}
				var notes sql.NullString
				return x, []any{timeValue{&x.Timestamp}, &x.ExerciseName, &x.Sets, &x.Reps, &x.WeightLbs, &notes}, func() {
					if notes.Valid {
						v := notes.String
						x.Notes = &v
					}
				}
			},
		}, nil
	case model.KindBodyweight:
		return table{
			columns: []string{"weight_lbs"},
			values: func(e model.Entry) []any {
				return []any{e.(*model.Bodyweight).WeightLbs}
			},
			target: func() (model.Entry, []any, func()) {
				b := &model.Bodyweight{}
				return b, []any{timeValue{&b.Timestamp}, &b.WeightLbs}, nil
			},
		}, nil
	case model.KindWellness:
		return table{
			columns: []string{"symptom_score", "symptom"},
			values: func(e model.Entry) []any {
				w := e.(*model.Wellness)
				return []any{w.SymptomScore, nullable(w.Symptom)}
			},
			target: func() (model.Entry, []any, func()) {
				w := &model.Wellness{}
				var symptom sql.NullString
				return w, []any{timeValue{&w.Timestamp}, &w.SymptomScore, &symptom}, func() {
					if symptom.Valid {
						v := symptom.String
						w.Symptom = &v
					}
				}
			},
		}, nil
	case model.KindWorkoutQuality:
		return table{
			columns: []string{"performance_score"},
			values: func(e model.Entry) []any {
				return []any{e.(*model.WorkoutQuality).PerformanceScore}
			},
			target: func() (model.Entry, []any, func()) {
				q := &model.WorkoutQuality{}
				return q, []any{timeValue{&q.Timestamp}, &q.PerformanceScore}, nil
			},
		}, nil
	default:
		return table{}, fmt.Errorf("kind %q has no table: %w", kind, model.ErrValidation)
	}
}
