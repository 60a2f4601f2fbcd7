package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

// ConfirmationText renders a staged entry for the user to confirm.
func ConfirmationText(e model.Entry) string {
	switch x := e.(type) {
	case *model.Meal:
		return fmt.Sprintf("Meal detected:\n  %s\n\nCalories: %d\nProtein: %dg\nCarbs: %dg\nFat: %dg",
			x.Description, x.Calories, x.ProteinG, x.CarbsG, x.FatG)
	case *model.Workout:
		s := fmt.Sprintf("Workout detected:\n  %s\n\nCalories burned: %d", x.Description, x.EstimatedCaloriesBurned)
		if x.IntensityScore != nil {
			s += fmt.Sprintf("\nIntensity: %d/10", *x.IntensityScore)
		}
		return s
	case *model.Exercise:
		s := fmt.Sprintf("Exercise detected:\n  %s\n\n%dx%d @ %s lbs", x.ExerciseName, x.Sets, x.Reps, formatLbs(x.WeightLbs))
		if x.Notes != nil && strings.TrimSpace(*x.Notes) != "" {
			s += "\nNotes: " + *x.Notes
		}
		return s
	case *model.Bodyweight:
		return fmt.Sprintf("Bodyweight logged:\n  %s lbs", formatLbs(x.WeightLbs))
	case *model.Wellness:
		label := "Symptom score"
		if x.Symptom != nil && strings.TrimSpace(*x.Symptom) != "" {
			label = *x.Symptom
		}
		return fmt.Sprintf("Wellness logged:\n  %s: %d/10", label, x.SymptomScore)
	case *model.WorkoutQuality:
		return fmt.Sprintf("Workout quality logged:\n  Performance: %d/10", x.PerformanceScore)
	default:
		return "Could not understand that message."
	}
}

func formatLbs(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
