package validate

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ryan-kosiba/nutriclaude/internal/services"
)

// UserID is a chat or account identifier: letters, digits, underscore, hyphen, 1-64 chars.
var userIDRx = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,64}$`)

// MaxMessageChars bounds intake text.
const MaxMessageChars = 4000

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func UserID(v string) error {
	if err := NonEmpty("userId", v); err != nil {
		return err
	}
	if !userIDRx.MatchString(v) {
		return fmt.Errorf("userId must match %s", userIDRx.String())
	}
	return nil
}

// ID checks a pending or log row identifier.
func ID(field, v string) error {
	if err := NonEmpty(field, v); err != nil {
		return err
	}
	if _, err := uuid.Parse(v); err != nil {
		return fmt.Errorf("%s must be a UUID", field)
	}
	return nil
}

// -------- Request specific helpers ----------

func Message(text, channelRef string) error {
	if err := NonEmpty("text", text); err != nil {
		return err
	}
	if utf8.RuneCountInString(text) > MaxMessageChars {
		return fmt.Errorf("text exceeds %d characters", MaxMessageChars)
	}
	if len(channelRef) > 200 {
		return fmt.Errorf("channel_ref exceeds 200 characters")
	}
	return nil
}

// Goals rejects negative targets and inches outside [0,12).
func Goals(v services.GoalsView) error {
	for name, f := range map[string]*float64{
		"current_weight_lbs": v.CurrentWeightLbs,
		"target_weight_lbs":  v.TargetWeightLbs,
	} {
		if f != nil && *f <= 0 {
			return fmt.Errorf("%s must be > 0", name)
		}
	}
	for name, n := range map[string]*int{
		"height_feet":     v.HeightFeet,
		"daily_calories":  v.DailyCalories,
		"daily_protein_g": v.DailyProteinG,
		"max_carbs_g":     v.MaxCarbsG,
		"max_fat_g":       v.MaxFatG,
	} {
		if n != nil && *n < 0 {
			return fmt.Errorf("%s must be >= 0", name)
		}
	}
	if v.HeightInches != nil && (*v.HeightInches < 0 || *v.HeightInches >= 12) {
		return fmt.Errorf("height_inches must be between 0 and 12")
	}
	return nil
}
