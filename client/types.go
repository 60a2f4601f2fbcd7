package client

import (
	"encoding/json"
	"time"
)

// Pending is a staged entry awaiting confirmation.
type Pending struct {
	ID         string                 `json:"id"`
	UserID     string                 `json:"user_id"`
	ChannelRef string                 `json:"channel_ref"`
	Type       string                 `json:"type"`
	Payload    map[string]interface{} `json:"payload"`
	CreatedAt  time.Time              `json:"created_at"`
}

// StagedEntry pairs a pending entry with its human-readable confirmation prompt.
type StagedEntry struct {
	Pending Pending `json:"pending"`
	Text    string  `json:"text"`
}

type PostMessageResponse struct {
	Entries []StagedEntry `json:"entries"`
	Count   int           `json:"count"`
}

// Confirmation is the outcome of a confirm or reject call:
// confirmed, rejected, not_found or discarded.
type Confirmation struct {
	Outcome   string          `json:"outcome"`
	PendingID string          `json:"pending_id"`
	Record    json.RawMessage `json:"record,omitempty"`
}

type KPIs struct {
	AvgDailyCalories int      `json:"avg_daily_calories"`
	AvgDailyProtein  int      `json:"avg_daily_protein"`
	CurrentWeight    *float64 `json:"current_weight"`
	CalorieBalance   int      `json:"calorie_balance"`
	AvgSymptomScore  *float64 `json:"avg_symptom_score"`
	AvgPerformance   *float64 `json:"avg_performance"`
}

type HistoryItem struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Value       string    `json:"value"`
	Protein     *int      `json:"protein"`
	Carbs       *int      `json:"carbs"`
	Fat         *int      `json:"fat"`
}

// ExerciseRecord is a stored exercise row.
type ExerciseRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Timestamp    time.Time `json:"timestamp"`
	ExerciseName string    `json:"exercise_name"`
	Sets         int       `json:"sets"`
	Reps         int       `json:"reps"`
	WeightLbs    float64   `json:"weight_lbs"`
	Notes        *string   `json:"notes,omitempty"`
}

type Goals struct {
	CurrentWeightLbs *float64 `json:"current_weight_lbs"`
	HeightFeet       *int     `json:"height_feet"`
	HeightInches     *float64 `json:"height_inches"`
	TargetWeightLbs  *float64 `json:"target_weight_lbs"`
	DailyCalories    *int     `json:"daily_calories"`
	DailyProteinG    *int     `json:"daily_protein_g"`
	MaxCarbsG        *int     `json:"max_carbs_g"`
	MaxFatG          *int     `json:"max_fat_g"`
}

type Summary struct {
	Date         string `json:"date"`
	WorkoutCount int    `json:"workout_count"`
	Summary      string `json:"summary"`
}

type Health struct {
	Status     string          `json:"status"`
	Timestamp  string          `json:"timestamp"`
	Components map[string]bool `json:"components,omitempty"`
}
