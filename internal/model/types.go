package model

import (
	"time"
)

// Record is a permanent log row owned by a user.
type Record struct {
	ID        string
	UserID    string
	Entry     Entry
	CreatedAt time.Time
}

// Kind returns the variant of the wrapped entry.
func (r *Record) Kind() Kind { return r.Entry.Kind() }

// MarshalJSON flattens the entry fields next to id, user_id and type.
func (r *Record) MarshalJSON() ([]byte, error) {
	return mergeJSON(r.Entry, map[string]any{
		"id":      r.ID,
		"user_id": r.UserID,
		"type":    r.Entry.Kind(),
	})
}

// PendingLog is an extracted entry awaiting confirmation.
type PendingLog struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ChannelRef string    `json:"channel_ref"`
	Entry      Entry     `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// Kind returns the variant tag of the staged entry.
func (p *PendingLog) Kind() Kind { return p.Entry.Kind() }

// MarshalJSON renders the staged entry under "payload" with its tag.
func (p *PendingLog) MarshalJSON() ([]byte, error) {
	type alias PendingLog
	return mergeJSON((*alias)(p), map[string]any{
		"type":    p.Entry.Kind(),
		"payload": p.Entry,
	})
}

// ListLogsRequest captures filters used when listing permanent rows.
// Zero From/To means unbounded.
type ListLogsRequest struct {
	Kind         Kind
	UserID       string
	From         time.Time
	To           time.Time
	ExerciseName string
	Desc         bool
	Limit        int
}

// WorkoutSummary is the cached narrative for one user-day.
type WorkoutSummary struct {
	UserID       string    `json:"user_id"`
	Date         string    `json:"date"`
	WorkoutCount int       `json:"workout_count"`
	Summary      string    `json:"summary"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Goals are per-user targets. Height is stored as total inches.
type Goals struct {
	UserID           string    `json:"user_id"`
	CurrentWeightLbs *float64  `json:"current_weight_lbs"`
	HeightInches     *float64  `json:"height_inches"`
	TargetWeightLbs  *float64  `json:"target_weight_lbs"`
	DailyCalories    *int      `json:"daily_calories"`
	DailyProteinG    *int      `json:"daily_protein_g"`
	MaxCarbsG        *int      `json:"max_carbs_g"`
	MaxFatG          *int      `json:"max_fat_g"`
	UpdatedAt        time.Time `json:"updated_at"`
}
