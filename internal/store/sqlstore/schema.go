package sqlstore

import (
	"context"
	"fmt"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

var schemaTemplate = []string{
	`CREATE TABLE IF NOT EXISTS meals (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        "timestamp" {ts} NOT NULL,
        description TEXT NOT NULL,
        calories INTEGER NOT NULL,
        protein_g INTEGER NOT NULL,
        carbs_g INTEGER NOT NULL,
        fat_g INTEGER NOT NULL,
        created_at {ts} NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS workouts (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        "timestamp" {ts} NOT NULL,
        description TEXT NOT NULL,
        estimated_calories_burned INTEGER NOT NULL,
        intensity_score INTEGER,
        created_at {ts} NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS exercises (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        "timestamp" {ts} NOT NULL,
        exercise_name TEXT NOT NULL,
        sets INTEGER NOT NULL,
        reps INTEGER NOT NULL,
        weight_lbs {float} NOT NULL,
        notes TEXT,
        created_at {ts} NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS bodyweight (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        "timestamp" {ts} NOT NULL,
        weight_lbs {float} NOT NULL,
        created_at {ts} NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS wellness (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        "timestamp" {ts} NOT NULL,
        symptom_score INTEGER NOT NULL,
        symptom TEXT,
        created_at {ts} NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS workout_quality (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        "timestamp" {ts} NOT NULL,
        performance_score INTEGER NOT NULL,
        created_at {ts} NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS pending_logs (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        channel_ref TEXT NOT NULL,
        type TEXT NOT NULL,
        payload {json} NOT NULL,
        created_at {ts} NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS workout_summaries (
        user_id TEXT NOT NULL,
        date TEXT NOT NULL,
        workout_count INTEGER NOT NULL,
        summary TEXT NOT NULL,
        updated_at {ts} NOT NULL,
        PRIMARY KEY (user_id, date)
    )`,
	`CREATE TABLE IF NOT EXISTS goals (
        user_id TEXT PRIMARY KEY,
        current_weight_lbs {float},
        height_inches {float},
        target_weight_lbs {float},
        daily_calories INTEGER,
        daily_protein_g INTEGER,
        max_carbs_g INTEGER,
        max_fat_g INTEGER,
        updated_at {ts} NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_exercises_user_name ON exercises (user_id, exercise_name)`,
}

// Schema returns the DDL statements for d.
func Schema(d Dialect) []string {
	out := make([]string, 0, len(schemaTemplate)+len(model.PersistentKinds))
	for _, stmt := range schemaTemplate {
		out = append(out, d.types.Replace(stmt))
	}
	for _, k := range model.PersistentKinds {
		out = append(out, fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_user_ts ON %s (user_id, \"timestamp\")", k.Table(), k.Table()))
	}
	return out
}

// Migrate applies the schema idempotently.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range Schema(s.d) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema (%s): %w", s.d, err)
		}
	}
	return nil
}
