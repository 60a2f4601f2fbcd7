// Package aggregate derives dashboard views from permanent log rows.
//
// Every read is scoped to one user and a trailing window of days anchored at local
// midnight in the display zone. Rows are bucketed into days by converting their
// stored instant into that zone. Empty tables produce empty or zero results.
package aggregate

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
	"github.com/ryan-kosiba/nutriclaude/internal/store"
)

// Summarizer writes a narrative for one day of workout and exercise rows.
type Summarizer interface {
	Summarize(ctx context.Context, date string, rows []*model.Record) (string, error)
}

// Engine computes derived views. It never mutates log rows.
type Engine struct {
	store      store.Store
	summarizer Summarizer
	loc        *time.Location
	now        func() time.Time
	log        zerolog.Logger
}

// New returns an Engine bucketing days in loc. summarizer may be nil when Summary is unused.
func New(s store.Store, summarizer Summarizer, loc *time.Location, log zerolog.Logger) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{store: s, summarizer: summarizer, loc: loc, now: time.Now, log: log}
}

// Today returns the current date in the display zone.
func (e *Engine) Today() string {
	return dayKey(e.now(), e.loc)
}

// Location returns the display zone.
func (e *Engine) Location() *time.Location { return e.loc }

func (e *Engine) since(ctx context.Context, kind model.Kind, userID string, days int) ([]*model.Record, error) {
	return e.store.Logs().List(ctx, model.ListLogsRequest{
		Kind:   kind,
		UserID: userID,
		From:   windowStart(e.now(), days, e.loc),
	})
}

func (e *Engine) onDay(ctx context.Context, kind model.Kind, userID string, day time.Time) ([]*model.Record, error) {
	from, to := dayBounds(day)
	return e.store.Logs().List(ctx, model.ListLogsRequest{Kind: kind, UserID: userID, From: from, To: to})
}

// KPIs are headline numbers over a window.
type KPIs struct {
	AvgDailyCalories int      `json:"avg_daily_calories"`
	AvgDailyProtein  int      `json:"avg_daily_protein"`
	CurrentWeight    *float64 `json:"current_weight"`
	CalorieBalance   int      `json:"calorie_balance"`
	AvgSymptomScore  *float64 `json:"avg_symptom_score"`
	AvgPerformance   *float64 `json:"avg_performance"`
}

// KPIs averages intake over days that have meals, so empty days do not dilute it.
// Current weight falls back to the latest weigh-in ever when none is in the window.
func (e *Engine) KPIs(ctx context.Context, userID string, days int) (*KPIs, error) {
	meals, err := e.since(ctx, model.KindMeal, userID, days)
	if err != nil {
		return nil, err
	}
	workouts, err := e.since(ctx, model.KindWorkout, userID, days)
	if err != nil {
		return nil, err
	}
	weights, err := e.since(ctx, model.KindBodyweight, userID, days)
	if err != nil {
		return nil, err
	}
	wellness, err := e.since(ctx, model.KindWellness, userID, days)
	if err != nil {
		return nil, err
	}
	quality, err := e.since(ctx, model.KindWorkoutQuality, userID, days)
	if err != nil {
		return nil, err
	}

	intake, protein := 0, 0
	mealDays := map[string]struct{}{}
	for _, r := range meals {
		m := r.Entry.(*model.Meal)
		mealDays[dayKey(m.Timestamp, e.loc)] = struct{}{}
		intake += m.Calories
		protein += m.ProteinG
	}
	n := len(mealDays)
	if n == 0 {
		n = 1
	}

	burned := 0
	for _, r := range workouts {
		burned += r.Entry.(*model.Workout).EstimatedCaloriesBurned
	}

	out := &KPIs{
		AvgDailyCalories: roundInt(float64(intake) / float64(n)),
		AvgDailyProtein:  roundInt(float64(protein) / float64(n)),
		CalorieBalance:   intake - burned,
	}

	if len(weights) > 0 {
		w := weights[len(weights)-1].Entry.(*model.Bodyweight).WeightLbs
		out.CurrentWeight = &w
	} else {
		latest, err := e.store.Logs().List(ctx, model.ListLogsRequest{
			Kind: model.KindBodyweight, UserID: userID, Desc: true, Limit: 1,
		})
		if err != nil {
			return nil, err
		}
		if len(latest) > 0 {
			w := latest[0].Entry.(*model.Bodyweight).WeightLbs
			out.CurrentWeight = &w
		}
	}

	if len(wellness) > 0 {
		sum := 0
		for _, r := range wellness {
			sum += r.Entry.(*model.Wellness).SymptomScore
		}
		v := roundTenth(float64(sum) / float64(len(wellness)))
		out.AvgSymptomScore = &v
	}
	if len(quality) > 0 {
		sum := 0
		for _, r := range quality {
			sum += r.Entry.(*model.WorkoutQuality).PerformanceScore
		}
		v := roundTenth(float64(sum) / float64(len(quality)))
		out.AvgPerformance = &v
	}
	return out, nil
}

// DayMacros is one day of summed meal macros.
type DayMacros struct {
	Date     string `json:"date"`
	Calories int    `json:"calories"`
	ProteinG int    `json:"protein_g"`
	CarbsG   int    `json:"carbs_g"`
	FatG     int    `json:"fat_g"`
}

// DailyMeals sums macros per day, oldest first.
func (e *Engine) DailyMeals(ctx context.Context, userID string, days int) ([]DayMacros, error) {
	meals, err := e.since(ctx, model.KindMeal, userID, days)
	if err != nil {
		return nil, err
	}
	byDay := map[string]*DayMacros{}
	for _, r := range meals {
		m := r.Entry.(*model.Meal)
		k := dayKey(m.Timestamp, e.loc)
		d, ok := byDay[k]
		if !ok {
			d = &DayMacros{Date: k}
			byDay[k] = d
		}
		d.Calories += m.Calories
		d.ProteinG += m.ProteinG
		d.CarbsG += m.CarbsG
		d.FatG += m.FatG
	}
	out := make([]DayMacros, 0, len(byDay))
	for _, k := range sortedKeys(byDay) {
		out = append(out, *byDay[k])
	}
	return out, nil
}

// DayBalance is intake against workout burn for one day.
type DayBalance struct {
	Date   string `json:"date"`
	Intake int    `json:"intake"`
	Burned int    `json:"burned"`
	Net    int    `json:"net"`
}

// CalorieBalance covers every day with a meal or a workout; the missing side counts as zero.
func (e *Engine) CalorieBalance(ctx context.Context, userID string, days int) ([]DayBalance, error) {
	meals, err := e.since(ctx, model.KindMeal, userID, days)
	if err != nil {
		return nil, err
	}
	workouts, err := e.since(ctx, model.KindWorkout, userID, days)
	if err != nil {
		return nil, err
	}
	intake := map[string]int{}
	burn := map[string]int{}
	for _, r := range meals {
		m := r.Entry.(*model.Meal)
		intake[dayKey(m.Timestamp, e.loc)] += m.Calories
	}
	for _, r := range workouts {
		w := r.Entry.(*model.Workout)
		burn[dayKey(w.Timestamp, e.loc)] += w.EstimatedCaloriesBurned
	}
	all := map[string]struct{}{}
	for k := range intake {
		all[k] = struct{}{}
	}
	for k := range burn {
		all[k] = struct{}{}
	}
	out := make([]DayBalance, 0, len(all))
	for _, k := range sortedKeys(all) {
		out = append(out, DayBalance{Date: k, Intake: intake[k], Burned: burn[k], Net: intake[k] - burn[k]})
	}
	return out, nil
}

type WeightPoint struct {
	Date      string  `json:"date"`
	WeightLbs float64 `json:"weight_lbs"`
}

// Weight lists weigh-ins oldest first.
func (e *Engine) Weight(ctx context.Context, userID string, days int) ([]WeightPoint, error) {
	rows, err := e.since(ctx, model.KindBodyweight, userID, days)
	if err != nil {
		return nil, err
	}
	out := make([]WeightPoint, 0, len(rows))
	for _, r := range rows {
		b := r.Entry.(*model.Bodyweight)
		out = append(out, WeightPoint{Date: dayKey(b.Timestamp, e.loc), WeightLbs: b.WeightLbs})
	}
	return out, nil
}

type WellnessPoint struct {
	Date         string  `json:"date"`
	SymptomScore int     `json:"symptom_score"`
	Symptom      *string `json:"symptom"`
}

func (e *Engine) Wellness(ctx context.Context, userID string, days int) ([]WellnessPoint, error) {
	rows, err := e.since(ctx, model.KindWellness, userID, days)
	if err != nil {
		return nil, err
	}
	out := make([]WellnessPoint, 0, len(rows))
	for _, r := range rows {
		w := r.Entry.(*model.Wellness)
		out = append(out, WellnessPoint{Date: dayKey(w.Timestamp, e.loc), SymptomScore: w.SymptomScore, Symptom: w.Symptom})
	}
	return out, nil
}

type WorkoutPoint struct {
	Date           string `json:"date"`
	Description    string `json:"description"`
	CaloriesBurned int    `json:"calories_burned"`
	Intensity      *int   `json:"intensity"`
}

func (e *Engine) Workouts(ctx context.Context, userID string, days int) ([]WorkoutPoint, error) {
	rows, err := e.since(ctx, model.KindWorkout, userID, days)
	if err != nil {
		return nil, err
	}
	out := make([]WorkoutPoint, 0, len(rows))
	for _, r := range rows {
		w := r.Entry.(*model.Workout)
		out = append(out, WorkoutPoint{
			Date:           dayKey(w.Timestamp, e.loc),
			Description:    w.Description,
			CaloriesBurned: w.EstimatedCaloriesBurned,
			Intensity:      w.IntensityScore,
		})
	}
	return out, nil
}

type DailyMeal struct {
	Description string    `json:"description"`
	Calories    int       `json:"calories"`
	ProteinG    int       `json:"protein_g"`
	CarbsG      int       `json:"carbs_g"`
	FatG        int       `json:"fat_g"`
	Timestamp   time.Time `json:"timestamp"`
}

type DailyExercise struct {
	ExerciseName string  `json:"exercise_name"`
	Sets         int     `json:"sets"`
	Reps         int     `json:"reps"`
	WeightLbs    float64 `json:"weight_lbs"`
	Notes        *string `json:"notes"`
}

type DailyWorkout struct {
	Description    string `json:"description"`
	CaloriesBurned int    `json:"calories_burned"`
	Intensity      *int   `json:"intensity"`
}

// Day is the single-day detail view.
type Day struct {
	DayMacros
	Meals        []DailyMeal     `json:"meals"`
	Exercises    []DailyExercise `json:"exercises"`
	Workout      *DailyWorkout   `json:"workout"`
	Performance  *int            `json:"performance"`
	SymptomScore *int            `json:"symptom_score"`
}

// Daily gathers everything logged on date (YYYY-MM-DD in the display zone).
// Only the earliest workout, performance score and symptom score are shown.
func (e *Engine) Daily(ctx context.Context, userID, date string) (*Day, error) {
	start, err := ParseDate(date, e.loc)
	if err != nil {
		return nil, err
	}
	out := &Day{DayMacros: DayMacros{Date: date}, Meals: []DailyMeal{}, Exercises: []DailyExercise{}}

	meals, err := e.onDay(ctx, model.KindMeal, userID, start)
	if err != nil {
		return nil, err
	}
	for _, r := range meals {
		m := r.Entry.(*model.Meal)
		out.Calories += m.Calories
		out.ProteinG += m.ProteinG
		out.CarbsG += m.CarbsG
		out.FatG += m.FatG
		out.Meals = append(out.Meals, DailyMeal{
			Description: m.Description, Calories: m.Calories, ProteinG: m.ProteinG,
			CarbsG: m.CarbsG, FatG: m.FatG, Timestamp: m.Timestamp.In(e.loc),
		})
	}

	exercises, err := e.onDay(ctx, model.KindExercise, userID, start)
	if err != nil {
		return nil, err
	}
	for _, r := range exercises {
		x := r.Entry.(*model.Exercise)
		out.Exercises = append(out.Exercises, DailyExercise{
			ExerciseName: x.ExerciseName, Sets: x.Sets, Reps: x.Reps, WeightLbs: x.WeightLbs, Notes: x.Notes,
		})
	}

	workouts, err := e.onDay(ctx, model.KindWorkout, userID, start)
	if err != nil {
		return nil, err
	}
	if len(workouts) > 0 {
		w := workouts[0].Entry.(*model.Workout)
		out.Workout = &DailyWorkout{Description: w.Description, CaloriesBurned: w.EstimatedCaloriesBurned, Intensity: w.IntensityScore}
	}

	quality, err := e.onDay(ctx, model.KindWorkoutQuality, userID, start)
	if err != nil {
		return nil, err
	}
	if len(quality) > 0 {
		v := quality[0].Entry.(*model.WorkoutQuality).PerformanceScore
		out.Performance = &v
	}

	wellness, err := e.onDay(ctx, model.KindWellness, userID, start)
	if err != nil {
		return nil, err
	}
	if len(wellness) > 0 {
		v := wellness[0].Entry.(*model.Wellness).SymptomScore
		out.SymptomScore = &v
	}
	return out, nil
}

// LoggedDates returns the sorted distinct days in the window holding any row.
func (e *Engine) LoggedDates(ctx context.Context, userID string, days int) ([]string, error) {
	seen := map[string]struct{}{}
	for _, k := range model.PersistentKinds {
		rows, err := e.since(ctx, k, userID, days)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			seen[dayKey(r.Entry.When(), e.loc)] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Halves round to even.
func roundInt(v float64) int { return int(math.RoundToEven(v)) }

func roundTenth(v float64) float64 { return math.RoundToEven(v*10) / 10 }
