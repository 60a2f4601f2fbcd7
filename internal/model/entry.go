package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind is the tag of a log entry variant.
type Kind string

const (
	KindMeal           Kind = "meal"
	KindWorkout        Kind = "workout"
	KindExercise       Kind = "exercise"
	KindBodyweight     Kind = "bodyweight"
	KindWellness       Kind = "wellness"
	KindWorkoutQuality Kind = "workout_quality"
	KindUnknown        Kind = "unknown"
)

// Kinds lists every variant tag.
var Kinds = []Kind{KindMeal, KindWorkout, KindExercise, KindBodyweight, KindWellness, KindWorkoutQuality, KindUnknown}

// PersistentKinds lists the variants that have a permanent table.
var PersistentKinds = []Kind{KindMeal, KindWorkout, KindExercise, KindBodyweight, KindWellness, KindWorkoutQuality}

// ParseKind returns the Kind for s and whether it is one of the known tags.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Persistent reports whether entries of this kind are stored permanently.
func (k Kind) Persistent() bool {
	return k.Table() != ""
}

// Table returns the permanent table name, or "" for kinds that are never persisted.
func (k Kind) Table() string {
	switch k {
	case KindMeal:
		return "meals"
	case KindWorkout:
		return "workouts"
	case KindExercise:
		return "exercises"
	case KindBodyweight:
		return "bodyweight"
	case KindWellness:
		return "wellness"
	case KindWorkoutQuality:
		return "workout_quality"
	default:
		return ""
	}
}

// Entry is a validated log entry. The set of implementations is closed.
type Entry interface {
	Kind() Kind
	When() time.Time
	isEntry()
}

type Meal struct {
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	Calories    int       `json:"calories"`
	ProteinG    int       `json:"protein_g"`
	CarbsG      int       `json:"carbs_g"`
	FatG        int       `json:"fat_g"`
}

type Workout struct {
	Timestamp               time.Time `json:"timestamp"`
	Description             string    `json:"description"`
	EstimatedCaloriesBurned int       `json:"estimated_calories_burned"`
	IntensityScore          *int      `json:"intensity_score,omitempty"`
}

type Exercise struct {
	Timestamp    time.Time `json:"timestamp"`
	ExerciseName string    `json:"exercise_name"`
	Sets         int       `json:"sets"`
	Reps         int       `json:"reps"`
	WeightLbs    float64   `json:"weight_lbs"`
	Notes        *string   `json:"notes,omitempty"`
}

type Bodyweight struct {
	Timestamp time.Time `json:"timestamp"`
	WeightLbs float64   `json:"weight_lbs"`
}

type Wellness struct {
	Timestamp    time.Time `json:"timestamp"`
	SymptomScore int       `json:"symptom_score"`
	Symptom      *string   `json:"symptom,omitempty"`
}

type WorkoutQuality struct {
	Timestamp        time.Time `json:"timestamp"`
	PerformanceScore int       `json:"performance_score"`
}

// Unknown marks an utterance the model could not classify. It is never persisted.
type Unknown struct {
	Timestamp time.Time `json:"timestamp"`
}

func (*Meal) Kind() Kind           { return KindMeal }
func (*Workout) Kind() Kind        { return KindWorkout }
func (*Exercise) Kind() Kind       { return KindExercise }
func (*Bodyweight) Kind() Kind     { return KindBodyweight }
func (*Wellness) Kind() Kind       { return KindWellness }
func (*WorkoutQuality) Kind() Kind { return KindWorkoutQuality }
func (*Unknown) Kind() Kind        { return KindUnknown }

func (e *Meal) When() time.Time           { return e.Timestamp }
func (e *Workout) When() time.Time        { return e.Timestamp }
func (e *Exercise) When() time.Time       { return e.Timestamp }
func (e *Bodyweight) When() time.Time     { return e.Timestamp }
func (e *Wellness) When() time.Time       { return e.Timestamp }
func (e *WorkoutQuality) When() time.Time { return e.Timestamp }
func (e *Unknown) When() time.Time        { return e.Timestamp }

func (*Meal) isEntry()           {}
func (*Workout) isEntry()        {}
func (*Exercise) isEntry()       {}
func (*Bodyweight) isEntry()     {}
func (*Wellness) isEntry()       {}
func (*WorkoutQuality) isEntry() {}
func (*Unknown) isEntry()        {}

// NewEntry returns a zero value of the variant for kind.
func NewEntry(kind Kind) (Entry, error) {
	switch kind {
	case KindMeal:
		return &Meal{}, nil
	case KindWorkout:
		return &Workout{}, nil
	case KindExercise:
		return &Exercise{}, nil
	case KindBodyweight:
		return &Bodyweight{}, nil
	case KindWellness:
		return &Wellness{}, nil
	case KindWorkoutQuality:
		return &WorkoutQuality{}, nil
	case KindUnknown:
		return &Unknown{}, nil
	default:
		return nil, fmt.Errorf("unknown entry kind %q: %w", kind, ErrValidation)
	}
}

// Encode serializes an entry with its "type" tag.
func Encode(e Entry) ([]byte, error) {
	return mergeJSON(e, map[string]any{"type": e.Kind()})
}

// Decode rebuilds a typed entry from a payload written by Encode.
func Decode(kind Kind, payload []byte) (Entry, error) {
	e, err := NewEntry(kind)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, e); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return e, nil
}

func mergeJSON(v any, extra map[string]any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	for k, x := range extra {
		raw, err := json.Marshal(x)
		if err != nil {
			return nil, err
		}
		fields[k] = raw
	}
	return json.Marshal(fields)
}
