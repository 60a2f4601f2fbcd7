// Package entry validates raw log payloads against the closed set of entry variants.
package entry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

// DefaultZone is used for timestamps that carry no offset.
const DefaultZone = "America/New_York"

var defaultLoc = mustLoad(DefaultZone)

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Validate checks raw against the variant named by its "type" field,
// reading offset-less timestamps in US Eastern.
func Validate(raw map[string]any) (model.Entry, error) {
	return ValidateIn(raw, defaultLoc)
}

// ValidateIn is Validate with an explicit zone for offset-less timestamps.
// Unrecognized fields are ignored. Every violation is reported, not just the first.
func ValidateIn(raw map[string]any, loc *time.Location) (model.Entry, error) {
	tag, _ := raw["type"].(string)
	kind, ok := model.ParseKind(tag)
	if !ok {
		if tag == "" && raw["type"] != nil {
			tag = fmt.Sprint(raw["type"])
		}
		return nil, UnknownVariantError{Tag: tag}
	}
	if loc == nil {
		loc = defaultLoc
	}

	f := &fields{raw: raw, loc: loc}
	ts := f.timestamp("timestamp")

	var e model.Entry
	switch kind {
	case model.KindMeal:
		e = &model.Meal{
			Timestamp:   ts,
			Description: f.str("description"),
			Calories:    f.integer("calories", 0, math.MaxInt),
			ProteinG:    f.integer("protein_g", 0, math.MaxInt),
			CarbsG:      f.integer("carbs_g", 0, math.MaxInt),
			FatG:        f.integer("fat_g", 0, math.MaxInt),
		}
	case model.KindWorkout:
		e = &model.Workout{
			Timestamp:               ts,
			Description:             f.str("description"),
			EstimatedCaloriesBurned: f.integer("estimated_calories_burned", 0, math.MaxInt),
			IntensityScore:          f.optInteger("intensity_score", 0, 10),
		}
	case model.KindExercise:
		name := strings.TrimSpace(f.str("exercise_name"))
		if name == "" && !f.has("exercise_name") {
			f.fail("exercise_name", "must not be empty")
		}
		e = &model.Exercise{
			Timestamp:    ts,
			ExerciseName: name,
			Sets:         f.integer("sets", 1, math.MaxInt),
			Reps:         f.integer("reps", 1, math.MaxInt),
			WeightLbs:    f.number("weight_lbs", 0, false),
			Notes:        f.optStr("notes"),
		}
	case model.KindBodyweight:
		e = &model.Bodyweight{
			Timestamp: ts,
			WeightLbs: f.number("weight_lbs", 0, true),
		}
	case model.KindWellness:
		e = &model.Wellness{
			Timestamp:    ts,
			SymptomScore: f.integer("symptom_score", 0, 10),
			Symptom:      f.optStr("symptom"),
		}
	case model.KindWorkoutQuality:
		e = &model.WorkoutQuality{
			Timestamp:        ts,
			PerformanceScore: f.integer("performance_score", 0, 10),
		}
	case model.KindUnknown:
		e = &model.Unknown{Timestamp: ts}
	default:
		return nil, UnknownVariantError{Tag: tag}
	}

	if len(f.violations) > 0 {
		return nil, FieldConstraintError{Kind: kind, Violations: f.violations}
	}
	return e, nil
}

// ValidateJSON decodes b as an object and validates it as kind.
// A "type" field in b must match kind when present.
func ValidateJSON(kind model.Kind, b []byte, loc *time.Location) (model.Entry, error) {
	raw, err := DecodeObject(b)
	if err != nil {
		return nil, err
	}
	if t, ok := raw["type"]; ok && t != string(kind) {
		return nil, FieldConstraintError{Kind: kind, Violations: []Violation{{Field: "type", Constraint: "must be " + string(kind)}}}
	}
	raw["type"] = string(kind)
	return ValidateIn(raw, loc)
}

// DecodeObject parses a JSON object keeping numbers as json.Number.
func DecodeObject(b []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode entry: %w", model.ErrValidation)
	}
	if raw == nil {
		return nil, fmt.Errorf("entry must be a JSON object: %w", model.ErrValidation)
	}
	return raw, nil
}

type fields struct {
	raw        map[string]any
	loc        *time.Location
	violations []Violation
}

func (f *fields) fail(field, constraint string) {
	f.violations = append(f.violations, Violation{Field: field, Constraint: constraint})
}

func (f *fields) has(field string) bool {
	for _, v := range f.violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

func (f *fields) get(field string) (any, bool) {
	v, ok := f.raw[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (f *fields) str(field string) string {
	v, ok := f.get(field)
	if !ok {
		f.fail(field, "required")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		f.fail(field, "must be a string")
		return ""
	}
	return s
}

func (f *fields) optStr(field string) *string {
	v, ok := f.get(field)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		f.fail(field, "must be a string")
		return nil
	}
	return &s
}

func (f *fields) integer(field string, min, max int) int {
	v, ok := f.get(field)
	if !ok {
		f.fail(field, "required")
		return 0
	}
	n, ok := f.checkInt(field, v, min, max)
	if !ok {
		return 0
	}
	return n
}

func (f *fields) optInteger(field string, min, max int) *int {
	v, ok := f.get(field)
	if !ok {
		return nil
	}
	n, ok := f.checkInt(field, v, min, max)
	if !ok {
		return nil
	}
	return &n
}

func (f *fields) checkInt(field string, v any, min, max int) (int, bool) {
	x, ok := toFloat(v)
	if !ok || x != math.Trunc(x) || math.IsInf(x, 0) {
		f.fail(field, "must be an integer")
		return 0, false
	}
	// float64(math.MaxInt) rounds up to 2^63, which int cannot hold
	if x >= float64(math.MaxInt) {
		f.fail(field, "is too large")
		return 0, false
	}
	if x < float64(min) || x > float64(max) {
		if max == math.MaxInt {
			f.fail(field, fmt.Sprintf("must be >= %d", min))
		} else {
			f.fail(field, fmt.Sprintf("must be between %d and %d", min, max))
		}
		return 0, false
	}
	return int(x), true
}

// number reads a float field bounded below by min, strictly when exclusive is set.
func (f *fields) number(field string, min float64, exclusive bool) float64 {
	v, ok := f.get(field)
	if !ok {
		f.fail(field, "required")
		return 0
	}
	x, ok := toFloat(v)
	if !ok || math.IsNaN(x) || math.IsInf(x, 0) {
		f.fail(field, "must be a number")
		return 0
	}
	switch {
	case exclusive && x <= min:
		f.fail(field, fmt.Sprintf("must be > %g", min))
		return 0
	case !exclusive && x < min:
		f.fail(field, fmt.Sprintf("must be >= %g", min))
		return 0
	}
	return x
}

func (f *fields) timestamp(field string) time.Time {
	v, ok := f.get(field)
	if !ok {
		f.fail(field, "required")
		return time.Time{}
	}
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		ts, err := ParseTimestamp(t, f.loc)
		if err != nil {
			f.fail(field, "must be an ISO-8601 timestamp")
			return time.Time{}
		}
		return ts
	default:
		f.fail(field, "must be an ISO-8601 timestamp")
		return time.Time{}
	}
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp accepts ISO-8601 with or without an offset; offset-less values are read in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if loc == nil {
		loc = defaultLoc
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		x, err := n.Float64()
		return x, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		x, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return x, err == nil
	default:
		return 0, false
	}
}
