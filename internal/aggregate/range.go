package aggregate

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

// Default trailing windows per read.
const (
	DefaultKPIDays             = 7
	DefaultWeightDays          = 30
	DefaultHistoryDays         = 30
	DefaultExerciseDays        = 30
	DefaultExerciseHistoryDays = 90
)

// MaxRangeDays bounds a trailing window so its start stays a valid timestamp for every store.
const MaxRangeDays = 3650

var rangePattern = regexp.MustCompile(`^\d+d$`)

// ParseRange reads a trailing window such as "7d". An empty string yields fallback.
func ParseRange(s string, fallback int) (int, error) {
	if s == "" {
		return fallback, nil
	}
	if !rangePattern.MatchString(s) {
		return 0, fmt.Errorf("range %q must look like 7d: %w", s, model.ErrValidation)
	}
	days, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || days > MaxRangeDays {
		return 0, fmt.Errorf("range %q must be at most %dd: %w", s, MaxRangeDays, model.ErrValidation)
	}
	return days, nil
}

// ParseDate reads a YYYY-MM-DD day in loc and returns its first instant.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD: %w", s, model.ErrValidation)
	}
	return t, nil
}

const dayLayout = "2006-01-02"

// dayKey buckets t into a calendar day of loc.
func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dayLayout)
}

// windowStart is local midnight days before today.
func windowStart(now time.Time, days int, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d-days, 0, 0, 0, 0, loc)
}

// dayBounds returns the first and last instant of the local day starting at start.
func dayBounds(start time.Time) (time.Time, time.Time) {
	y, m, d := start.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, start.Location())
	return start, next.Add(-time.Nanosecond)
}
