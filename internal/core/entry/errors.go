package entry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

// UnknownVariantError is returned when the "type" tag is not a known variant.
type UnknownVariantError struct {
	Tag string
}

func (e UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown log type %q", e.Tag)
}

func (e UnknownVariantError) Unwrap() error { return model.ErrValidation }

// IsUnknownVariant checks if an error is an UnknownVariantError (including wrapped errors)
func IsUnknownVariant(err error) bool {
	var uv UnknownVariantError
	return errors.As(err, &uv)
}

// Violation names one offending field and the constraint it failed.
type Violation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
}

// FieldConstraintError lists every field of an entry that is missing or out of range.
type FieldConstraintError struct {
	Kind       model.Kind
	Violations []Violation
}

func (e FieldConstraintError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Constraint)
	}
	return fmt.Sprintf("invalid %s entry: %s", e.Kind, strings.Join(parts, "; "))
}

func (e FieldConstraintError) Unwrap() error { return model.ErrValidation }

// Has reports whether field is among the violations.
func (e FieldConstraintError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// IsFieldConstraint checks if an error is a FieldConstraintError (including wrapped errors)
func IsFieldConstraint(err error) bool {
	var fc FieldConstraintError
	return errors.As(err, &fc)
}
