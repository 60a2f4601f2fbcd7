package extract

import (
	"errors"
	"fmt"
	"strings"
)

// ProviderError is returned when the language-model call itself failed.
type ProviderError struct {
	Err error
}

func (e ProviderError) Error() string { return fmt.Sprintf("language model error: %v", e.Err) }
func (e ProviderError) Unwrap() error { return e.Err }

// IsProviderError checks if an error is a ProviderError (including wrapped errors)
func IsProviderError(err error) bool {
	var pe ProviderError
	return errors.As(err, &pe)
}

// MalformedOutputError is returned when the model reply holds no parsable JSON.
type MalformedOutputError struct {
	Text string
	Err  error
}

func (e MalformedOutputError) Error() string {
	return fmt.Sprintf("model returned invalid JSON: %v", e.Err)
}

func (e MalformedOutputError) Unwrap() error { return e.Err }

// IsMalformedOutput checks if an error is a MalformedOutputError (including wrapped errors)
func IsMalformedOutput(err error) bool {
	var me MalformedOutputError
	return errors.As(err, &me)
}

// NoValidEntriesError is returned when every extracted element failed validation.
type NoValidEntriesError struct {
	Messages []string
}

func (e NoValidEntriesError) Error() string {
	if len(e.Messages) == 0 {
		return "model returned no entries"
	}
	return "all entries failed validation: " + strings.Join(e.Messages, "; ")
}

// IsNoValidEntries checks if an error is a NoValidEntriesError (including wrapped errors)
func IsNoValidEntries(err error) bool {
	var ne NoValidEntriesError
	return errors.As(err, &ne)
}
