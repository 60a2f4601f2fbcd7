package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is matched by APIError values carrying a 404.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx answer from the service.
type APIError struct {
	Status  int    `json:"code"`
	Title   string `json:"error"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Message)
	}
	return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// retryable reports whether a read may be attempted again. 502 is a model provider
// failure and is left to the caller.
func (e *APIError) retryable() bool {
	return e.Status >= 500 && e.Status != http.StatusBadGateway
}
