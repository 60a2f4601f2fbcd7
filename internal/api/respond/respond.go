// Package respond writes JSON bodies and the service's error envelope.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// Reasons distinguish failures that share a status code.
const (
	ReasonValidation   = "validation"
	ReasonNotFound     = "not_found"
	ReasonConflict     = "conflict"
	ReasonForbidden    = "forbidden"
	ReasonProvider     = "provider_error"
	ReasonMalformed    = "malformed_output"
	ReasonNothingToLog = "nothing_to_log"
	ReasonInternal     = "internal"
	ReasonUnspecified  = ""
)

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Int("status", statusCode).Msg("Failed to encode JSON response")
	}
}

// WriteReason writes the error envelope with an explicit reason.
func WriteReason(w http.ResponseWriter, statusCode int, reason, message string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Code:    statusCode,
		Reason:  reason,
		Message: message,
	})
}

// WriteError writes the error envelope with the default reason for statusCode.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteReason(w, statusCode, defaultReason(statusCode), message)
}

func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteReason(w, http.StatusBadRequest, ReasonValidation, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteReason(w, http.StatusNotFound, ReasonNotFound, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteReason(w, http.StatusInternalServerError, ReasonInternal, message)
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func defaultReason(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return ReasonValidation
	case http.StatusNotFound:
		return ReasonNotFound
	case http.StatusConflict:
		return ReasonConflict
	case http.StatusForbidden:
		return ReasonForbidden
	case http.StatusBadGateway:
		return ReasonProvider
	case http.StatusInternalServerError:
		return ReasonInternal
	}
	return ReasonUnspecified
}
