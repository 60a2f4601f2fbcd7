package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ryan-kosiba/nutriclaude/internal/api/respond"
	"github.com/ryan-kosiba/nutriclaude/internal/extract"
	"github.com/ryan-kosiba/nutriclaude/internal/model"
	"github.com/ryan-kosiba/nutriclaude/internal/services"
)

// writeServiceError maps domain errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case extract.IsProviderError(err):
		respond.WriteReason(w, http.StatusBadGateway, respond.ReasonProvider, err.Error())
	case extract.IsMalformedOutput(err):
		respond.WriteReason(w, http.StatusUnprocessableEntity, respond.ReasonMalformed, err.Error())
	case extract.IsNoValidEntries(err), errors.Is(err, services.ErrNothingToLog):
		respond.WriteReason(w, http.StatusUnprocessableEntity, respond.ReasonNothingToLog, err.Error())
	case errors.Is(err, services.ErrUserNotAllowed):
		respond.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, model.ErrValidation):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrConflict):
		respond.WriteError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Stack().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
		respond.WriteInternalError(w, "internal error")
	}
}
