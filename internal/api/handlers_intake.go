package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ryan-kosiba/nutriclaude/internal/api/respond"
	"github.com/ryan-kosiba/nutriclaude/internal/api/validate"
	"github.com/ryan-kosiba/nutriclaude/internal/extract"
	"github.com/ryan-kosiba/nutriclaude/internal/metrics"
	"github.com/ryan-kosiba/nutriclaude/internal/services"
)

// IntakeHandler exposes message intake and the confirm/reject workflow.
type IntakeHandler struct {
	intake  *services.IntakeService
	staging *services.StagingService
	confirm *services.ConfirmationService
}

func NewIntakeHandler(intake *services.IntakeService, staging *services.StagingService, confirm *services.ConfirmationService) *IntakeHandler {
	return &IntakeHandler{intake: intake, staging: staging, confirm: confirm}
}

// PostMessage POST /api/users/{userId}/messages
func (h *IntakeHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := validate.UserID(userID); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	var req struct {
		Text       string `json:"text"`
		ChannelRef string `json:"channel_ref"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.Message(req.Text, req.ChannelRef); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	staged, err := h.intake.Ingest(r.Context(), userID, req.ChannelRef, req.Text)
	metrics.Intake.WithLabelValues(intakeResult(err)).Inc()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	for _, s := range staged {
		metrics.EntriesStaged.WithLabelValues(string(s.Pending.Kind())).Inc()
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]interface{}{"entries": staged, "count": len(staged)})
}

// GetPending GET /api/users/{userId}/pending/{pendingId}
func (h *IntakeHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := validate.ID("pendingId", vars["pendingId"]); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	p, found, err := h.staging.Peek(r.Context(), vars["pendingId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !found || p.UserID != vars["userId"] {
		respond.WriteNotFound(w, "pending entry not found")
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

// Confirm POST /api/users/{userId}/pending/{pendingId}/confirm
// A missing entry is reported through the outcome, not as a 404.
func (h *IntakeHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := validate.ID("pendingId", vars["pendingId"]); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.confirm.Confirm(r.Context(), vars["userId"], vars["pendingId"])
	countTransition("confirm", out, err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// Reject POST /api/users/{userId}/pending/{pendingId}/reject
func (h *IntakeHandler) Reject(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := validate.ID("pendingId", vars["pendingId"]); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.confirm.Reject(r.Context(), vars["userId"], vars["pendingId"])
	countTransition("reject", out, err)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

func intakeResult(err error) string {
	switch {
	case err == nil:
		return "staged"
	case extract.IsProviderError(err):
		return "provider_error"
	case extract.IsMalformedOutput(err):
		return "malformed"
	case extract.IsNoValidEntries(err):
		return "no_valid_entries"
	case errors.Is(err, services.ErrNothingToLog):
		return "nothing_to_log"
	default:
		return "error"
	}
}

func countTransition(action string, out *services.Confirmation, err error) {
	outcome := "error"
	if err == nil {
		outcome = string(out.Outcome)
	}
	metrics.Transitions.WithLabelValues(action, outcome).Inc()
}
