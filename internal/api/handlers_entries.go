package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ryan-kosiba/nutriclaude/internal/api/respond"
	"github.com/ryan-kosiba/nutriclaude/internal/api/validate"
	"github.com/ryan-kosiba/nutriclaude/internal/model"
	"github.com/ryan-kosiba/nutriclaude/internal/services"
)

const maxEntryBody = 64 << 10

// EntryHandler edits permanent rows and per-user goals.
type EntryHandler struct {
	entries *services.EntryService
	goals   *services.GoalsService
}

func NewEntryHandler(entries *services.EntryService, goals *services.GoalsService) *EntryHandler {
	return &EntryHandler{entries: entries, goals: goals}
}

func pathKind(w http.ResponseWriter, r *http.Request) (model.Kind, bool) {
	k, ok := model.ParseKind(mux.Vars(r)["kind"])
	if !ok || !k.Persistent() {
		respond.WriteBadRequest(w, "unknown log kind")
		return "", false
	}
	return k, true
}

// GetEntry GET /api/users/{userId}/entries/{kind}/{id}
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	rec, err := h.entries.Get(r.Context(), vars["userId"], kind, vars["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, rec)
}

// UpdateEntry PUT /api/users/{userId}/entries/{kind}/{id}
// The body carries every field of the kind; it is validated like extracted output.
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEntryBody))
	if err != nil {
		respond.WriteBadRequest(w, "unreadable body")
		return
	}
	if !json.Valid(body) {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	vars := mux.Vars(r)
	rec, err := h.entries.Update(r.Context(), vars["userId"], kind, vars["id"], body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, rec)
}

// DeleteEntry DELETE /api/users/{userId}/entries/{kind}/{id}
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	if err := h.entries.Delete(r.Context(), vars["userId"], kind, vars["id"]); err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteNoContent(w)
}

// GetGoals GET /api/users/{userId}/goals
func (h *EntryHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	out, err := h.goals.Get(r.Context(), mux.Vars(r)["userId"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// PutGoals PUT /api/users/{userId}/goals
func (h *EntryHandler) PutGoals(w http.ResponseWriter, r *http.Request) {
	var req services.GoalsView
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.Goals(req); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.goals.Put(r.Context(), mux.Vars(r)["userId"], req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
