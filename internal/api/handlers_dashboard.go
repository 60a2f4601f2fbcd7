package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ryan-kosiba/nutriclaude/internal/aggregate"
	"github.com/ryan-kosiba/nutriclaude/internal/api/respond"
)

// DashboardHandler serves the aggregated read views.
type DashboardHandler struct {
	engine *aggregate.Engine
}

func NewDashboardHandler(engine *aggregate.Engine) *DashboardHandler {
	return &DashboardHandler{engine: engine}
}

// days reads ?range=Nd, answering 400 itself when malformed.
func days(w http.ResponseWriter, r *http.Request, fallback int) (int, bool) {
	n, err := aggregate.ParseRange(r.URL.Query().Get("range"), fallback)
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return 0, false
	}
	return n, true
}

// date reads ?date=YYYY-MM-DD, defaulting to today in the display zone.
func (h *DashboardHandler) date(r *http.Request) string {
	if d := r.URL.Query().Get("date"); d != "" {
		return d
	}
	return h.engine.Today()
}

func (h *DashboardHandler) write(w http.ResponseWriter, r *http.Request, v interface{}, err error) {
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, v)
}

// KPIs GET /api/users/{userId}/kpis?range=7d
func (h *DashboardHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	n, ok := days(w, r, aggregate.DefaultKPIDays)
	if !ok {
		return
	}
	out, err := h.engine.KPIs(r.Context(), mux.Vars(r)["userId"], n)
	h.write(w, r, out, err)
}

// Meals GET /api/users/{userId}/meals?range=7d
func (h *DashboardHandler) Meals(w http.ResponseWriter, r *http.Request) {
	n, ok := days(w, r, aggregate.DefaultKPIDays)
	if !ok {
		return
	}
	out, err := h.engine.DailyMeals(r.Context(), mux.Vars(r)["userId"], n)
	h.write(w, r, out, err)
}

// CalorieBalance GET /api/users/{userId}/calorie-balance?range=7d
func (h *DashboardHandler) CalorieBalance(w http.ResponseWriter, r *http.Request) {
	n, ok := days(w, r, aggregate.DefaultKPIDays)
	if !ok {
		return
	}
	out, err := h.engine.CalorieBalance(r.Context(), mux.Vars(r)["userId"], n)
	h.write(w, r, out, err)
}

// Weight GET /api/users/{userId}/weight?range=30d
func (h *DashboardHandler) Weight(w http.ResponseWriter, r *http.Request) {
	n, ok := days(w, r, aggregate.DefaultWeightDays)
	if !ok {
		return
	}
	out, err := h.engine.Weight(r.Context(), mux.Vars(r)["userId"], n)
	h.write(w, r, out, err)
}

// Wellness GET /api/users/{userId}/wellness?range=7d
func (h *DashboardHandler) Wellness(w http.ResponseWriter, r *http.Request) {
	n, ok := days(w, r, aggregate.DefaultKPIDays)
	if !ok {
		return
	}
	out, err := h.engine.Wellness(r.Context(), mux.Vars(r)["userId"], n)
	h.write(w, r, out, err)
}

// Workouts GET /api/users/{userId}/workouts?range=7d
func (h *DashboardHandler) Workouts(w http.ResponseWriter, r *http.Request) {
	n, ok := days(w, r, aggregate.DefaultKPIDays)
	if !ok {
		return
	}
	out, err := h.engine.Workouts(r.Context(), mux.Vars(r)["userId"], n)
	h.write(w, r, out, err)
}

// Daily GET /api/users/{userId}/daily?date=2025-01-14
func (h *DashboardHandler) Daily(w http.ResponseWriter, r *http.Request) {
	out, err := h.engine.Daily(r.Context(), mux.Vars(r)["userId"], h.date(r))
	h.write(w, r, out, err)
}

// Dates GET /api/users/{userId}/dates?range=7d
func (h *DashboardHandler) Dates(w http.ResponseWriter, r *http.Request) {
	n, ok := days(w, r, aggregate.DefaultKPIDays)
	if !ok {
		return
	}
	out, err := h.engine.LoggedDates(r.Context(), mux.Vars(r)["userId"], n)
	h.write(w, r, out, err)
}

// LogHistory GET /api/users/{userId}/log-history?range=30d&type=meal
func (h *DashboardHandler) LogHistory(w http.ResponseWriter, r *http.Request) {
	n, ok := days(w, r, aggregate.DefaultHistoryDays)
	if !ok {
		return
	}
	filter := r.URL.Query().Get("type")
	if filter == "" {
		filter = aggregate.HistoryAll
	}
	out, err := h.engine.LogHistory(r.Context(), mux.Vars(r)["userId"], n, filter)
	h.write(w, r, out, err)
}

// Exercises GET /api/users/{userId}/exercises?range=30d
func (h *DashboardHandler) Exercises(w http.ResponseWriter, r *http.Request) {
	n, ok := days(w, r, aggregate.DefaultExerciseDays)
	if !ok {
		return
	}
	out, err := h.engine.Exercises(r.Context(), mux.Vars(r)["userId"], n)
	h.write(w, r, out, err)
}

// ExerciseNames GET /api/users/{userId}/exercise-names
func (h *DashboardHandler) ExerciseNames(w http.ResponseWriter, r *http.Request) {
	out, err := h.engine.ExerciseNames(r.Context(), mux.Vars(r)["userId"])
	h.write(w, r, out, err)
}

// ExerciseHistory GET /api/users/{userId}/exercise-history?name=bench&range=90d
func (h *DashboardHandler) ExerciseHistory(w http.ResponseWriter, r *http.Request) {
	n, ok := days(w, r, aggregate.DefaultExerciseHistoryDays)
	if !ok {
		return
	}
	out, err := h.engine.ExerciseHistory(r.Context(), mux.Vars(r)["userId"], r.URL.Query().Get("name"), n)
	h.write(w, r, out, err)
}

// ExercisePRs GET /api/users/{userId}/exercise-prs
func (h *DashboardHandler) ExercisePRs(w http.ResponseWriter, r *http.Request) {
	out, err := h.engine.ExercisePRs(r.Context(), mux.Vars(r)["userId"])
	h.write(w, r, out, err)
}

// Summary GET /api/users/{userId}/summary?date=2025-01-14
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	out, err := h.engine.Summary(r.Context(), mux.Vars(r)["userId"], h.date(r))
	h.write(w, r, out, err)
}
