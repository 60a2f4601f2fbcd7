package api

import (
	"github.com/gorilla/mux"

	"github.com/ryan-kosiba/nutriclaude/internal/api/recovery"
	"github.com/ryan-kosiba/nutriclaude/internal/metrics"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Intake    *IntakeHandler
	Dashboard *DashboardHandler
	Entries   *EntryHandler
	Health    *HealthHandler
}

// NewRouter mounts all API routes with panic recovery and request metrics.
func NewRouter(h Handlers) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware)
	root.Use(metrics.Middleware)

	// Health and metrics
	root.HandleFunc("/api/health", h.Health.CheckHealth).Methods("GET")
	root.Handle("/metrics", metrics.Handler()).Methods("GET")

	u := root.PathPrefix("/api/users/{userId}").Subrouter()

	// Intake and confirmation
	u.HandleFunc("/messages", h.Intake.PostMessage).Methods("POST")
	u.HandleFunc("/pending/{pendingId}", h.Intake.GetPending).Methods("GET")
	u.HandleFunc("/pending/{pendingId}/confirm", h.Intake.Confirm).Methods("POST")
	u.HandleFunc("/pending/{pendingId}/reject", h.Intake.Reject).Methods("POST")

	// Dashboard
	d := h.Dashboard
	u.HandleFunc("/kpis", d.KPIs).Methods("GET")
	u.HandleFunc("/meals", d.Meals).Methods("GET")
	u.HandleFunc("/calorie-balance", d.CalorieBalance).Methods("GET")
	u.HandleFunc("/weight", d.Weight).Methods("GET")
	u.HandleFunc("/wellness", d.Wellness).Methods("GET")
	u.HandleFunc("/workouts", d.Workouts).Methods("GET")
	u.HandleFunc("/daily", d.Daily).Methods("GET")
	u.HandleFunc("/dates", d.Dates).Methods("GET")
	u.HandleFunc("/log-history", d.LogHistory).Methods("GET")
	u.HandleFunc("/exercises", d.Exercises).Methods("GET")
	u.HandleFunc("/exercise-names", d.ExerciseNames).Methods("GET")
	u.HandleFunc("/exercise-history", d.ExerciseHistory).Methods("GET")
	u.HandleFunc("/exercise-prs", d.ExercisePRs).Methods("GET")
	u.HandleFunc("/summary", d.Summary).Methods("GET")

	// Entries and goals
	u.HandleFunc("/entries/{kind}/{id}", h.Entries.GetEntry).Methods("GET")
	u.HandleFunc("/entries/{kind}/{id}", h.Entries.UpdateEntry).Methods("PUT")
	u.HandleFunc("/entries/{kind}/{id}", h.Entries.DeleteEntry).Methods("DELETE")
	u.HandleFunc("/goals", h.Entries.GetGoals).Methods("GET")
	u.HandleFunc("/goals", h.Entries.PutGoals).Methods("PUT")

	return root
}
