package api

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ryan-kosiba/nutriclaude/internal/api/respond"
)

// HealthHandler handles health check endpoints
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// global health flag (1 = healthy, 0 = unhealthy)
var healthyFlag atomic.Int32

// BindServiceHealth allows run.go to inject the service health function.
var serviceIsHealthy func() bool = func() bool { return healthyFlag.Load() == 1 }

var componentHealth func() map[string]bool = func() map[string]bool { return nil }

func BindServiceHealth(f func() bool) { serviceIsHealthy = f }

// BindComponentHealth exposes per-dependency status in the health body.
func BindComponentHealth(f func() map[string]bool) { componentHealth = f }

// CheckHealth handles GET /api/health
// Always returns 200; body reports healthy/unhealthy. 500 indicates handler failure only.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "unhealthy"
	if serviceIsHealthy() {
		status = "healthy"
	}
	response := map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
	}
	if c := componentHealth(); len(c) > 0 {
		response["components"] = c
	}
	respond.WriteJSON(w, http.StatusOK, response)
}
