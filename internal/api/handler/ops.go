// Package handler provides HTTP handlers for the flight routes API.
package handler

import (
	"context"
	"net/http"

	"github.com/flightroutes/flightroutes/internal/api/models"
	"github.com/flightroutes/flightroutes/internal/api/response"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	database  Pinger
}

// NewOpsHandler creates a new OpsHandler. database may be nil when no
// readiness dependency exists (e.g. in-memory deployments).
func NewOpsHandler(version, buildTime string, database Pinger) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		database:  database,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.HealthResponse{
		Status:    models.HealthStatusOK,
		Version:   h.version,
		BuildTime: h.buildTime,
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]models.HealthStatus{}
	status := models.HealthStatusOK

	if h.database != nil {
		if err := h.database.Ping(r.Context()); err != nil {
			checks["database"] = models.HealthStatusFail
			status = models.HealthStatusFail
		} else {
			checks["database"] = models.HealthStatusOK
		}
	}

	code := http.StatusOK
	if status != models.HealthStatusOK {
		code = http.StatusServiceUnavailable
	}

	response.JSON(w, r, code, models.ReadinessResponse{
		Status: status,
		Checks: checks,
	})
}
