package handler

import (
	"net/http"

	"github.com/polyphrases/polyphrases/internal/scheduler"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Services map[string]string `json:"services"`
}

// StatusResponse lists the scheduled jobs
type StatusResponse struct {
	Version string                `json:"version"`
	Jobs    []scheduler.RunStatus `json:"jobs"`
}

// Health returns the health status of the process and its stores
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	services := make(map[string]string)

	if err := h.db.HealthCheck(ctx); err != nil {
		h.log.Warn().Err(err).Msg("postgres health check failed")
		services["postgres"] = "unhealthy"
	} else {
		services["postgres"] = "healthy"
	}

	if h.rdb != nil {
		if err := h.rdb.HealthCheck(ctx); err != nil {
			h.log.Warn().Err(err).Msg("redis health check failed")
			services["redis"] = "unhealthy"
		} else {
			services["redis"] = "healthy"
		}
	}

	status := "healthy"
	for _, s := range services {
		if s == "unhealthy" {
			status = "degraded"
			break
		}
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:   status,
		Version:  h.version,
		Services: services,
	})
}

// Ready reports whether the stores needed by the jobs are reachable
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.HealthCheck(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}

	if h.rdb != nil {
		if err := h.rdb.HealthCheck(ctx); err != nil {
			http.Error(w, "redis not ready", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Status returns the schedule and the outcome of each job's last run
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Version: h.version,
		Jobs:    h.jobs.Status(),
	})
}
