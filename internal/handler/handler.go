// Package handler serves the operational endpoints of the long-running
// schedule mode.
package handler

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/polyphrases/polyphrases/internal/logger"
	"github.com/polyphrases/polyphrases/internal/scheduler"
)

// HealthChecker is a dependency that can report its health.
// Implemented by database.Postgres and database.Redis.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StatusProvider exposes scheduled job state. Implemented by
// scheduler.Scheduler.
type StatusProvider interface {
	Status() []scheduler.RunStatus
}

// Handler holds all HTTP handlers
type Handler struct {
	db      HealthChecker
	rdb     HealthChecker
	jobs    StatusProvider
	log     *logger.Logger
	version string
}

// New creates a new Handler instance. rdb may be nil when Redis is not
// configured.
func New(db, rdb HealthChecker, jobs StatusProvider, log *logger.Logger, version string) *Handler {
	return &Handler{
		db:      db,
		rdb:     rdb,
		jobs:    jobs,
		log:     log.WithComponent("http"),
		version: version,
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
