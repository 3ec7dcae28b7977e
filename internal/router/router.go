package router

import (
	"net/http"

	"github.com/polyphrases/polyphrases/internal/handler"
	"github.com/polyphrases/polyphrases/internal/middleware"
)

// New creates the operational HTTP router
func New(h *handler.Handler, mw *middleware.Middleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /ready", h.Ready)
	mux.HandleFunc("GET /status", h.Status)

	return mw.Chain(mux)
}
