package middleware

import (
	"net/http"

	"github.com/polyphrases/polyphrases/internal/logger"
)

// Middleware holds all HTTP middleware
type Middleware struct {
	log *logger.Logger
}

// New creates a new Middleware instance
func New(log *logger.Logger) *Middleware {
	return &Middleware{
		log: log.WithComponent("http"),
	}
}

// Chain applies the standard middleware stack, outermost first
func (m *Middleware) Chain(next http.Handler) http.Handler {
	return m.Recover(m.RequestID(m.Logger(next)))
}
