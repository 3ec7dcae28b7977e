package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with application-specific methods
type Logger struct {
	zerolog.Logger
}

// New creates a new Logger instance writing to stdout
func New(level string, format string) *Logger {
	return NewWithWriter(os.Stdout, level, format)
}

// NewWithWriter creates a Logger writing to w
func NewWithWriter(w io.Writer, level string, format string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	var logger zerolog.Logger

	if format == "text" || format == "console" {
		// Human-readable output for development
		output := zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
		logger = zerolog.New(output).Level(lvl).With().Timestamp().Caller().Logger()
	} else {
		// JSON output for production
		logger = zerolog.New(w).Level(lvl).With().Timestamp().Caller().Logger()
	}

	return &Logger{Logger: logger}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// WithRunID returns a new logger with the batch run ID attached
func (l *Logger) WithRunID(runID string) *Logger {
	return &Logger{
		Logger: l.With().Str("run_id", runID).Logger(),
	}
}

// WithSubscriber returns a new logger with the subscriber ID and redacted
// address attached
func (l *Logger) WithSubscriber(id int64, email string) *Logger {
	return &Logger{
		Logger: l.With().Int64("subscriber_id", id).Str("email", RedactEmail(email)).Logger(),
	}
}

// WithComponent returns a new logger with the component name attached
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.With().Str("component", component).Logger(),
	}
}

// Outcome logs the final state of one subscriber in a dispatch run
func (l *Logger) Outcome(subscriberID int64, decision, outcome string, lastSentUpdated bool, metadata map[string]interface{}) {
	event := l.Info().
		Str("audit", "true").
		Int64("subscriber_id", subscriberID).
		Str("decision", decision).
		Str("outcome", outcome).
		Bool("last_sent_updated", lastSentUpdated)

	if metadata != nil {
		event.Interface("metadata", metadata)
	}

	event.Msg("subscriber processed")
}

// HTTPRequest logs an HTTP request on the operational endpoint
func (l *Logger) HTTPRequest(method, path string, statusCode int, duration time.Duration, requestID string) {
	l.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", statusCode).
		Dur("duration", duration).
		Str("request_id", requestID).
		Msg("HTTP request")
}

// RedactEmail masks an email address for safe logging.
// "john.doe@example.com" → "jo***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}
