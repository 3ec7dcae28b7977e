package email

import (
	"context"

	"github.com/polyphrases/polyphrases/internal/logger"
)

// LogSender writes messages to the log instead of delivering them. Used
// for local development.
type LogSender struct {
	log *logger.Logger
}

// NewLogSender creates a LogSender
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log.WithComponent("email")}
}

// Send logs the message envelope
func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info().
		Str("to", logger.RedactEmail(msg.To)).
		Str("subject", msg.Subject).
		Int("html_bytes", len(msg.HTMLBody)).
		Int("text_bytes", len(msg.TextBody)).
		Msg("email not delivered (log provider)")
	s.log.Debug().Str("to", logger.RedactEmail(msg.To)).Msg(msg.TextBody)
	return nil
}

// RedirectSender delivers every message to a fixed address, keeping the
// original recipient in the log.
type RedirectSender struct {
	next Sender
	to   string
	log  *logger.Logger
}

// NewRedirectSender wraps next so that all mail goes to the given address
func NewRedirectSender(next Sender, to string, log *logger.Logger) *RedirectSender {
	return &RedirectSender{next: next, to: to, log: log.WithComponent("email")}
}

// Send rewrites the recipient and forwards the message
func (s *RedirectSender) Send(ctx context.Context, msg Message) error {
	s.log.Debug().
		Str("original_to", logger.RedactEmail(msg.To)).
		Str("redirect_to", logger.RedactEmail(s.to)).
		Msg("redirecting email")
	msg.To = s.to
	return s.next.Send(ctx, msg)
}
