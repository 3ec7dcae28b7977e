package email

import (
	"context"
	"fmt"

	"github.com/polyphrases/polyphrases/internal/awsclient"
	"github.com/polyphrases/polyphrases/internal/config"
	"github.com/polyphrases/polyphrases/internal/logger"
)

// Sender is the interface that all email providers must implement.
// This abstraction allows swapping email providers (Gmail, SES, log-only)
// without changing the dispatch logic.
type Sender interface {
	// Send sends an email to the specified recipient.
	Send(ctx context.Context, msg Message) error
}

// Message represents an email message to be sent.
type Message struct {
	To       string // recipient email address
	Subject  string // email subject
	HTMLBody string // HTML email body
	TextBody string // plain-text fallback body
}

// NewSender builds the configured transport. Outside production every
// message is redirected to the site admin address.
func NewSender(ctx context.Context, cfg *config.Config, log *logger.Logger) (Sender, error) {
	var (
		sender Sender
		err    error
	)

	switch cfg.Email.Provider {
	case "gmail":
		sender, err = NewGmailSender(ctx, cfg.Email)
	case "ses":
		awsCfg, loadErr := awsclient.Load(ctx, cfg.AWS)
		if loadErr != nil {
			return nil, loadErr
		}
		sender, err = NewSESSender(awsCfg, cfg.Email.SenderAddress, cfg.Email.SenderName)
	case "log", "":
		if cfg.IsProduction() {
			return nil, fmt.Errorf("email provider %q does not deliver mail in production", cfg.Email.Provider)
		}
		sender = NewLogSender(log)
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Email.Provider)
	}
	if err != nil {
		return nil, err
	}

	if !cfg.IsProduction() {
		sender = NewRedirectSender(sender, cfg.Site.AdminEmail, log)
	}
	return sender, nil
}
