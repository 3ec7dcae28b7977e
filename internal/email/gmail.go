package email

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"strings"

	"github.com/polyphrases/polyphrases/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const mimeBoundary = "boundary_polyphrases_email"

// GmailSender implements Sender using the Gmail API.
type GmailSender struct {
	service       *gmail.Service
	senderAddress string
	senderName    string
}

// NewGmailSender creates a new GmailSender.
// With a refresh token it authenticates as the sender mailbox through
// OAuth2 client credentials. Otherwise it expects service account
// credentials with domain-wide delegation and impersonates the sender.
func NewGmailSender(ctx context.Context, cfg config.EmailConfig) (*GmailSender, error) {
	if cfg.SenderAddress == "" {
		return nil, fmt.Errorf("gmail: sender address is required")
	}

	if cfg.Gmail.RefreshToken != "" {
		return newGmailSenderWithToken(ctx, cfg)
	}

	if cfg.Gmail.CredentialsJSON == "" {
		return nil, fmt.Errorf("gmail: credentials JSON or refresh token is required")
	}

	jwtConfig, err := google.JWTConfigFromJSON([]byte(cfg.Gmail.CredentialsJSON), gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to parse credentials: %w", err)
	}
	jwtConfig.Subject = cfg.SenderAddress

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to create service: %w", err)
	}

	return &GmailSender{
		service:       svc,
		senderAddress: cfg.SenderAddress,
		senderName:    cfg.SenderName,
	}, nil
}

func newGmailSenderWithToken(ctx context.Context, cfg config.EmailConfig) (*GmailSender, error) {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.Gmail.ClientID,
		ClientSecret: cfg.Gmail.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmail.GmailSendScope},
	}

	client := oauthCfg.Client(ctx, &oauth2.Token{RefreshToken: cfg.Gmail.RefreshToken})

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to create service: %w", err)
	}

	return &GmailSender{
		service:       svc,
		senderAddress: cfg.SenderAddress,
		senderName:    cfg.SenderName,
	}, nil
}

// Send sends an email via the Gmail API.
func (g *GmailSender) Send(ctx context.Context, msg Message) error {
	if err := checkHeaderValue(msg.To); err != nil {
		return err
	}
	raw := buildMIME(formatFrom(g.senderName, g.senderAddress), msg)

	gmailMsg := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	_, err := g.service.Users.Messages.Send("me", gmailMsg).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail: failed to send email: %w", err)
	}

	return nil
}

func formatFrom(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", name), address)
}

// buildMIME renders msg as an RFC 5322 message. Both parts present yields
// multipart/alternative with the text part first.
// checkHeaderValue rejects recipients that would break out of their header line
func checkHeaderValue(to string) error {
	if strings.ContainsAny(to, "\r\n") {
		return fmt.Errorf("gmail: recipient %q contains a line break", to)
	}
	return nil
}

func buildMIME(from string, msg Message) string {
	headers := []string{
		"From: " + from,
		"To: " + msg.To,
		"Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject),
		"MIME-Version: 1.0",
	}

	var lines []string
	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		lines = append(headers,
			"Content-Type: multipart/alternative; boundary="+mimeBoundary,
			"",
			"--"+mimeBoundary,
			"Content-Type: text/plain; charset=UTF-8",
			"Content-Transfer-Encoding: 8bit",
			"",
			msg.TextBody,
			"",
			"--"+mimeBoundary,
			"Content-Type: text/html; charset=UTF-8",
			"Content-Transfer-Encoding: 8bit",
			"",
			msg.HTMLBody,
			"",
			"--"+mimeBoundary+"--",
		)
	case msg.HTMLBody != "":
		lines = append(headers,
			"Content-Type: text/html; charset=UTF-8",
			"",
			msg.HTMLBody,
		)
	default:
		lines = append(headers,
			"Content-Type: text/plain; charset=UTF-8",
			"",
			msg.TextBody,
		)
	}

	return strings.Join(lines, "\r\n")
}
