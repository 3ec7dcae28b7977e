package email

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/polyphrases/polyphrases/internal/config"
	"github.com/polyphrases/polyphrases/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestBuildMIME_Multipart(t *testing.T) {
	raw := buildMIME("Poly Phrases <hello@polyphrases.com>", Message{
		To:       "ana@example.com",
		Subject:  "Où est la gare?",
		HTMLBody: "<p>hi</p>",
		TextBody: "hi",
	})

	assert.Contains(t, raw, "To: ana@example.com\r\n")
	assert.Contains(t, raw, "Subject: =?utf-8?q?")
	assert.Contains(t, raw, "multipart/alternative; boundary="+mimeBoundary)

	textAt := strings.Index(raw, "text/plain")
	htmlAt := strings.Index(raw, "text/html")
	require.True(t, textAt > 0 && htmlAt > 0)
	assert.Less(t, textAt, htmlAt)
	assert.True(t, strings.HasSuffix(raw, "--"+mimeBoundary+"--"))
}

func TestCheckHeaderValue(t *testing.T) {
	assert.NoError(t, checkHeaderValue("ana@example.com"))
	assert.Error(t, checkHeaderValue("ana@example.com\n"))
	assert.Error(t, checkHeaderValue("ana@example.com\r\nBcc: eve@example.com"))
}

func TestBuildMIME_HTMLOnly(t *testing.T) {
	raw := buildMIME("hello@polyphrases.com", Message{To: "a@b.co", Subject: "Hi", HTMLBody: "<p>hi</p>"})
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8")
	assert.NotContains(t, raw, "multipart")
}

func TestFormatFrom(t *testing.T) {
	assert.Equal(t, "hello@polyphrases.com", formatFrom("", "hello@polyphrases.com"))
	assert.Equal(t, "Poly Phrases <hello@polyphrases.com>", formatFrom("Poly Phrases", "hello@polyphrases.com"))
}

func TestSESSender_Send(t *testing.T) {
	fake := &fakeSES{}
	s := &SESSender{client: fake, senderAddress: "hello@polyphrases.com", senderName: "Poly Phrases"}

	err := s.Send(context.Background(), Message{To: "ana@example.com", Subject: "Hola", HTMLBody: "<p>x</p>", TextBody: "x"})
	require.NoError(t, err)

	require.NotNil(t, fake.input)
	assert.Equal(t, "Poly Phrases <hello@polyphrases.com>", aws.ToString(fake.input.FromEmailAddress))
	assert.Equal(t, []string{"ana@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "Hola", aws.ToString(fake.input.Content.Simple.Subject.Data))
	assert.Equal(t, "<p>x</p>", aws.ToString(fake.input.Content.Simple.Body.Html.Data))
	assert.Equal(t, "x", aws.ToString(fake.input.Content.Simple.Body.Text.Data))
}

func TestSESSender_SendError(t *testing.T) {
	s := &SESSender{client: &fakeSES{err: errors.New("throttled")}, senderAddress: "hello@polyphrases.com"}

	err := s.Send(context.Background(), Message{To: "ana@example.com", Subject: "Hola", HTMLBody: "<p>x</p>"})
	assert.ErrorContains(t, err, "throttled")
}

func TestRedirectSender(t *testing.T) {
	next := &recordingSender{}
	s := NewRedirectSender(next, "admin@polyphrases.com", logger.Nop())

	require.NoError(t, s.Send(context.Background(), Message{To: "ana@example.com", Subject: "Hola"}))
	require.Len(t, next.sent, 1)
	assert.Equal(t, "admin@polyphrases.com", next.sent[0].To)
	assert.Equal(t, "Hola", next.sent[0].Subject)
}

func TestRedirectSender_PropagatesError(t *testing.T) {
	next := &recordingSender{err: errors.New("boom")}
	s := NewRedirectSender(next, "admin@polyphrases.com", logger.Nop())
	assert.Error(t, s.Send(context.Background(), Message{To: "ana@example.com"}))
}

func TestLogSender_RedactsRecipient(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(logger.NewWithWriter(&buf, "info", "json"))

	require.NoError(t, s.Send(context.Background(), Message{To: "ana.maria@example.com", Subject: "Hola"}))
	assert.Contains(t, buf.String(), "an***@example.com")
	assert.NotContains(t, buf.String(), "ana.maria@example.com")
}

func TestNewSender(t *testing.T) {
	cfg := &config.Config{
		Environment: config.EnvDevelopment,
		Site:        config.SiteConfig{AdminEmail: "admin@polyphrases.com"},
		Email:       config.EmailConfig{Provider: "log"},
	}

	s, err := NewSender(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, &RedirectSender{}, s)

	cfg.Environment = config.EnvProduction
	_, err = NewSender(context.Background(), cfg, logger.Nop())
	assert.Error(t, err, "log sender must not be used in production")

	cfg.Email.Provider = ""
	_, err = NewSender(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)

	cfg.Email.Provider = "carrier-pigeon"
	_, err = NewSender(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}
