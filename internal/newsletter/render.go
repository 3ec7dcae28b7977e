package newsletter

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"github.com/polyphrases/polyphrases/internal/model"
)

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin:0;padding:16px;font-family:Helvetica,Arial,sans-serif;">
<h1 style="color: {{.Accent}};">Today's Phrase</h1>
<p style="font-size:16px;padding:15px;background-color:{{.Accent}};color:#FFF;border-radius:8px;">{{.Phrase}}</p>
{{template "hr"}}
{{range .Translations}}<p><strong>{{.Name}}:</strong> {{.Text}}</p>
{{end}}{{template "hr"}}
<p>{{.Message}}</p>
<p><a href="{{.ChallengeURL}}" style="display:inline-block;box-sizing:border-box;text-align:center;width:100%;max-width:600px;background-color:#fff;text-decoration:none;padding:10px 16px;border-radius:5px;border:3px solid {{.Accent}};font-size:16px;font-family:Helvetica,sans-serif;font-weight:bold;color:{{.Accent}};line-height:16px;">Open Today's Challenge! {{.Emoji}}</a></p>
{{template "hr"}}
<p><i>Don't just ignore this. Take your time to learn the new vocabulary, a small step a day makes wonders!</i></p>
{{if .ImageURL}}<img src="{{.ImageURL}}" alt="Descriptive image for this phrase" style="width:100%;max-width:600px;height:auto;border-radius:8px;">
{{end}}{{template "hr"}}
<p>{{.SiteName}} | Day: <i>{{.Today}}</i></p>
<p style="margin-top:30px;font-size:11px;color:#555;">
{{.MailingAddress}} - <a href="{{.UnsubscribeURL}}" title="Unsubscribe from {{.SiteName}}">Unsubscribe</a>
</p>
</body>
</html>
{{define "hr"}}<hr style="margin: 2rem 0; border: none; border-top: 1px solid #ddd;">{{end}}`))

// Email is a fully rendered newsletter message
type Email struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Translation is one rendered language block
type Translation struct {
	Name string
	Text string
}

type emailData struct {
	Accent         template.CSS
	Phrase         string
	Translations   []Translation
	Message        string
	Emoji          string
	ChallengeURL   template.URL
	ImageURL       template.URL
	SiteName       string
	Today          string
	MailingAddress string
	UnsubscribeURL template.URL
}

// Translations returns the translation blocks the subscriber opted into, in
// the fixed language order. A language the phrase lacks renders empty.
func Translations(p *model.Phrase, s *model.Subscriber) []Translation {
	var blocks []Translation
	for _, lang := range model.Languages {
		if s.Languages.Has(lang) {
			blocks = append(blocks, Translation{Name: lang.Name, Text: p.Translation(lang)})
		}
	}
	return blocks
}

// ChallengeURL links to the day's practice page
func ChallengeURL(run RunConfig, p *model.Phrase, subscriberID int64, token string) string {
	return fmt.Sprintf("%s/%s?from=email&id=%s&token=%s",
		run.SiteURL, p.DateKey(), strconv.FormatInt(subscriberID, 10), url.QueryEscape(token))
}

// UnsubscribeURL links to the one-click unsubscribe action
func UnsubscribeURL(run RunConfig, subscriberID int64, token string) string {
	return fmt.Sprintf("%s/?id=%s&token=%s&action=unsubscribe",
		run.SiteURL, strconv.FormatInt(subscriberID, 10), url.QueryEscape(token))
}

// Compose renders the newsletter for one subscriber. imageURL is empty when
// the phrase has no stored illustration.
func Compose(run RunConfig, p *model.Phrase, s *model.Subscriber, e Engagement, token, imageURL string) (*Email, error) {
	data := emailData{
		Accent:         template.CSS(run.AccentColor),
		Phrase:         p.Text,
		Translations:   Translations(p, s),
		Message:        e.Text,
		Emoji:          e.Emoji,
		ChallengeURL:   template.URL(ChallengeURL(run, p, s.ID, token)),
		ImageURL:       template.URL(imageURL),
		SiteName:       run.SiteName,
		Today:          run.TodayKey(),
		MailingAddress: run.MailingAddress,
		UnsubscribeURL: template.URL(UnsubscribeURL(run, s.ID, token)),
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render email: %w", err)
	}
	html := buf.String()

	return &Email{
		To:      s.Email,
		Subject: p.Text,
		HTML:    html,
		Text:    PlainText(html),
	}, nil
}
