package model

import "time"

// DateLayout is the calendar date format used for phrase dates, image keys
// and links
const DateLayout = "2006-01-02"

// Phrase is the learning content for one calendar day
type Phrase struct {
	ID           int64             `json:"id"`
	Date         time.Time         `json:"date"`
	Text         string            `json:"phrase"`
	Translations map[string]string `json:"translations"` // keyed by language code
	HasImage     bool              `json:"hasImage"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// Translation returns the phrase text for the language, or "" when the
// phrase carries no translation for it
func (p *Phrase) Translation(lang Language) string {
	return p.Translations[lang.Code]
}

// DateKey returns the phrase date formatted as YYYY-MM-DD
func (p *Phrase) DateKey() string {
	return p.Date.Format(DateLayout)
}
