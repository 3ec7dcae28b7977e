package model

// Language is one of the fixed set of translation languages
type Language struct {
	Code   string
	Name   string
	Column string
}

// Supported translation languages, in rendering order
var (
	Spanish    = Language{Code: "es", Name: "Spanish", Column: "spanish"}
	German     = Language{Code: "de", Name: "German", Column: "german"}
	Italian    = Language{Code: "it", Name: "Italian", Column: "italian"}
	French     = Language{Code: "fr", Name: "French", Column: "french"}
	Portuguese = Language{Code: "pt", Name: "Portuguese", Column: "portuguese"}
	Norwegian  = Language{Code: "no", Name: "Norwegian", Column: "norwegian"}
)

// Languages lists every supported language in the order translation blocks
// are rendered. Repositories also scan language columns in this order.
var Languages = []Language{Spanish, German, Italian, French, Portuguese, Norwegian}

// LanguageSet is a set of opted-in languages keyed by language code
type LanguageSet map[string]bool

// Has reports whether the language is in the set
func (s LanguageSet) Has(lang Language) bool {
	return s[lang.Code]
}
