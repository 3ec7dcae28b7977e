package newsletter

import (
	"html"
	"strings"
	"unicode"

	"github.com/gookit/validate"
	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// ValidAddress reports whether s is a well-formed email address. The stored
// value is checked as is: surrounding whitespace or control characters make
// it invalid since it is used verbatim as a header value.
func ValidAddress(s string) bool {
	if strings.IndexFunc(s, func(r rune) bool { return unicode.IsSpace(r) || unicode.IsControl(r) }) >= 0 {
		return false
	}
	return validate.IsEmail(s)
}

// PlainText strips markup from a rendered email to build the text/plain
// alternative part
func PlainText(body string) string {
	stripped := html.UnescapeString(strictPolicy.Sanitize(body))

	var lines []string
	for _, line := range strings.Split(stripped, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n\n")
}
