package caption

import (
	"regexp"
	"strings"
)

var bracketAnnotation = regexp.MustCompile(`\[[^\]]*\]`)

// Normalize removes bracketed annotations such as [Music], collapses runs of
// whitespace to one space and trims the result.
func Normalize(text string) string {
	text = bracketAnnotation.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}
