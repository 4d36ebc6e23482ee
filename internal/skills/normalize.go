package skills

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	reHyphens    = regexp.MustCompile(`[\x{2010}-\x{2015}]`)
	reDisallowed = regexp.MustCompile(`[^a-z0-9.+#/\- ]+`)
	reSpaces     = regexp.MustCompile(`\s+`)
	reTokens     = regexp.MustCompile(`[a-z0-9.+#/\-]+`)
)

// Normalize lower-cases text, maps Unicode dashes to "-", replaces everything
// outside [a-z0-9 . + # / -] with spaces and collapses whitespace. Résumé and
// job description text go through the same function.
func Normalize(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	// A Caser keeps state, so one per call.
	text = cases.Lower(language.Und).String(text)
	text = reHyphens.ReplaceAllString(text, "-")
	text = reDisallowed.ReplaceAllString(text, " ")
	text = reSpaces.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// Tokens returns the distinct tokens of normalized text that are at least
// minLen bytes long, sorted.
func Tokens(normalized string, minLen int) []string {
	seen := make(Set)
	for _, tok := range reTokens.FindAllString(normalized, -1) {
		if len(tok) >= minLen {
			seen.Add(tok)
		}
	}

	return seen.Sorted()
}
