// Package sections finds standard résumé headings. The result only decorates
// the report; scoring never depends on it.
package sections

import (
	"regexp"
	"slices"
	"strings"
)

// Known lists the recognised headings. Longer headings come first so
// "work experience" wins over "experience" on the same line.
var Known = []string{
	"professional summary",
	"work experience",
	"certifications",
	"experience",
	"education",
	"projects",
	"summary",
	"skills",
	"awards",
}

var reHeading = buildHeadingPattern()

func buildHeadingPattern() *regexp.Regexp {
	alts := make([]string, len(Known))
	for i, h := range Known {
		alts[i] = strings.ReplaceAll(regexp.QuoteMeta(h), " ", `\s+`)
	}
	// A heading occupies its own line, optionally followed by a colon.
	return regexp.MustCompile(`(?im)^[ \t#*]*(` + strings.Join(alts, "|") + `)[ \t]*:?[ \t*]*$`)
}

// Detect returns the sorted distinct headings found on their own lines.
func Detect(text string) []string {
	found := []string{}
	for _, m := range reHeading.FindAllStringSubmatch(text, -1) {
		h := canonical(m[1])
		if !slices.Contains(found, h) {
			found = append(found, h)
		}
	}
	slices.Sort(found)
	return found
}

// Split returns the body under each heading. Text before the first heading is
// stored under the empty key. A repeated heading keeps its bodies joined by a
// blank line.
func Split(text string) map[string]string {
	out := map[string]string{}
	locs := reHeading.FindAllStringSubmatchIndex(text, -1)

	add := func(key, body string) {
		body = strings.TrimSpace(body)
		if body == "" {
			if _, ok := out[key]; !ok && key != "" {
				out[key] = ""
			}
			return
		}
		if prev, ok := out[key]; ok && prev != "" {
			body = prev + "\n\n" + body
		}
		out[key] = body
	}

	if len(locs) == 0 {
		add("", text)
		return out
	}

	add("", text[:locs[0][0]])
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		add(canonical(text[loc[2]:loc[3]]), text[loc[1]:end])
	}

	return out
}

func canonical(h string) string {
	return strings.Join(strings.Fields(strings.ToLower(h)), " ")
}
