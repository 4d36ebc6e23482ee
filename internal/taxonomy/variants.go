package taxonomy

import (
	"slices"
	"strings"
)

const jsSuffix = "js"

// GenerateVariants returns the spellings under which term is recognised:
// the lower-cased term, its base form with "." and "-" read as spaces, and the
// base joined without spaces, with dots and with hyphens. A base ending in a
// bare "js" ("reactjs") also yields "react.js" and "react js".
func GenerateVariants(term string) []string {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return nil
	}

	set := map[string]struct{}{term: {}}
	add := func(v string) {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = struct{}{}
		}
	}

	base := strings.Join(strings.Fields(strings.NewReplacer(".", " ", "-", " ").Replace(term)), " ")
	add(base)
	add(strings.ReplaceAll(base, " ", ""))
	add(strings.ReplaceAll(base, " ", "."))
	add(strings.ReplaceAll(base, " ", "-"))

	if stem, ok := strings.CutSuffix(base, jsSuffix); ok && stem != "" && !strings.HasSuffix(stem, " ") {
		add(stem + "." + jsSuffix)
		add(stem + " " + jsSuffix)
	}

	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	slices.Sort(out)

	return out
}
