package advisor

import (
	"regexp"
	"strings"
)

// ActionVerbs is the closed set of verbs that count as strong openers.
var ActionVerbs = []string{
	"built", "created", "designed", "developed", "engineered", "implemented",
	"launched", "led", "migrated", "optimized", "reduced", "improved",
	"automated", "architected", "delivered", "scaled", "streamlined",
	"initiated", "enhanced",
}

// Headings is the closed set of standard résumé headings, in reporting order.
var Headings = []string{
	"summary", "experience", "work experience", "projects", "education",
	"skills", "certifications",
}

var (
	reNumber  = regexp.MustCompile(`\b\d+(\.\d+)?%?\b`)
	reBullets = regexp.MustCompile(`\n[-•*]\s*`)
	rePassive = regexp.MustCompile(`(?i)\b(was|were|been|being|is|are|be)\s+\w+ed\b`)

	verbPatterns    = wordPatterns(ActionVerbs)
	headingPatterns = wordPatterns(Headings)
)

func wordPatterns(words []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		out[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return out
}

// Signals are the document measurements the rules look at.
type Signals struct {
	Metrics            int      `json:"metrics"`
	Verbs              int      `json:"verbs"`
	Words              int      `json:"words"`
	MissingHeadings    []string `json:"missing_headings"`
	Bullets            int      `json:"bullets"`
	BulletsWithNumbers int      `json:"bullets_with_numbers"`
	PassiveHits        int      `json:"passive_hits"`
}

// Collect measures text.
func Collect(text string) Signals {
	s := Signals{
		Metrics:         len(reNumber.FindAllString(text, -1)),
		Words:           len(strings.Fields(text)),
		PassiveHits:     len(rePassive.FindAllString(text, -1)),
		MissingHeadings: []string{},
	}

	for _, re := range verbPatterns {
		if re.MatchString(text) {
			s.Verbs++
		}
	}

	for i, re := range headingPatterns {
		if !re.MatchString(text) {
			s.MissingHeadings = append(s.MissingHeadings, Headings[i])
		}
	}

	for _, b := range reBullets.Split(text, -1) {
		if strings.TrimSpace(b) == "" {
			continue
		}
		s.Bullets++
		if reNumber.MatchString(b) {
			s.BulletsWithNumbers++
		}
	}

	return s
}
