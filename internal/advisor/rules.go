package advisor

import (
	"fmt"
	"strings"
)

const (
	minMetrics        = 3
	minVerbs          = 5
	maxListedHeadings = 4
	minWords          = 250
	maxWords          = 1000
	maxListedSkills   = 6
)

// Rule inspects the signals and the skill gap and may produce a suggestion.
type Rule interface {
	Name() string
	Check(s Signals, missing []string) (Suggestion, bool)
}

// RuleFunc adapts a function to Rule.
type RuleFunc struct {
	RuleName string
	Fn       func(s Signals, missing []string) (Suggestion, bool)
}

func (r RuleFunc) Name() string { return r.RuleName }

func (r RuleFunc) Check(s Signals, missing []string) (Suggestion, bool) {
	return r.Fn(s, missing)
}

// DefaultRules returns the built-in rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		RuleFunc{RuleName: "metrics", Fn: checkMetrics},
		RuleFunc{RuleName: "verbs", Fn: checkVerbs},
		RuleFunc{RuleName: "structure", Fn: checkStructure},
		RuleFunc{RuleName: "length", Fn: checkLength},
		RuleFunc{RuleName: "skills", Fn: checkSkills},
	}
}

func checkMetrics(s Signals, _ []string) (Suggestion, bool) {
	if s.Metrics >= minMetrics {
		return Suggestion{}, false
	}
	return Suggestion{
		Category: CategoryMetrics,
		Message:  "Add quantifiable metrics (e.g., “reduced load time by 35%”, “handled 1M+ requests/day”).",
	}, true
}

func checkVerbs(s Signals, _ []string) (Suggestion, bool) {
	if s.Verbs >= minVerbs {
		return Suggestion{}, false
	}
	return Suggestion{
		Category: CategoryVerbs,
		Message:  "Start bullets with strong action verbs (built, optimized, delivered, automated, scaled).",
	}, true
}

func checkStructure(s Signals, _ []string) (Suggestion, bool) {
	if len(s.MissingHeadings) == 0 {
		return Suggestion{}, false
	}
	return Suggestion{
		Category: CategoryStructure,
		Message:  fmt.Sprintf("Add or standardize sections: %s.", strings.Join(head(s.MissingHeadings, maxListedHeadings), ", ")),
	}, true
}

func checkLength(s Signals, _ []string) (Suggestion, bool) {
	switch {
	case s.Words < minWords:
		return Suggestion{
			Category: CategoryLength,
			Message:  "Resume seems short; add 3–5 bullets per recent role with impact & technologies.",
		}, true
	case s.Words > maxWords:
		return Suggestion{
			Category: CategoryLength,
			Message:  "Resume is long; trim older roles and keep bullets concise (1–2 lines).",
		}, true
	default:
		return Suggestion{}, false
	}
}

func checkSkills(_ Signals, missing []string) (Suggestion, bool) {
	if len(missing) == 0 {
		return Suggestion{}, false
	}
	return Suggestion{
		Category: CategorySkills,
		Message:  "Emphasize missing role-specific skills: " + strings.Join(head(missing, maxListedSkills), ", ") + ".",
	}, true
}

func fallback() Suggestion {
	return Suggestion{
		Category: CategoryGeneral,
		Message:  "Great alignment. Mirror top JD keywords in your top bullets and add 2–3 hard metrics.",
	}
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
