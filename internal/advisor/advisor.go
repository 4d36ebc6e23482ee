// Package advisor turns résumé measurements and skill gaps into ordered,
// categorized improvement suggestions.
package advisor

import (
	"slices"

	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/logger"
)

// Advisor evaluates its rules in order. It holds no per-call state.
type Advisor struct {
	rules  []Rule
	logger *zap.Logger
}

// New builds an Advisor with the given rules, or DefaultRules when none are
// passed.
func New(l *zap.Logger, rules ...Rule) *Advisor {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Advisor{
		rules:  rules,
		logger: logger.WithComponent(l, "advisor"),
	}
}

// Advise returns at least one suggestion. Missing skills are listed in sorted
// order.
func (a *Advisor) Advise(text string, missing []string) []Suggestion {
	signals := Collect(text)
	return a.AdviseSignals(signals, missing)
}

// AdviseSignals runs the rules on precomputed signals.
func (a *Advisor) AdviseSignals(signals Signals, missing []string) []Suggestion {
	missing = slices.Clone(missing)
	slices.Sort(missing)

	var out []Suggestion
	for _, rule := range a.rules {
		if s, ok := rule.Check(signals, missing); ok {
			out = append(out, s)
			a.logger.Debug("advisor rule fired", zap.String("rule", rule.Name()))
		}
	}

	if len(out) == 0 {
		out = append(out, fallback())
	}

	return out
}

// Advise runs the default rules.
func Advise(text string, missing []string) []Suggestion {
	return New(nil).Advise(text, missing)
}
