// Package scoring compares skill sets and blends the result with the semantic
// score into the final ATS score.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/spigell/ats-scorer/internal/skills"
)

// DefaultSemanticWeight is the share of the semantic score in the blend.
const DefaultSemanticWeight = 0.55

// ErrInvalidParameter reports a blend weight outside [0, 1].
var ErrInvalidParameter = errors.New("invalid scoring parameter")

// MatchResult is the outcome of comparing job description skills against
// résumé skills.
type MatchResult struct {
	Overlap float64  `json:"skill_overlap"`
	Matched []string `json:"matched_skills"`
	Missing []string `json:"missing_skills"`
}

// Match reports which job description skills the résumé covers. Matched and
// Missing partition jd and are sorted.
func Match(jd, resume skills.Set) MatchResult {
	if jd.Len() == 0 {
		return MatchResult{Matched: []string{}, Missing: []string{}}
	}

	matched := jd.Intersect(resume).Sorted()
	missing := jd.Difference(resume).Sorted()

	return MatchResult{
		Overlap: Round1(100 * float64(len(matched)) / float64(jd.Len())),
		Matched: matched,
		Missing: missing,
	}
}

// ValidateWeight checks that w is a usable semantic weight.
func ValidateWeight(w float64) error {
	if math.IsNaN(w) || w < 0 || w > 1 {
		return fmt.Errorf("%w: semantic weight %v is outside [0,1]", ErrInvalidParameter, w)
	}
	return nil
}

// Blend combines the semantic and overlap scores, both expected in [0, 100].
func Blend(semantic, overlap, weight float64) (float64, error) {
	if err := ValidateWeight(weight); err != nil {
		return 0, err
	}
	return Round1(semantic*weight + overlap*(1-weight)), nil
}

// Clamp limits v to [0, 100] and rounds it to one decimal.
func Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return Round1(math.Max(0, math.Min(100, v)))
}

// Round1 rounds to one decimal, halves to even: 6.25 becomes 6.2.
func Round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
