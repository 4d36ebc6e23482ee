package skills

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

const (
	ScorerRatio       = "ratio"
	ScorerPartial     = "partial"
	ScorerTokenSet    = "token-set"
	ScorerJaroWinkler = "jaro-winkler"
)

// Scorer rates the similarity of two strings on a 0..100 scale.
type Scorer func(a, b string) float64

// ScorerByName returns one of the built-in scorers.
func ScorerByName(name string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ScorerRatio:
		return Ratio, nil
	case ScorerPartial:
		return PartialRatio, nil
	case ScorerTokenSet:
		return TokenSetRatio, nil
	case ScorerJaroWinkler:
		return JaroWinkler, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScorer, name)
	}
}

// Scorers lists the names accepted by ScorerByName.
func Scorers() []string {
	return []string{ScorerRatio, ScorerPartial, ScorerTokenSet, ScorerJaroWinkler}
}

// Ratio is the normalized indel similarity: 2*LCS / (len(a)+len(b)) * 100.
func Ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	return 200 * float64(edlib.LCS(a, b)) / float64(total)
}

// PartialRatio is the best Ratio of the shorter string against every window
// of the same length in the longer one.
func PartialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		if len(long) == 0 {
			return 100
		}
		return 0
	}

	s := string(short)
	best := 0.0
	for i := 0; i+len(short) <= len(long); i++ {
		if r := Ratio(s, string(long[i:i+len(short)])); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// TokenSetRatio compares the shared tokens of a and b with each side's
// remainder and returns the best Ratio among those combinations.
func TokenSetRatio(a, b string) float64 {
	ta, tb := NewSet(splitTokens(a)...), NewSet(splitTokens(b)...)
	if ta.Len() == 0 || tb.Len() == 0 {
		if ta.Len() == tb.Len() {
			return 100
		}
		return 0
	}

	sect := strings.Join(ta.Intersect(tb).Sorted(), " ")
	diffA := strings.Join(ta.Difference(tb).Sorted(), " ")
	diffB := strings.Join(tb.Difference(ta).Sorted(), " ")

	if sect != "" && (diffA == "" || diffB == "") {
		return 100
	}

	combA := strings.TrimSpace(sect + " " + diffA)
	combB := strings.TrimSpace(sect + " " + diffB)

	scores := []float64{Ratio(combA, combB)}
	if sect != "" {
		scores = append(scores, Ratio(sect, combA), Ratio(sect, combB))
	}
	return slices.Max(scores)
}

// JaroWinkler scales the Jaro-Winkler similarity to 0..100.
func JaroWinkler(a, b string) float64 {
	return float64(edlib.JaroWinklerSimilarity(a, b)) * 100
}

func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '.' || r == '-' || r == '/'
	})
}
