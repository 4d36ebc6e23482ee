package taxonomy

import "strings"

// Matcher finds a variant in normalized text as a whole token. A "." glued to
// an alphanumeric neighbour extends the token, so "java" does not match
// "javascript" and "js" does not match "node.js", while "aws." at the end of a
// sentence still matches. Any other non-alphanumeric byte is a boundary, so
// "python" matches inside "python-based".
type Matcher struct {
	text string
}

// Compile prepares the matcher for a normalized variant.
func Compile(variant string) Matcher {
	return Matcher{text: variant}
}

// Text returns the variant the matcher looks for.
func (m Matcher) Text() string {
	return m.text
}

// MatchString reports whether the variant occurs in s on token boundaries.
func (m Matcher) MatchString(s string) bool {
	if m.text == "" {
		return false
	}

	for off := 0; off+len(m.text) <= len(s); {
		i := strings.Index(s[off:], m.text)
		if i < 0 {
			return false
		}

		start := off + i
		end := start + len(m.text)
		if leftBoundary(s, start) && rightBoundary(s, end) {
			return true
		}
		off = start + 1
	}

	return false
}

func leftBoundary(s string, start int) bool {
	if start == 0 {
		return true
	}

	prev := s[start-1]
	switch {
	case isAlnum(prev):
		return false
	case prev == '.':
		return start-2 < 0 || !isAlnum(s[start-2])
	default:
		return true
	}
}

func rightBoundary(s string, end int) bool {
	if end == len(s) {
		return true
	}

	next := s[end]
	switch {
	case isAlnum(next):
		return false
	case next == '.':
		return end+1 >= len(s) || !isAlnum(s[end+1])
	default:
		return true
	}
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
