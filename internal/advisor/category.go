package advisor

import (
	"fmt"
	"strings"
)

// Category groups suggestions so consumers can filter them.
type Category string

const (
	CategoryMetrics   Category = "metrics"
	CategoryVerbs     Category = "verbs"
	CategoryStructure Category = "structure"
	CategoryLength    Category = "length"
	CategorySkills    Category = "skills"
	CategoryGeneral   Category = "general"
)

// Categories lists every category in rule evaluation order.
func Categories() []Category {
	return []Category{
		CategoryMetrics,
		CategoryVerbs,
		CategoryStructure,
		CategoryLength,
		CategorySkills,
		CategoryGeneral,
	}
}

// ParseCategory resolves a category name, ignoring case.
func ParseCategory(s string) (Category, error) {
	name := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range Categories() {
		if c == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown suggestion category %q", s)
}

// Suggestion is one piece of feedback for the résumé author.
type Suggestion struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// Filter keeps the suggestions in one of the given categories. With no
// categories it returns a copy of all suggestions.
func Filter(suggestions []Suggestion, categories ...Category) []Suggestion {
	out := make([]Suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		if len(categories) == 0 || contains(categories, s.Category) {
			out = append(out, s)
		}
	}
	return out
}

func contains(categories []Category, c Category) bool {
	for _, v := range categories {
		if v == c {
			return true
		}
	}
	return false
}
