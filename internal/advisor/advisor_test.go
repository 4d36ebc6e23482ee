package advisor

import (
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func categories(suggestions []Suggestion) []Category {
	out := make([]Category, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, s.Category)
	}
	return out
}

// strongResume passes every rule: metrics, verbs, headings and length.
func strongResume() string {
	var b strings.Builder
	b.WriteString("summary\nwork experience\nprojects\neducation\nskills\ncertifications\n")
	b.WriteString("built a platform serving 120 customers. designed apis with 35% lower latency. ")
	b.WriteString("implemented billing for 4 regions. launched mobile app. automated releases. ")
	b.WriteString(strings.Repeat("collaborated with product teams on roadmap planning ", 50))
	return b.String()
}

func TestAdviseFallback(t *testing.T) {
	got := Advise(strongResume(), nil)
	if len(got) != 1 || got[0].Category != CategoryGeneral {
		t.Fatalf("expected single general suggestion, got %+v", got)
	}
}

func TestAdviseNeverEmpty(t *testing.T) {
	inputs := []string{"", "   ", strongResume(), "built"}
	for _, in := range inputs {
		if got := Advise(in, nil); len(got) == 0 {
			t.Fatalf("expected at least one suggestion for %q", in)
		}
	}
}

func TestAdviseLongResumeOrder(t *testing.T) {
	text := "built " + strings.Repeat("word ", 1199)

	got := categories(Advise(text, []string{"node.js"}))
	expect := []Category{CategoryMetrics, CategoryVerbs, CategoryStructure, CategoryLength, CategorySkills}
	if !slices.Equal(got, expect) {
		t.Fatalf("expected %v, got %v", expect, got)
	}
	if slices.Contains(got, CategoryGeneral) {
		t.Fatalf("general must not appear when other rules fired")
	}
}

func TestAdviseSkills(t *testing.T) {
	missing := []string{"terraform", "aws", "node.js", "go", "kafka", "redis", "graphql", "docker"}

	var skills []Suggestion
	for _, s := range Advise(strongResume(), missing) {
		if s.Category == CategorySkills {
			skills = append(skills, s)
		}
	}

	if len(skills) != 1 {
		t.Fatalf("expected one skills suggestion, got %d", len(skills))
	}

	expect := "Emphasize missing role-specific skills: aws, docker, go, graphql, kafka, node.js."
	if skills[0].Message != expect {
		t.Fatalf("unexpected message: %q", skills[0].Message)
	}
}

func TestAdviseStructureListsFirstFourMissing(t *testing.T) {
	text := "skills\n" + strongResume()[len("summary\nwork experience\nprojects\neducation\nskills\ncertifications\n"):]

	got := Filter(Advise(text, nil), CategoryStructure)
	if len(got) != 1 {
		t.Fatalf("expected one structure suggestion, got %+v", got)
	}

	expect := "Add or standardize sections: summary, experience, work experience, projects."
	if got[0].Message != expect {
		t.Fatalf("unexpected message: %q", got[0].Message)
	}
}

func TestAdviseLength(t *testing.T) {
	short := Filter(Advise("built", nil), CategoryLength)
	if len(short) != 1 || !strings.Contains(short[0].Message, "short") {
		t.Fatalf("expected short length suggestion, got %+v", short)
	}

	long := Filter(Advise(strings.Repeat("word ", 1001), nil), CategoryLength)
	if len(long) != 1 || !strings.Contains(long[0].Message, "long") {
		t.Fatalf("expected long length suggestion, got %+v", long)
	}

	if got := Filter(Advise(strings.Repeat("word ", 500), nil), CategoryLength); len(got) != 0 {
		t.Fatalf("expected no length suggestion, got %+v", got)
	}
}

func TestCollect(t *testing.T) {
	text := "Summary\n- Built 3 services\n- Reduced costs by 35%\n- Deployment was automated\nSkills: Go 1.22"

	s := Collect(text)
	if s.Metrics != 3 {
		t.Fatalf("expected 3 metrics, got %d", s.Metrics)
	}
	if s.Verbs != 3 {
		t.Fatalf("expected 3 verbs (built, reduced, automated), got %d", s.Verbs)
	}
	if s.PassiveHits != 1 {
		t.Fatalf("expected 1 passive hit, got %d", s.PassiveHits)
	}
	if s.Bullets != 4 || s.BulletsWithNumbers != 3 {
		t.Fatalf("unexpected bullet counts: %d total, %d with numbers", s.Bullets, s.BulletsWithNumbers)
	}

	expect := []string{"experience", "work experience", "projects", "education", "certifications"}
	if !slices.Equal(s.MissingHeadings, expect) {
		t.Fatalf("expected missing %v, got %v", expect, s.MissingHeadings)
	}
}

func TestVerbsMatchWholeWords(t *testing.T) {
	if got := Collect("rebuilt ledger leadership").Verbs; got != 0 {
		t.Fatalf("expected no whole-word verbs, got %d", got)
	}
}

func TestCustomRules(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	always := RuleFunc{RuleName: "always", Fn: func(Signals, []string) (Suggestion, bool) {
		return Suggestion{Category: CategoryVerbs, Message: "custom"}, true
	}}

	got := New(zap.New(core), always).Advise("", nil)
	if len(got) != 1 || got[0].Message != "custom" {
		t.Fatalf("unexpected suggestions: %+v", got)
	}

	if n := logs.FilterMessage("advisor rule fired").FilterField(zap.String("rule", "always")).Len(); n != 1 {
		t.Fatalf("expected one rule log entry, got %d", n)
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(strings.ToUpper(string(c)))
		if err != nil || got != c {
			t.Fatalf("ParseCategory(%q) = %q, %v", c, got, err)
		}
	}

	if _, err := ParseCategory("tone"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestFilter(t *testing.T) {
	all := []Suggestion{
		{Category: CategoryMetrics, Message: "a"},
		{Category: CategorySkills, Message: "b"},
		{Category: CategoryMetrics, Message: "c"},
	}

	if got := Filter(all, CategoryMetrics); len(got) != 2 || got[1].Message != "c" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
	if got := Filter(all); len(got) != 3 {
		t.Fatalf("expected all suggestions without categories, got %d", len(got))
	}
}
