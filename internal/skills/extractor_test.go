package skills

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/spigell/ats-scorer/internal/taxonomy"
)

func defaultIndex(t *testing.T) *taxonomy.Index {
	t.Helper()

	tax, err := taxonomy.Default()
	if err != nil {
		t.Fatalf("load default taxonomy: %v", err)
	}
	idx, err := taxonomy.Resolve(tax)
	if err != nil {
		t.Fatalf("resolve taxonomy: %v", err)
	}
	return idx
}

func newExtractor(t *testing.T, idx *taxonomy.Index, cfg Config) *Extractor {
	t.Helper()

	e, err := NewExtractor(idx, cfg, nil)
	if err != nil {
		t.Fatalf("new extractor: %v", err)
	}
	return e
}

func TestExtract(t *testing.T) {
	t.Parallel()

	e := newExtractor(t, defaultIndex(t), DefaultConfig())

	tests := []struct {
		name   string
		text   string
		expect []string
	}{
		{name: "aliases", text: "Experienced with Node.js and ReactJS", expect: []string{"node.js", "react"}},
		{name: "job description", text: "Looking for a React and Node.js developer with AWS experience", expect: []string{"aws", "node.js", "react"}},
		{name: "resume", text: "Built React.js apps, deployed on AWS", expect: []string{"aws", "react"}},
		{name: "canonical names", text: "JavaScript and TypeScript", expect: []string{"javascript", "typescript"}},
		{name: "multi word alias", text: "Deployed to Amazon Web Services via continuous integration", expect: []string{"aws", "ci/cd"}},
		{name: "unicode dash", text: "Owned the CI–CD pipeline", expect: []string{"ci/cd"}},
		{name: "sentence period", text: "Wrote services in Python.", expect: []string{"python"}},
		{name: "hyphenated compound", text: "Built Python-based microservices", expect: []string{"python"}},
		{name: "hyphenated acronym", text: "Shipped AWS-hosted services", expect: []string{"aws"}},
		{name: "dotted name in compound", text: "Wrote a Node.js-based backend", expect: []string{"node.js"}},
		{name: "several compounds", text: "Docker-compose and Kubernetes-native tooling", expect: []string{"docker", "kubernetes"}},
		{name: "empty", text: "", expect: []string{}},
		{name: "whitespace", text: "   \n", expect: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := e.Extract(tt.text).Sorted(); !slices.Equal(got, tt.expect) {
				t.Fatalf("Extract(%q) = %v, want %v", tt.text, got, tt.expect)
			}
		})
	}
}

func TestEveryAliasResolvesInSentence(t *testing.T) {
	idx := defaultIndex(t)
	e := newExtractor(t, idx, DefaultConfig())

	for _, canonical := range idx.Canonical() {
		for _, term := range append([]string{canonical}, idx.Aliases(canonical)...) {
			text := "Hands-on work with " + term + " in production"
			if !e.Extract(text).Has(canonical) {
				t.Fatalf("alias %q did not resolve to %q", term, canonical)
			}
		}
	}
}

func TestFuzzyFallback(t *testing.T) {
	tax, err := taxonomy.New([]taxonomy.Entry{{Name: "kubernetes", Aliases: []string{"k8s"}}})
	if err != nil {
		t.Fatalf("new taxonomy: %v", err)
	}
	idx, err := taxonomy.Resolve(tax)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	text := "Operated kubernets clusters"

	if got := newExtractor(t, idx, DefaultConfig()).Extract(text); !got.Has("kubernetes") {
		t.Fatalf("expected fuzzy pass to recover the typo, got %v", got.Sorted())
	}

	disabled := DefaultConfig()
	disabled.FuzzyEnabled = false
	if got := newExtractor(t, idx, disabled).Extract(text); got.Len() != 0 {
		t.Fatalf("expected no skills without fuzzy pass, got %v", got.Sorted())
	}

	strict := DefaultConfig()
	strict.Threshold = 99
	if got := newExtractor(t, idx, strict).Extract(text); got.Len() != 0 {
		t.Fatalf("expected threshold 99 to reject the typo, got %v", got.Sorted())
	}
}

func TestExactIsSubsetOfExtract(t *testing.T) {
	e := newExtractor(t, defaultIndex(t), DefaultConfig())

	texts := []string{
		"Built React.js apps, deployed on AWS",
		"Python, pandas, numpy and scikit-learn; some pytorch",
		"postgres / mongo db / mysql, kubernets, dockerr",
		"nothing relevant here at all",
		"",
	}

	for _, text := range texts {
		exact := e.Exact(text)
		full := e.Extract(text)
		if !exact.IsSubsetOf(full) {
			t.Fatalf("exact %v is not a subset of %v for %q", exact.Sorted(), full.Sorted(), text)
		}
		if fuzzy := e.Fuzzy(text, exact); !fuzzy.Union(exact).IsSubsetOf(full) {
			t.Fatalf("fuzzy hits missing from full result for %q", text)
		}
	}
}

func TestExtractConcurrent(t *testing.T) {
	e := newExtractor(t, defaultIndex(t), DefaultConfig())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := e.Extract("Docker and Kubernetes on GCP").Sorted(); !slices.Equal(got, []string{"docker", "gcp", "kubernetes"}) {
				t.Errorf("unexpected skills: %v", got)
			}
		}()
	}
	wg.Wait()
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		expect error
	}{
		{name: "negative threshold", mutate: func(c *Config) { c.Threshold = -1 }, expect: ErrInvalidThreshold},
		{name: "threshold above 100", mutate: func(c *Config) { c.Threshold = 101 }, expect: ErrInvalidThreshold},
		{name: "zero min length", mutate: func(c *Config) { c.MinLength = 0 }, expect: ErrInvalidThreshold},
		{name: "zero max hits", mutate: func(c *Config) { c.MaxHits = 0 }, expect: ErrInvalidThreshold},
		{name: "unknown scorer", mutate: func(c *Config) { c.Scorer = "soundex" }, expect: ErrUnknownScorer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.expect) {
				t.Fatalf("expected %v, got %v", tt.expect, err)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
}

func TestNewExtractorRequiresIndex(t *testing.T) {
	if _, err := NewExtractor(nil, DefaultConfig(), nil); err == nil {
		t.Fatal("expected error without index")
	}
}
