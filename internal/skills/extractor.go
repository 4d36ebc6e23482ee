// Package skills finds canonical taxonomy skills in free text.
package skills

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/logger"
	"github.com/spigell/ats-scorer/internal/taxonomy"
)

var (
	// ErrInvalidThreshold reports fuzzy matching parameters out of range.
	ErrInvalidThreshold = errors.New("invalid fuzzy matching parameter")
	// ErrUnknownScorer reports an unsupported fuzzy scorer name.
	ErrUnknownScorer = errors.New("unknown fuzzy scorer")
)

const (
	DefaultThreshold = 92
	DefaultMinLength = 4
	DefaultMaxHits   = 1
)

// Config tunes the fuzzy fallback pass.
type Config struct {
	FuzzyEnabled bool    `mapstructure:"enabled"`
	Threshold    float64 `mapstructure:"threshold" validate:"gte=0,lte=100"`
	Scorer       string  `mapstructure:"scorer" validate:"omitempty,oneof=ratio partial token-set jaro-winkler"`
	MinLength    int     `mapstructure:"min-length" validate:"gte=1"`
	MaxHits      int     `mapstructure:"max-hits" validate:"gte=1"`
}

// DefaultConfig is a conservative fuzzy setup: ratio scorer at 92.
func DefaultConfig() Config {
	return Config{
		FuzzyEnabled: true,
		Threshold:    DefaultThreshold,
		Scorer:       ScorerRatio,
		MinLength:    DefaultMinLength,
		MaxHits:      DefaultMaxHits,
	}
}

// Validate checks parameter ranges.
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 100 {
		return fmt.Errorf("%w: threshold %v is outside [0,100]", ErrInvalidThreshold, c.Threshold)
	}
	if c.MinLength < 1 {
		return fmt.Errorf("%w: min length %d must be positive", ErrInvalidThreshold, c.MinLength)
	}
	if c.MaxHits < 1 {
		return fmt.Errorf("%w: max hits %d must be positive", ErrInvalidThreshold, c.MaxHits)
	}
	if _, err := ScorerByName(c.Scorer); err != nil {
		return err
	}
	return nil
}

// Extractor finds canonical skills in text. It only reads the index and its
// own configuration, so one Extractor serves concurrent callers.
type Extractor struct {
	index  *taxonomy.Index
	cfg    Config
	scorer Scorer
	logger *zap.Logger
}

// NewExtractor validates cfg and binds it to the alias index.
func NewExtractor(index *taxonomy.Index, cfg Config, l *zap.Logger) (*Extractor, error) {
	if index == nil {
		return nil, errors.New("alias index is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scorer, err := ScorerByName(cfg.Scorer)
	if err != nil {
		return nil, err
	}

	return &Extractor{
		index:  index,
		cfg:    cfg,
		scorer: scorer,
		logger: logger.WithComponent(l, "extractor"),
	}, nil
}

// Extract returns the exact-pass skills plus whatever the fuzzy pass adds.
func (e *Extractor) Extract(text string) Set {
	normalized := Normalize(text)
	if normalized == "" {
		return NewSet()
	}

	exact := e.exact(normalized)
	if !e.cfg.FuzzyEnabled {
		return exact
	}

	fuzzy := e.fuzzy(normalized, exact)
	found := exact.Union(fuzzy)

	e.logger.Debug("skills extracted",
		zap.Int("exact", exact.Len()),
		zap.Int("fuzzy_added", fuzzy.Len()),
		zap.Strings("skills", found.Sorted()),
	)

	return found
}

// Exact runs every variant matcher against the normalized text.
func (e *Extractor) Exact(text string) Set {
	return e.exact(Normalize(text))
}

// Fuzzy runs only the fuzzy pass, skipping canonicals already in exclude.
func (e *Extractor) Fuzzy(text string, exclude Set) Set {
	return e.fuzzy(Normalize(text), exclude)
}

func (e *Extractor) exact(normalized string) Set {
	found := NewSet()
	if normalized == "" {
		return found
	}

	for _, v := range e.index.Variants() {
		if found.Has(v.Canonical) {
			continue
		}
		if v.Matcher.MatchString(normalized) {
			found.Add(v.Canonical)
		}
	}
	return found
}

func (e *Extractor) fuzzy(normalized string, exclude Set) Set {
	found := NewSet()
	tokens := Tokens(normalized, e.cfg.MinLength)
	if len(tokens) == 0 {
		return found
	}

	for _, v := range e.index.Variants() {
		if len(v.Text) < e.cfg.MinLength || exclude.Has(v.Canonical) || found.Has(v.Canonical) {
			continue
		}

		hits := 0
		for _, tok := range tokens {
			score := e.scorer(v.Text, tok)
			if score < e.cfg.Threshold {
				continue
			}

			e.logger.Debug("fuzzy skill match",
				zap.String("variant", v.Text),
				zap.String("token", tok),
				zap.String("canonical", v.Canonical),
				zap.Float64("score", score),
			)
			found.Add(v.Canonical)

			hits++
			if hits >= e.cfg.MaxHits {
				break
			}
		}
	}
	return found
}
