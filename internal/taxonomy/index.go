package taxonomy

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/logger"
)

// ErrAliasCollision is returned in strict mode when two canonical skills
// generate the same variant.
var ErrAliasCollision = errors.New("alias collision")

// Variant is one generated spelling and the canonical skill it resolves to.
type Variant struct {
	Text      string
	Canonical string
	Matcher   Matcher
}

// Collision records a variant claimed by more than one canonical skill.
// Winner is the later-declared entry that kept it.
type Collision struct {
	Variant  string
	Previous string
	Winner   string
}

// Index maps every generated variant to its canonical skill. It is built once
// and never mutated, so it is safe for concurrent use.
type Index struct {
	byVariant  map[string]string
	variants   []Variant
	aliases    map[string][]string
	canonical  []string
	collisions []Collision
}

type options struct {
	strict bool
	logger *zap.Logger
}

// Option configures Resolve.
type Option func(*options)

// WithStrict makes Resolve fail on alias collisions instead of letting the
// later entry win.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithLogger sets the logger used to report the resolved index.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Resolve expands the taxonomy into an alias index.
func Resolve(t *Taxonomy, opts ...Option) (*Index, error) {
	if t == nil || t.Len() == 0 {
		return nil, fmt.Errorf("%w: taxonomy is empty", ErrInvalidTaxonomy)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	log := logger.WithComponent(o.logger, "taxonomy")

	idx := &Index{
		byVariant: make(map[string]string),
		aliases:   make(map[string][]string, t.Len()),
		canonical: make([]string, 0, t.Len()),
	}

	for _, entry := range t.entries {
		idx.canonical = append(idx.canonical, entry.Name)
		idx.aliases[entry.Name] = append([]string(nil), entry.Aliases...)

		terms := append([]string{entry.Name}, entry.Aliases...)
		for _, term := range terms {
			for _, v := range GenerateVariants(term) {
				prev, ok := idx.byVariant[v]
				if ok && prev != entry.Name {
					if o.strict {
						return nil, fmt.Errorf("%w: %q generated by both %q and %q", ErrAliasCollision, v, prev, entry.Name)
					}
					idx.collisions = append(idx.collisions, Collision{Variant: v, Previous: prev, Winner: entry.Name})
					log.Warn("alias variant reassigned to later entry",
						zap.String("variant", v),
						zap.String("previous", prev),
						zap.String("winner", entry.Name),
					)
				}
				idx.byVariant[v] = entry.Name
			}
		}
	}

	idx.variants = make([]Variant, 0, len(idx.byVariant))
	for text, canonical := range idx.byVariant {
		idx.variants = append(idx.variants, Variant{Text: text, Canonical: canonical, Matcher: Compile(text)})
	}
	slices.SortFunc(idx.variants, func(a, b Variant) int { return strings.Compare(a.Text, b.Text) })
	slices.Sort(idx.canonical)

	log.Info("taxonomy resolved",
		zap.Int("skills", len(idx.canonical)),
		zap.Int("variants", len(idx.variants)),
		zap.Int("collisions", len(idx.collisions)),
	)

	return idx, nil
}

// Resolve returns the canonical skill for an already normalized variant.
func (i *Index) Resolve(variant string) (string, bool) {
	c, ok := i.byVariant[variant]
	return c, ok
}

// Canonical returns the canonical skill names, sorted.
func (i *Index) Canonical() []string {
	return slices.Clone(i.canonical)
}

// Aliases returns the declared aliases of a canonical skill.
func (i *Index) Aliases(canonical string) []string {
	return slices.Clone(i.aliases[canonical])
}

// Variants returns every variant sorted by text. The returned slice must not be modified.
func (i *Index) Variants() []Variant {
	return i.variants
}

// Collisions returns the variants that were reassigned while resolving.
func (i *Index) Collisions() []Collision {
	return slices.Clone(i.collisions)
}

// Len returns the number of variants.
func (i *Index) Len() int {
	return len(i.variants)
}
