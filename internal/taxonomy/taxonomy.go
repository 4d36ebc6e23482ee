// Package taxonomy resolves the static skill taxonomy into an immutable alias
// index used by the extractor.
package taxonomy

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

//go:embed skills.yaml
var defaultTaxonomy []byte

// ErrInvalidTaxonomy reports malformed or missing taxonomy data.
var ErrInvalidTaxonomy = errors.New("invalid taxonomy")

const entriesKey = "skills"

// Entry is one canonical skill with its declared aliases.
type Entry struct {
	Name    string   `mapstructure:"name" json:"name"`
	Aliases []string `mapstructure:"aliases" json:"aliases,omitempty"`
}

// Taxonomy is an ordered, immutable list of entries.
type Taxonomy struct {
	entries []Entry
}

// New validates entries and returns a taxonomy holding a private copy of them.
// Canonical names are trimmed; blank aliases are dropped.
func New(entries []Entry) (*Taxonomy, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no skills declared", ErrInvalidTaxonomy)
	}

	seen := make(map[string]int, len(entries))
	out := make([]Entry, 0, len(entries))
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: entry %d has an empty name", ErrInvalidTaxonomy, i)
		}

		key := strings.ToLower(name)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %q declared twice (entries %d and %d)", ErrInvalidTaxonomy, name, prev, i)
		}
		seen[key] = i

		aliases := make([]string, 0, len(e.Aliases))
		for _, a := range e.Aliases {
			if a = strings.TrimSpace(a); a != "" {
				aliases = append(aliases, a)
			}
		}

		out = append(out, Entry{Name: name, Aliases: aliases})
	}

	return &Taxonomy{entries: out}, nil
}

// Default returns the taxonomy compiled into the binary.
func Default() (*Taxonomy, error) {
	return Load(bytes.NewReader(defaultTaxonomy), "yaml")
}

// LoadFile reads a YAML or JSON taxonomy file. The format is taken from the extension.
func LoadFile(path string) (*Taxonomy, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open taxonomy file: %w", err)
	}
	defer f.Close()

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "yml" {
		format = "yaml"
	}

	t, err := Load(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Load decodes a taxonomy document of the given format ("yaml" or "json").
// The document holds a top-level "skills" list of {name, aliases} objects.
func Load(r io.Reader, format string) (*Taxonomy, error) {
	switch format {
	case "yaml", "json":
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidTaxonomy, format)
	}

	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTaxonomy, err)
	}

	raw := v.Get(entriesKey)
	if raw == nil {
		return nil, fmt.Errorf("%w: missing %q list", ErrInvalidTaxonomy, entriesKey)
	}

	var entries []Entry
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &entries,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTaxonomy, err)
	}

	return New(entries)
}

// Entries returns a copy of the entries in declaration order.
func (t *Taxonomy) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	for i, e := range t.entries {
		out[i] = Entry{Name: e.Name, Aliases: append([]string(nil), e.Aliases...)}
	}
	return out
}

// Len returns the number of canonical skills.
func (t *Taxonomy) Len() int {
	return len(t.entries)
}
