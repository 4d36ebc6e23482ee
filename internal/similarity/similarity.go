// Package similarity turns a provider's cosine similarity into a 0..100
// semantic score.
package similarity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/logger"
)

// ErrUnavailable is returned when the provider cannot produce a score.
var ErrUnavailable = errors.New("scoring unavailable")

// Provider computes the cosine similarity of two texts in [-1, 1].
type Provider interface {
	Cosine(ctx context.Context, a, b string) (float64, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, a, b string) (float64, error)

func (f ProviderFunc) Cosine(ctx context.Context, a, b string) (float64, error) {
	return f(ctx, a, b)
}

// Scorer wraps a Provider with clamping and rounding.
type Scorer struct {
	provider Provider
	logger   *zap.Logger
}

func New(provider Provider, l *zap.Logger) *Scorer {
	return &Scorer{
		provider: provider,
		logger:   logger.WithComponent(l, "similarity"),
	}
}

// Similarity returns the semantic score of a against b in [0, 100] with one
// decimal. Blank input scores 0 without reaching the provider.
func (s *Scorer) Similarity(ctx context.Context, a, b string) (float64, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0, nil
	}
	if s == nil || s.provider == nil {
		return 0, fmt.Errorf("%w: no similarity provider configured", ErrUnavailable)
	}

	cos, err := s.provider.Cosine(ctx, a, b)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if math.IsNaN(cos) || math.IsInf(cos, 0) {
		return 0, fmt.Errorf("%w: provider returned %v", ErrUnavailable, cos)
	}

	score := FromCosine(cos)
	s.logger.Debug("semantic similarity computed",
		zap.Float64("cosine", cos),
		zap.Float64("score", score),
	)

	return score, nil
}

// FromCosine maps a cosine value to a 0..100 score: negative similarity is
// treated as no similarity.
func FromCosine(cos float64) float64 {
	cos = math.Max(-1, math.Min(1, cos))
	cos = math.Max(0, cos)
	return math.RoundToEven(cos*1000) / 10
}

// CosineVectors computes the cosine similarity of two embeddings.
func CosineVectors(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, errors.New("empty embedding")
	}
	if len(a) != len(b) {
		return 0, fmt.Errorf("embedding dimensions differ: %d != %d", len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0, errors.New("zero-length embedding vector")
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}
