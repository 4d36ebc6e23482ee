package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/advisor"
	"github.com/spigell/ats-scorer/internal/ai/gemini"
	"github.com/spigell/ats-scorer/internal/analysis"
	"github.com/spigell/ats-scorer/internal/secrets"
	"github.com/spigell/ats-scorer/internal/similarity"
	"github.com/spigell/ats-scorer/internal/skills"
	"github.com/spigell/ats-scorer/internal/taxonomy"
)

const providerNone = "none"

func loadIndex(cfg *TaxonomyConfig, logger *zap.Logger) (*taxonomy.Index, error) {
	if cfg == nil {
		cfg = &TaxonomyConfig{}
	}

	var (
		tax *taxonomy.Taxonomy
		err error
	)
	if file := strings.TrimSpace(cfg.File); file != "" {
		tax, err = taxonomy.LoadFile(file)
	} else {
		tax, err = taxonomy.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}

	return taxonomy.Resolve(tax, taxonomy.WithStrict(cfg.Strict), taxonomy.WithLogger(logger))
}

func newExtractor(config *Config, logger *zap.Logger) (*skills.Extractor, error) {
	idx, err := loadIndex(config.Taxonomy, logger)
	if err != nil {
		return nil, err
	}

	fuzzy := skills.DefaultConfig()
	if config.Matching != nil {
		fuzzy = config.Matching.Fuzzy
	}

	extractor, err := skills.NewExtractor(idx, fuzzy, logger)
	if err != nil {
		return nil, fmt.Errorf("matching.fuzzy: %w", err)
	}

	return extractor, nil
}

// newSimilarity returns nil when no provider is configured.
func newSimilarity(cfg *SimilarityConfig, logger *zap.Logger) (*similarity.Scorer, string, error) {
	if cfg == nil {
		return nil, providerNone, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", providerNone:
		return nil, providerNone, nil
	case gemini.ProviderName:
	default:
		return nil, provider, fmt.Errorf("unsupported similarity provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	// The client is built on first use so commands that never score
	// similarity do not need an API key.
	lazy := similarity.Lazy(func(ctx context.Context) (similarity.Provider, error) {
		apiKey, err := geminiAPIKey(gcfg)
		if err != nil {
			return nil, err
		}

		embedder, err := gemini.NewEmbedder(ctx, apiKey, gemini.Options{
			Model:        gcfg.Model,
			MaxRetries:   gcfg.MaxRetries,
			MaxLogLength: gcfg.MaxLogLength,
		}, logger)
		if err != nil {
			return nil, err
		}
		return embedder, nil
	})

	return similarity.New(lazy, logger), provider, nil
}

// geminiAPIKey resolves the key from the key file, the inline config value or
// GEMINI_API_KEY, in that order.
func geminiAPIKey(cfg *GeminiConfig) (string, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.APIKeyFile,
		Value: cfg.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return "", fmt.Errorf("%w (set similarity.gemini.api-key, similarity.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}
	return apiKey, nil
}

func newEngine(config *Config, logger *zap.Logger) (*analysis.Engine, error) {
	extractor, err := newExtractor(config, logger)
	if err != nil {
		return nil, err
	}

	scorer, provider, err := newSimilarity(config.Similarity, logger)
	if err != nil {
		return nil, err
	}

	cfg := analysis.DefaultConfig()
	if config.Scoring != nil {
		cfg.SemanticWeight = config.Scoring.SemanticWeight
	}
	if config.Similarity != nil {
		cfg.SimilarityTimeout = config.Similarity.Timeout
		cfg.RequireSimilarity = config.Similarity.Require
	}

	return analysis.New(analysis.Deps{
		Extractor:    extractor,
		Similarity:   scorer,
		Advisor:      advisor.New(logger),
		Logger:       logger,
		ProviderName: provider,
	}, cfg)
}
