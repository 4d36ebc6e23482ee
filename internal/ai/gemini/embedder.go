// Package gemini provides a similarity provider backed by Gemini embeddings.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/ats-scorer/internal/logger"
	"github.com/spigell/ats-scorer/internal/similarity"
	"github.com/spigell/ats-scorer/internal/utils"
)

const (
	ProviderName = "gemini"

	defaultModel        = "text-embedding-004"
	defaultMaxRetries   = 3
	defaultMaxLogLength = 200
	taskType            = "SEMANTIC_SIMILARITY"

	baseBackoff   = 500 * time.Millisecond
	maxRetryDelay = 30 * time.Second
)

var (
	sleep = utils.WaitFor

	reRetryAfter = regexp.MustCompile(`(?i)retry (?:after|in) (\d+(?:\.\d+)?)\s*s`)
)

type contentEmbedder interface {
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

// Embedder scores texts by the cosine of their Gemini embeddings.
type Embedder struct {
	models     contentEmbedder
	model      string
	maxRetries int
	maxLogLen  int
	logger     *zap.Logger
}

// Options tunes an Embedder. Zero values pick the defaults.
type Options struct {
	Model        string
	MaxRetries   int
	MaxLogLength int
}

// NewEmbedder creates an Embedder for the Gemini API backend.
func NewEmbedder(ctx context.Context, apiKey string, opts Options, l *zap.Logger) (*Embedder, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return newEmbedder(client.Models, opts, l), nil
}

func newEmbedder(models contentEmbedder, opts Options, l *zap.Logger) *Embedder {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	retries := opts.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}
	maxLogLen := opts.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	return &Embedder{
		models:     models,
		model:      model,
		maxRetries: retries,
		maxLogLen:  maxLogLen,
		logger:     logger.WithCommonFields(l, ProviderName, model),
	}
}

// Model returns the embedding model name.
func (e *Embedder) Model() string {
	if e == nil {
		return ""
	}
	return e.model
}

// Cosine embeds a and b in a single request and compares the vectors.
func (e *Embedder) Cosine(ctx context.Context, a, b string) (float64, error) {
	if e == nil || e.models == nil {
		return 0, errors.New("gemini embedder is not initialized")
	}

	e.logger.Debug("gemini embed content request",
		zap.Int("resume_length", utf8.RuneCountInString(a)),
		zap.Int("job_length", utf8.RuneCountInString(b)),
		zap.String("resume_preview", utils.TruncateForLog(a, e.maxLogLen)),
		zap.String("job_preview", utils.TruncateForLog(b, e.maxLogLen)),
	)

	resp, err := e.embedWithRetry(ctx, append(genai.Text(a), genai.Text(b)...))
	if err != nil {
		return 0, err
	}

	if resp == nil || len(resp.Embeddings) != 2 || resp.Embeddings[0] == nil || resp.Embeddings[1] == nil {
		return 0, errors.New("gemini api returned an unexpected number of embeddings")
	}

	cos, err := similarity.CosineVectors(resp.Embeddings[0].Values, resp.Embeddings[1].Values)
	if err != nil {
		return 0, fmt.Errorf("compare embeddings: %w", err)
	}

	e.logger.Debug("gemini embed content response",
		zap.Int("dimensions", len(resp.Embeddings[0].Values)),
		zap.Float64("cosine", cos),
	)

	return cos, nil
}

func (e *Embedder) embedWithRetry(ctx context.Context, contents []*genai.Content) (*genai.EmbedContentResponse, error) {
	cfg := &genai.EmbedContentConfig{TaskType: taskType}

	var lastErr error
	for attempt := 1; attempt <= e.maxRetries; attempt++ {
		resp, err := e.models.EmbedContent(ctx, e.model, contents, cfg)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, fmt.Errorf("embed content: %w", ctx.Err())
		}

		delay, retry := retryDelay(err, attempt)
		if !retry || attempt == e.maxRetries {
			break
		}

		e.logger.Warn("gemini embed content failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", e.maxRetries),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("embed content: %w", err)
		}
	}

	return nil, fmt.Errorf("embed content: %w", lastErr)
}

// retryDelay reports whether err is temporary and how long to wait before the
// next attempt.
func retryDelay(err error, attempt int) (time.Duration, bool) {
	apiErr, ok := asAPIError(err)
	if !ok {
		return 0, false
	}

	backoff := baseBackoff << (attempt - 1)

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		delay, found := quotaDelay(apiErr)
		if !found {
			return backoff, true
		}
		if delay > maxRetryDelay {
			return 0, false
		}
		return delay, true
	case apiErr.Code >= http.StatusInternalServerError:
		return backoff, true
	default:
		return 0, false
	}
}

func asAPIError(err error) (genai.APIError, bool) {
	var value genai.APIError
	if errors.As(err, &value) {
		return value, true
	}

	var ptr *genai.APIError
	if errors.As(err, &ptr) && ptr != nil {
		return *ptr, true
	}

	return genai.APIError{}, false
}

func quotaDelay(apiErr genai.APIError) (time.Duration, bool) {
	for _, detail := range apiErr.Details {
		raw, ok := detail["retryDelay"].(string)
		if !ok {
			continue
		}
		if d, err := time.ParseDuration(raw); err == nil {
			return d, true
		}
	}

	m := reRetryAfter.FindStringSubmatch(apiErr.Message)
	if m == nil {
		return 0, false
	}

	secs, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	return time.Duration(secs * float64(time.Second)), true
}
