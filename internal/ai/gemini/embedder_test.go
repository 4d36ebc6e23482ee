package gemini

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/genai"
)

type fakeResponse struct {
	resp *genai.EmbedContentResponse
	err  error
}

type fakeModels struct {
	mu    sync.Mutex
	queue []fakeResponse
	calls []embedCall
}

type embedCall struct {
	model    string
	contents []*genai.Content
	config   *genai.EmbedContentConfig
}

func (f *fakeModels) enqueue(resp *genai.EmbedContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeModels) EmbedContent(_ context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, embedCall{model: model, contents: contents, config: config})
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func embeddings(vectors ...[]float32) *genai.EmbedContentResponse {
	resp := &genai.EmbedContentResponse{}
	for _, v := range vectors {
		resp.Embeddings = append(resp.Embeddings, &genai.ContentEmbedding{Values: v})
	}
	return resp
}

func noSleep(t *testing.T) *[]time.Duration {
	t.Helper()

	var waits []time.Duration
	original := sleep
	sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	t.Cleanup(func() { sleep = original })

	return &waits
}

func TestEmbedderCosine(t *testing.T) {
	models := &fakeModels{}
	models.enqueue(embeddings([]float32{1, 2, 3}, []float32{1, 2, 3}), nil)

	e := newEmbedder(models, Options{}, zap.NewNop())

	got, err := e.Cosine(context.Background(), "resume text", "job text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-1) > 1e-6 {
		t.Fatalf("expected cosine 1, got %v", got)
	}

	if len(models.calls) != 1 {
		t.Fatalf("expected a single request, got %d", len(models.calls))
	}

	call := models.calls[0]
	if call.model != defaultModel {
		t.Fatalf("unexpected model: %q", call.model)
	}
	if call.config == nil || call.config.TaskType != taskType {
		t.Fatalf("expected task type %q, got %+v", taskType, call.config)
	}
	if len(call.contents) != 2 {
		t.Fatalf("expected both texts in one request, got %d contents", len(call.contents))
	}
	if text := call.contents[1].Parts[0].Text; text != "job text" {
		t.Fatalf("unexpected second content: %q", text)
	}
}

func TestEmbedderRejectsMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.EmbedContentResponse
	}{
		{name: "nil response", resp: nil},
		{name: "single embedding", resp: embeddings([]float32{1})},
		{name: "dimension mismatch", resp: embeddings([]float32{1, 2}, []float32{1})},
		{name: "empty vector", resp: embeddings([]float32{}, []float32{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			models := &fakeModels{}
			models.enqueue(tt.resp, nil)

			if _, err := newEmbedder(models, Options{}, nil).Cosine(context.Background(), "a", "b"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestEmbedderRetriesOnTemporaryError(t *testing.T) {
	waits := noSleep(t)

	core, logs := observer.New(zapcore.WarnLevel)
	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"})
	models.enqueue(nil, &genai.APIError{Code: http.StatusServiceUnavailable, Status: "UNAVAILABLE"})
	models.enqueue(embeddings([]float32{1, 0}, []float32{0, 1}), nil)

	e := newEmbedder(models, Options{Model: "embed-test", MaxRetries: 3}, zap.New(core))

	got, err := e.Cosine(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if math.Abs(got) > 1e-9 {
		t.Fatalf("expected cosine 0, got %v", got)
	}

	if len(models.calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(models.calls))
	}
	if len(*waits) != 2 || (*waits)[1] <= (*waits)[0] {
		t.Fatalf("expected growing backoff, got %v", *waits)
	}

	entries := logs.FilterMessage("gemini embed content failed, retrying").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 retry warnings, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["similarity_model"]; got != "embed-test" {
		t.Fatalf("expected model field, got %v", got)
	}
}

func TestEmbedderStopsAfterRetriesExhausted(t *testing.T) {
	noSleep(t)

	models := &fakeModels{}
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	models.enqueue(nil, tempErr)
	models.enqueue(nil, tempErr)

	e := newEmbedder(models, Options{MaxRetries: 2}, nil)

	_, err := e.Cosine(context.Background(), "a", "b")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected wrapped api error, got %v", err)
	}

	if len(models.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(models.calls))
	}
}

func TestEmbedderQuotaDelay(t *testing.T) {
	tests := []struct {
		name      string
		err       genai.APIError
		wantCalls int
	}{
		{
			name: "long delay in message",
			err: genai.APIError{
				Code:    http.StatusTooManyRequests,
				Status:  "RESOURCE_EXHAUSTED",
				Message: "quota exhausted, retry after 60 seconds",
			},
			wantCalls: 1,
		},
		{
			name: "long delay in details",
			err: genai.APIError{
				Code:    http.StatusTooManyRequests,
				Status:  "RESOURCE_EXHAUSTED",
				Details: []map[string]any{{"retryDelay": "45s"}},
			},
			wantCalls: 1,
		},
		{
			name: "short delay",
			err: genai.APIError{
				Code:    http.StatusTooManyRequests,
				Status:  "RESOURCE_EXHAUSTED",
				Message: "please retry in 2s",
			},
			wantCalls: 2,
		},
		{
			name:      "client error",
			err:       genai.APIError{Code: http.StatusBadRequest, Status: "INVALID_ARGUMENT"},
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			waits := noSleep(t)

			models := &fakeModels{}
			models.enqueue(nil, tt.err)
			models.enqueue(nil, tt.err)

			_, err := newEmbedder(models, Options{MaxRetries: 2}, nil).Cosine(context.Background(), "a", "b")
			if err == nil {
				t.Fatal("expected error")
			}
			if len(models.calls) != tt.wantCalls {
				t.Fatalf("expected %d calls, got %d", tt.wantCalls, len(models.calls))
			}
			if tt.name == "short delay" && (len(*waits) != 1 || (*waits)[0] != 2*time.Second) {
				t.Fatalf("expected a 2s wait, got %v", *waits)
			}
		})
	}
}

func TestEmbedderStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	models := &fakeModels{}
	models.enqueue(nil, genai.APIError{Code: http.StatusInternalServerError})

	_, err := newEmbedder(models, Options{MaxRetries: 5}, nil).Cosine(ctx, "a", "b")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(models.calls) != 1 {
		t.Fatalf("expected a single call, got %d", len(models.calls))
	}
}

func TestNewEmbedderRequiresKey(t *testing.T) {
	if _, err := NewEmbedder(context.Background(), "  ", Options{}, nil); err == nil {
		t.Fatal("expected error for empty api key")
	}
}
