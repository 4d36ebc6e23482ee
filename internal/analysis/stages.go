package analysis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/ats-scorer/internal/advisor"
	"github.com/spigell/ats-scorer/internal/scoring"
	"github.com/spigell/ats-scorer/internal/sections"
	"github.com/spigell/ats-scorer/internal/skills"
)

// Stage is one step of an analysis run. Stages are built by this package only.
type Stage interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	apply(ctx context.Context, e *Engine, st *state) (Step, error)
}

// Step describes the result of executing a stage.
type Step struct {
	Items    int
	Skipped  bool
	Duration time.Duration
}

// Status represents runtime information about a stage.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status() Status
}

// state carries intermediate results between stages of one run.
type state struct {
	req      Request
	resume   skills.Set
	job      skills.Set
	semantic float64
	semErr   error
	match    scoring.MatchResult
	score    float64
	signals  advisor.Signals
	advice   []advisor.Suggestion
	headings []string

	sectionWords map[string]int
}

type baseStage struct {
	name     string
	disabled string
}

func (b *baseStage) Name() string { return b.name }

func (b *baseStage) Disable(reason string) {
	if reason == "" {
		reason = "disabled"
	}
	b.disabled = reason
}

func (b *baseStage) IsEnabled() bool { return b.disabled == "" }

func (b *baseStage) Status() Status {
	return Status{Name: b.name, Enabled: b.IsEnabled(), Reason: b.disabled}
}

type extractStage struct{ baseStage }

func (s *extractStage) apply(_ context.Context, e *Engine, st *state) (Step, error) {
	var g errgroup.Group

	// Each goroutine writes its own field.
	g.Go(func() error {
		st.resume = e.deps.Extractor.Extract(st.req.Resume)
		return nil
	})
	g.Go(func() error {
		st.job = e.deps.Extractor.Extract(st.req.JobDescription)
		return nil
	})

	if err := g.Wait(); err != nil {
		return Step{}, err
	}
	return Step{Items: st.resume.Len() + st.job.Len()}, nil
}

type similarityStage struct {
	baseStage
	provider string
	timeout  time.Duration
	required bool
}

func (s *similarityStage) apply(ctx context.Context, e *Engine, st *state) (Step, error) {
	if !st.req.hasJob() {
		return Step{Skipped: true}, nil
	}

	if e.cfg.SimilarityTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.SimilarityTimeout)
		defer cancel()
	}

	score, err := e.deps.Similarity.Similarity(ctx, st.req.Resume, st.req.JobDescription)
	if err != nil {
		if e.cfg.RequireSimilarity {
			return Step{}, err
		}
		e.logger.Warn("semantic similarity unavailable, scoring on skill overlap only", zap.Error(err))
		st.semErr = err
		return Step{}, nil
	}

	st.semantic = score
	return Step{Items: 1}, nil
}

func (s *similarityStage) Status() Status {
	st := s.baseStage.Status()
	if st.Enabled {
		st.Details = map[string]string{
			"provider": s.provider,
			"timeout":  s.timeout.String(),
			"required": strconv.FormatBool(s.required),
		}
	}
	return st
}

type matchStage struct{ baseStage }

func (s *matchStage) apply(_ context.Context, e *Engine, st *state) (Step, error) {
	st.match = scoring.Match(st.job, st.resume)
	e.logger.Debug("skill overlap",
		zap.Float64("overlap", st.match.Overlap),
		zap.Strings("matched", st.match.Matched),
		zap.Strings("missing", st.match.Missing),
	)
	return Step{Items: len(st.match.Matched)}, nil
}

type blendStage struct{ baseStage }

func (s *blendStage) apply(_ context.Context, e *Engine, st *state) (Step, error) {
	weight := e.cfg.SemanticWeight
	if st.semErr != nil || !e.similarityEnabled() {
		weight = 0
	}

	score, err := scoring.Blend(scoring.Clamp(st.semantic), scoring.Clamp(st.match.Overlap), weight)
	if err != nil {
		return Step{}, fmt.Errorf("blend scores: %w", err)
	}
	st.score = scoring.Clamp(score)

	return Step{Items: 1}, nil
}

type adviseStage struct{ baseStage }

func (s *adviseStage) apply(_ context.Context, e *Engine, st *state) (Step, error) {
	st.signals = advisor.Collect(st.req.Resume)
	st.advice = e.deps.Advisor.AdviseSignals(st.signals, st.match.Missing)
	return Step{Items: len(st.advice)}, nil
}

type sectionsStage struct{ baseStage }

func (s *sectionsStage) apply(_ context.Context, _ *Engine, st *state) (Step, error) {
	st.headings = sections.Detect(st.req.Resume)

	bodies := sections.Split(st.req.Resume)
	st.sectionWords = make(map[string]int, len(st.headings))
	for _, h := range st.headings {
		st.sectionWords[h] = len(strings.Fields(bodies[h]))
	}
	return Step{Items: len(st.headings)}, nil
}

func defaultStages() []Stage {
	return []Stage{
		&extractStage{baseStage{name: "extract"}},
		&similarityStage{baseStage: baseStage{name: "similarity"}},
		&matchStage{baseStage{name: "match"}},
		&blendStage{baseStage{name: "blend"}},
		&adviseStage{baseStage{name: "advise"}},
		&sectionsStage{baseStage{name: "sections"}},
	}
}

// Describe returns status entries for the provided stages.
func Describe(stages []Stage) []Status {
	statuses := make([]Status, 0, len(stages))
	for _, stage := range stages {
		if reporter, ok := stage.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}
		statuses = append(statuses, Status{Name: stage.Name(), Enabled: stage.IsEnabled()})
	}
	return statuses
}
