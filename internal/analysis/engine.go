// Package analysis composes extraction, similarity, matching, blending and
// advice into a single report per résumé/job description pair.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/ats-scorer/internal/advisor"
	"github.com/spigell/ats-scorer/internal/logger"
	"github.com/spigell/ats-scorer/internal/scoring"
	"github.com/spigell/ats-scorer/internal/similarity"
	"github.com/spigell/ats-scorer/internal/skills"
)

// Deps are the collaborators built once at startup.
type Deps struct {
	Extractor  *skills.Extractor
	Similarity *similarity.Scorer
	Advisor    *advisor.Advisor
	Logger     *zap.Logger

	// ProviderName labels the similarity provider in status output.
	ProviderName string
}

// Config tunes an Engine.
type Config struct {
	SemanticWeight    float64
	SimilarityTimeout time.Duration
	RequireSimilarity bool
}

// DefaultConfig returns the default blend weight and a 30s similarity timeout.
func DefaultConfig() Config {
	return Config{
		SemanticWeight:    scoring.DefaultSemanticWeight,
		SimilarityTimeout: 30 * time.Second,
	}
}

func (c Config) Validate() error {
	if err := scoring.ValidateWeight(c.SemanticWeight); err != nil {
		return err
	}
	if c.SimilarityTimeout < 0 {
		return fmt.Errorf("%w: similarity timeout %s is negative", scoring.ErrInvalidParameter, c.SimilarityTimeout)
	}
	return nil
}

// Request is one résumé/job description pair.
type Request struct {
	Resume         string
	JobDescription string
}

func (r Request) hasJob() bool {
	return strings.TrimSpace(r.JobDescription) != ""
}

// Report is the outcome of one analysis. It is never modified after Analyze
// returns it.
type Report struct {
	ID                uuid.UUID            `json:"id"`
	ATSScore          float64              `json:"ats_score"`
	SemanticScore     float64              `json:"semantic_score"`
	SkillOverlap      float64              `json:"skill_overlap"`
	SemanticAvailable bool                 `json:"semantic_available"`
	SemanticError     string               `json:"semantic_error,omitempty"`
	MatchedSkills     []string             `json:"matched_skills"`
	MissingSkills     []string             `json:"missing_skills"`
	ResumeSkills      []string             `json:"resume_skills"`
	JobSkills         []string             `json:"job_skills"`
	SectionsPresent   []string             `json:"sections_present"`
	SectionWords      map[string]int       `json:"section_words"`
	Signals           advisor.Signals      `json:"signals"`
	Suggestions       []advisor.Suggestion `json:"suggestions"`
	HasJobDescription bool                 `json:"has_job_description"`
}

// Engine runs analyses. It is safe for concurrent use.
type Engine struct {
	deps   Deps
	cfg    Config
	stages []Stage
	logger *zap.Logger
}

// New validates cfg and the dependencies. Without a similarity scorer the
// similarity stage is disabled and scores rest on skill overlap alone, unless
// RequireSimilarity is set, in which case New fails.
func New(deps Deps, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Extractor == nil {
		return nil, errors.New("skill extractor is required")
	}
	if deps.Similarity == nil && cfg.RequireSimilarity {
		return nil, fmt.Errorf("%w: similarity is required but no provider is configured", similarity.ErrUnavailable)
	}

	l := logger.WithComponent(deps.Logger, "analysis")
	if deps.Advisor == nil {
		deps.Advisor = advisor.New(deps.Logger)
	}

	stages := defaultStages()
	for _, stage := range stages {
		sim, ok := stage.(*similarityStage)
		if !ok {
			continue
		}
		sim.provider = deps.ProviderName
		sim.timeout = cfg.SimilarityTimeout
		sim.required = cfg.RequireSimilarity
		if deps.Similarity == nil {
			sim.Disable("no similarity provider configured")
		}
	}

	return &Engine{deps: deps, cfg: cfg, stages: stages, logger: l}, nil
}

// Stages reports the status of every stage.
func (e *Engine) Stages() []Status {
	return Describe(e.stages)
}

func (e *Engine) similarityEnabled() bool {
	for _, stage := range e.stages {
		if stage.Name() == "similarity" {
			return stage.IsEnabled()
		}
	}
	return false
}

// Analyze scores the résumé against the job description. It only fails when
// similarity is required and unavailable or ctx is done.
func (e *Engine) Analyze(ctx context.Context, req Request) (*Report, error) {
	st := &state{req: req}
	started := time.Now()
	id := uuid.New()
	log := e.logger.With(zap.Stringer("analysis_id", id))

	for _, stage := range e.stages {
		if !stage.IsEnabled() {
			log.Debug("stage disabled", zap.String("name", stage.Name()))
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		begin := time.Now()
		info, err := stage.apply(ctx, e, st)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", stage.Name(), err)
		}
		info.Duration = time.Since(begin)

		log.Debug("analysis step",
			zap.String("name", stage.Name()),
			zap.Int("items", info.Items),
			zap.Bool("skipped", info.Skipped),
			zap.Duration("duration", info.Duration),
		)
	}

	report := &Report{
		ID:                id,
		ATSScore:          st.score,
		SemanticScore:     scoring.Clamp(st.semantic),
		SkillOverlap:      scoring.Clamp(st.match.Overlap),
		SemanticAvailable: st.semErr == nil && e.similarityEnabled(),
		MatchedSkills:     st.match.Matched,
		MissingSkills:     st.match.Missing,
		ResumeSkills:      st.resume.Sorted(),
		JobSkills:         st.job.Sorted(),
		SectionsPresent:   st.headings,
		SectionWords:      st.sectionWords,
		Signals:           st.signals,
		Suggestions:       st.advice,
		HasJobDescription: req.hasJob(),
	}
	if st.semErr != nil {
		report.SemanticError = st.semErr.Error()
	}

	fields := append(logger.AnalysisFields(len(strings.Fields(req.Resume)), len(strings.Fields(req.JobDescription))),
		zap.Float64("ats_score", report.ATSScore),
		zap.Float64("semantic_score", report.SemanticScore),
		zap.Float64("skill_overlap", report.SkillOverlap),
		zap.Bool("semantic_available", report.SemanticAvailable),
		zap.Int("suggestions", len(report.Suggestions)),
		zap.Duration("duration", time.Since(started)),
	)
	log.Info("analysis finished", fields...)

	return report, nil
}
