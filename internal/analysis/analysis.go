// Package analysis runs one resume against one job description: feature
// extraction on both sides, classification and the guardrail adjustment.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khrees2412/jobmatch/internal/classifier"
	"github.com/khrees2412/jobmatch/internal/logger"
	"github.com/khrees2412/jobmatch/internal/matcher"
	"github.com/khrees2412/jobmatch/internal/metrics"
	"github.com/khrees2412/jobmatch/internal/taxonomy"
	"github.com/khrees2412/jobmatch/pkg/models"
)

// ErrMissingInput is returned when either text is empty or only whitespace.
// A whitespace-only text is rejected here instead of being scored as a text
// with no categories.
var ErrMissingInput = errors.New("inputs missing: both resume and job description text are required")

const logTextLimit = 80

// Report is the full outcome of one analysis
type Report struct {
	ID               string               `json:"id"`
	TaxonomyRef      string               `json:"taxonomy"`
	Result           models.MatchResult   `json:"result"`
	ResumeCategories models.CategorySet   `json:"resume_categories"`
	JDCategories     models.CategorySet   `json:"jd_categories"`
	Features         models.FeatureVector `json:"features"`
	CreatedAt        time.Time            `json:"created_at"`
}

// Analyzer is safe for concurrent use when its Predictor is
type Analyzer struct {
	Taxonomy  *taxonomy.Taxonomy
	Predictor classifier.Predictor
	Logger    *zap.Logger
	Metrics   *metrics.Manager

	extractor *matcher.Extractor
}

// New wires an Analyzer. logger and metrics may be nil.
func New(tax *taxonomy.Taxonomy, predictor classifier.Predictor, log *zap.Logger, m *metrics.Manager) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{
		Taxonomy:  tax,
		Predictor: predictor,
		Logger:    log,
		Metrics:   m,
		extractor: matcher.NewExtractor(tax),
	}
}

// Analyze scores resumeText against jdText
func (a *Analyzer) Analyze(ctx context.Context, resumeText, jdText string) (*Report, error) {
	start := time.Now()
	id := uuid.NewString()
	log := a.Logger.With(zap.String("analysis_id", id), zap.String("taxonomy", a.Taxonomy.Ref()))

	if strings.TrimSpace(resumeText) == "" || strings.TrimSpace(jdText) == "" {
		a.Metrics.RecordError(metrics.StageInput)
		return nil, ErrMissingInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debug("analysis started",
		zap.String("resume", logger.TruncateForLog(resumeText, logTextLimit)),
		zap.String("jd", logger.TruncateForLog(jdText, logTextLimit)),
	)

	resumeVec, resumeCats, err := a.extractor.ExtractFeatures(resumeText, models.SideResume)
	if err != nil {
		a.Metrics.RecordError(metrics.StageExtract)
		return nil, fmt.Errorf("extract resume features: %w", err)
	}
	jdVec, jdCats, err := a.extractor.ExtractFeatures(jdText, models.SideJob)
	if err != nil {
		a.Metrics.RecordError(metrics.StageExtract)
		return nil, fmt.Errorf("extract job description features: %w", err)
	}
	features, err := a.extractor.Concat(resumeVec, jdVec)
	if err != nil {
		a.Metrics.RecordError(metrics.StageExtract)
		return nil, fmt.Errorf("combine features: %w", err)
	}

	raw, err := a.Predictor.Predict(ctx, features)
	if err != nil {
		a.Metrics.RecordError(metrics.StagePredict)
		log.Error("classifier failed", zap.Error(err))
		return nil, fmt.Errorf("predict: %w", err)
	}

	result, err := matcher.ComputeMatch(raw, resumeCats, jdCats)
	if err != nil {
		a.Metrics.RecordError(metrics.StageScore)
		log.Error("score adjustment failed", zap.Float64("raw_probability", raw), zap.Error(err))
		return nil, err
	}

	took := time.Since(start)
	a.Metrics.RecordAnalysis(string(result.Label), result.OverlapSize, result.RawProbability, result.AdjustedScore, took)

	log.Info("analysis complete",
		zap.Strings("resume_categories", resumeCats),
		zap.Strings("jd_categories", jdCats),
		zap.Strings("overlap", result.Overlap),
		zap.Float64("raw_probability", result.RawProbability),
		zap.Float64("adjusted_score", result.AdjustedScore),
		zap.String("label", string(result.Label)),
		zap.Duration("took", took),
	)

	return &Report{
		ID:               id,
		TaxonomyRef:      a.Taxonomy.Ref(),
		Result:           result,
		ResumeCategories: resumeCats,
		JDCategories:     jdCats,
		Features:         features,
		CreatedAt:        start.UTC(),
	}, nil
}
