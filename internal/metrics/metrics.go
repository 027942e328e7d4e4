// Package metrics records analysis outcomes in a private Prometheus registry
// and exports them as a node-exporter textfile. There is no HTTP listener.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobmatch"

// Stages reported with RecordError
const (
	StageInput   = "input"
	StageExtract = "extract"
	StagePredict = "predict"
	StageScore   = "score"
)

// Manager owns the analysis metrics
type Manager struct {
	registry *prometheus.Registry

	analyses       *prometheus.CounterVec
	errors         *prometheus.CounterVec
	overlapSize    prometheus.Histogram
	adjustedScore  prometheus.Histogram
	rawProbability prometheus.Histogram
	duration       prometheus.Histogram
}

// New registers all metrics on a fresh registry
func New() *Manager {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Manager{
		registry: reg,
		analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by verdict label.",
		}, []string{"label"}),
		errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_errors_total",
			Help:      "Failed analyses by pipeline stage.",
		}, []string{"stage"}),
		overlapSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "overlap_size",
			Help:      "Number of categories shared by resume and job description.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		}),
		adjustedScore: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "adjusted_score",
			Help:      "Guardrail adjusted match score (0-100).",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		rawProbability: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "raw_probability",
			Help:      "Classifier probability before adjustment.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 10),
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of one analysis.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
}

// RecordAnalysis observes one successful analysis
func (m *Manager) RecordAnalysis(label string, overlap int, raw, adjusted float64, took time.Duration) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(label).Inc()
	m.overlapSize.Observe(float64(overlap))
	m.rawProbability.Observe(raw)
	m.adjustedScore.Observe(adjusted)
	m.duration.Observe(took.Seconds())
}

// RecordError counts a failure at stage
func (m *Manager) RecordError(stage string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(stage).Inc()
}

// Registry exposes the underlying registry as a Gatherer
func (m *Manager) Registry() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the current values to path in the text exposition
// format. The file is replaced atomically.
func (m *Manager) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
