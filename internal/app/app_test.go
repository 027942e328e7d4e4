package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/khrees2412/jobmatch/internal/classifier"
	"github.com/khrees2412/jobmatch/internal/config"
	"github.com/khrees2412/jobmatch/internal/database"
	"github.com/khrees2412/jobmatch/internal/taxonomy"
	"github.com/khrees2412/jobmatch/pkg/models"
)

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	if cfg.ModelFormat == "" {
		cfg.ModelFormat = classifier.FormatForest
	}
	if cfg.BrowserTimeout == 0 {
		cfg.BrowserTimeout = time.Second
	}
	a := NewApp(cfg, nil, t.TempDir())
	t.Cleanup(func() { a.Close() })
	return a
}

// writeForest exports a one-stump forest that splits on R_IT
func writeForest(t *testing.T, tax *taxonomy.Taxonomy) string {
	t.Helper()
	m := classifier.ForestModel{
		FeatureNames: tax.Columns(),
		Classes:      []int{0, 1},
		Trees: []classifier.Tree{{
			ChildrenLeft:  []int{1, -1, -1},
			ChildrenRight: []int{2, -1, -1},
			Feature:       []int{tax.ColumnIndex(models.SideResume, 15), -2, -2},
			Threshold:     []float64{0.5, -2, -2},
			Value:         [][]float64{{0, 0}, {1, 1}, {1, 9}},
		}},
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal forest: %v", err)
	}
	path := filepath.Join(t.TempDir(), "forest.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write forest: %v", err)
	}
	return path
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref     string
		name    string
		version string
		wantErr bool
	}{
		{ref: "tech@2", name: "tech", version: "2"},
		{ref: " finance@2024.1 ", name: "finance", version: "2024.1"},
		{ref: "tech", wantErr: true},
		{ref: "@2", wantErr: true},
		{ref: "tech@", wantErr: true},
		{ref: "a@b@c", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			name, version, err := ParseRef(tt.ref)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRef: %v", err)
			}
			if name != tt.name || version != tt.version {
				t.Errorf("got %q@%q, expected %q@%q", name, version, tt.name, tt.version)
			}
		})
	}
}

func TestTaxonomyDefault(t *testing.T) {
	a := newTestApp(t, &config.Config{})

	tax, err := a.Taxonomy()
	if err != nil {
		t.Fatalf("Taxonomy: %v", err)
	}
	if tax.Ref() != taxonomy.Default().Ref() {
		t.Errorf("Ref() = %q, expected the built-in taxonomy", tax.Ref())
	}
}

func TestTaxonomyFromRegistry(t *testing.T) {
	a := newTestApp(t, &config.Config{TaxonomyRef: "mini@3"})
	if err := a.OpenDatabase(); err != nil {
		t.Fatalf("OpenDatabase: %v", err)
	}

	mini, err := taxonomy.New("mini", "3", []string{"IT", "LGL"}, map[string][]string{
		"IT":  {"golang"},
		"LGL": {"law"},
	})
	if err != nil {
		t.Fatalf("taxonomy.New: %v", err)
	}
	doc, err := taxonomy.Encode(mini)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := database.SaveTaxonomy(&models.TaxonomyRecord{Name: "mini", Version: "3", Document: string(doc)}); err != nil {
		t.Fatalf("SaveTaxonomy: %v", err)
	}

	tax, err := a.Taxonomy()
	if err != nil {
		t.Fatalf("Taxonomy: %v", err)
	}
	if tax.Ref() != "mini@3" || tax.Len() != 2 {
		t.Errorf("resolved %s with %d codes", tax.Ref(), tax.Len())
	}
}

func TestTaxonomyRefNotImported(t *testing.T) {
	a := newTestApp(t, &config.Config{TaxonomyRef: "ghost@1"})

	_, err := a.Taxonomy()
	if !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPredictorUnavailable(t *testing.T) {
	a := newTestApp(t, &config.Config{})

	if _, err := a.Analyzer(); !errors.Is(err, classifier.ErrModelUnavailable) {
		t.Fatalf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestAnalyzerEndToEnd(t *testing.T) {
	path := writeForest(t, taxonomy.Default())
	metricsFile := filepath.Join(t.TempDir(), "jobmatch.prom")
	a := newTestApp(t, &config.Config{ModelPath: path, MetricsFile: metricsFile})

	analyzer, err := a.Analyzer()
	if err != nil {
		t.Fatalf("Analyzer: %v", err)
	}

	report, err := analyzer.Analyze(context.Background(),
		"Python and SQL developer, scrum lead",
		"Hiring a Java engineer for agile teams")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if report.Result.Label != models.LabelStrongMatch {
		t.Errorf("label = %s, expected StrongMatch", report.Result.Label)
	}
	if report.Result.AdjustedScore < 89.999 || report.Result.AdjustedScore > 90.001 {
		t.Errorf("adjusted score = %v, expected 90", report.Result.AdjustedScore)
	}

	// the classifier is loaded once
	p1, _ := a.Predictor()
	p2, _ := a.Predictor()
	if p1 != p2 {
		t.Error("Predictor() loaded the model twice")
	}

	if err := a.FlushMetrics(); err != nil {
		t.Fatalf("FlushMetrics: %v", err)
	}
	if _, err := os.Stat(metricsFile); err != nil {
		t.Errorf("metrics file not written: %v", err)
	}
}

func TestContextRoundTrip(t *testing.T) {
	a := newTestApp(t, &config.Config{})

	ctx := WithApp(context.Background(), a)
	if got := FromContext(ctx); got != a {
		t.Errorf("FromContext() = %p, expected %p", got, a)
	}
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("FromContext(empty) = %p, expected nil", got)
	}
}
