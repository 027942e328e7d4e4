package app

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/khrees2412/jobmatch/internal/analysis"
	"github.com/khrees2412/jobmatch/internal/classifier"
	"github.com/khrees2412/jobmatch/internal/config"
	"github.com/khrees2412/jobmatch/internal/database"
	"github.com/khrees2412/jobmatch/internal/metrics"
	"github.com/khrees2412/jobmatch/internal/scraper"
	"github.com/khrees2412/jobmatch/internal/taxonomy"
)

// App is the dependency container for the CLI application. The database,
// taxonomy and classifier are opened on first use and kept for the life of
// the process.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *metrics.Manager

	dataDir string

	dbOnce sync.Once
	dbErr  error

	taxOnce sync.Once
	tax     *taxonomy.Taxonomy
	taxErr  error

	modelOnce sync.Once
	predictor classifier.Predictor
	modelErr  error
}

// NewApp builds an App around an already loaded configuration
func NewApp(cfg *config.Config, log *zap.Logger, dataDir string) *App {
	if log == nil {
		log = zap.NewNop()
	}
	return &App{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics.New(),
		dataDir: dataDir,
	}
}

// OpenDatabase opens the resume and taxonomy registry
func (a *App) OpenDatabase() error {
	a.dbOnce.Do(func() {
		if database.DB != nil {
			return
		}
		if err := database.Initialize(a.dataDir); err != nil {
			a.dbErr = fmt.Errorf("failed to initialize database: %w", err)
			return
		}
		if err := database.DB.Ping(); err != nil {
			database.Close()
			a.dbErr = fmt.Errorf("failed to ping database: %w", err)
		}
	})
	return a.dbErr
}

// Taxonomy resolves the configured taxonomy: a file, a registry version, or
// the built-in default
func (a *App) Taxonomy() (*taxonomy.Taxonomy, error) {
	a.taxOnce.Do(func() {
		a.tax, a.taxErr = a.resolveTaxonomy()
		if a.taxErr == nil {
			a.Logger.Debug("taxonomy resolved",
				zap.String("taxonomy", a.tax.Ref()),
				zap.Int("categories", a.tax.Len()),
			)
		}
	})
	return a.tax, a.taxErr
}

func (a *App) resolveTaxonomy() (*taxonomy.Taxonomy, error) {
	switch {
	case a.Config.TaxonomyPath != "":
		return taxonomy.Load(a.Config.TaxonomyPath)
	case a.Config.TaxonomyRef != "":
		name, version, err := ParseRef(a.Config.TaxonomyRef)
		if err != nil {
			return nil, err
		}
		if err := a.OpenDatabase(); err != nil {
			return nil, err
		}
		return LoadRegistered(name, version)
	default:
		return taxonomy.Default(), nil
	}
}

// LoadRegistered parses an imported taxonomy version from the registry
func LoadRegistered(name, version string) (*taxonomy.Taxonomy, error) {
	record, err := database.GetTaxonomy(name, version)
	if err != nil {
		return nil, fmt.Errorf("taxonomy %s@%s: %w", name, version, err)
	}
	return taxonomy.Parse([]byte(record.Document))
}

// ParseRef splits "name@version"
func ParseRef(ref string) (name, version string, err error) {
	name, version, ok := strings.Cut(strings.TrimSpace(ref), "@")
	if !ok || name == "" || version == "" || strings.Contains(version, "@") {
		return "", "", fmt.Errorf("%w: taxonomy ref %q must look like name@version", ErrInvalidArgument, ref)
	}
	return name, version, nil
}

// Predictor loads the classifier once. Its feature columns are checked
// against the resolved taxonomy.
func (a *App) Predictor() (classifier.Predictor, error) {
	a.modelOnce.Do(func() {
		tax, err := a.Taxonomy()
		if err != nil {
			a.modelErr = err
			return
		}
		a.predictor, a.modelErr = classifier.Load(classifier.Options{
			Format:      a.Config.ModelFormat,
			Path:        a.Config.ModelPath,
			Columns:     tax.Columns(),
			LibraryPath: a.Config.ONNXLibraryPath,
			InputName:   a.Config.ONNXInputName,
			OutputName:  a.Config.ONNXOutputName,
		})
		if a.modelErr == nil {
			a.Logger.Debug("classifier loaded",
				zap.String("format", a.Config.ModelFormat),
				zap.String("path", a.Config.ModelPath),
			)
		}
	})
	return a.predictor, a.modelErr
}

// Analyzer wires taxonomy, classifier, logger and metrics together
func (a *App) Analyzer() (*analysis.Analyzer, error) {
	tax, err := a.Taxonomy()
	if err != nil {
		return nil, err
	}
	predictor, err := a.Predictor()
	if err != nil {
		return nil, err
	}
	return analysis.New(tax, predictor, a.Logger, a.Metrics), nil
}

// Fetcher returns a job description fetcher bounded by browser_timeout
func (a *App) Fetcher() *scraper.Fetcher {
	return &scraper.Fetcher{Timeout: a.Config.BrowserTimeout, Logger: a.Logger}
}

// FlushMetrics writes the metrics textfile when one is configured
func (a *App) FlushMetrics() error {
	return a.Metrics.WriteTextfile(a.Config.MetricsFile)
}

// Close releases the classifier and the database and flushes the logger
func (a *App) Close() error {
	var firstErr error
	if a.predictor != nil {
		if err := a.predictor.Close(); err != nil {
			firstErr = err
		}
	}
	if err := database.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	database.DB = nil
	_ = a.Logger.Sync()
	return firstErr
}
