// Package classifier loads the externally trained match classifier and turns
// a concatenated feature vector into the probability of the positive class.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/khrees2412/jobmatch/pkg/models"
)

const (
	FormatForest = "forest"
	FormatONNX   = "onnx"
)

var (
	// ErrModelUnavailable means the classifier artifact is missing or could
	// not be loaded. No match can be computed without it.
	ErrModelUnavailable = errors.New("classifier model unavailable")
	ErrFeatureMismatch  = errors.New("classifier features do not match taxonomy columns")
)

// Predictor returns the positive class probability for one feature vector.
// Implementations are read-only after loading.
type Predictor interface {
	Predict(ctx context.Context, features models.FeatureVector) (float64, error)
	Close() error
}

// Options selects and configures a classifier backend
type Options struct {
	Format  string
	Path    string
	Columns []string

	// ONNX runtime settings, ignored by the forest backend
	LibraryPath string
	InputName   string
	OutputName  string
}

// Load opens the classifier artifact described by opts
func Load(opts Options) (Predictor, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, fmt.Errorf("%w: no model path configured", ErrModelUnavailable)
	}

	switch strings.ToLower(opts.Format) {
	case "", FormatForest:
		return LoadForest(opts.Path, opts.Columns)
	case FormatONNX:
		return LoadONNX(opts)
	default:
		return nil, fmt.Errorf("%w: unsupported model format %q", ErrModelUnavailable, opts.Format)
	}
}

func checkColumns(declared, want []string) error {
	if len(declared) == 0 || len(want) == 0 {
		return nil
	}
	if len(declared) != len(want) {
		return fmt.Errorf("%w: model has %d features, taxonomy has %d columns", ErrFeatureMismatch, len(declared), len(want))
	}
	for i := range declared {
		if declared[i] != want[i] {
			return fmt.Errorf("%w: feature %d is %q, expected %q", ErrFeatureMismatch, i, declared[i], want[i])
		}
	}
	return nil
}
