package matcher

import (
	"errors"
	"fmt"
	"math"

	"github.com/khrees2412/jobmatch/pkg/models"
)

// Guardrail multipliers applied by overlap size, and the strong match cut-off
// on the 0-100 scale.
const (
	NoOverlapMultiplier     = 0.10
	SingleOverlapMultiplier = 0.50
	StrongMatchThreshold    = 70.0
)

var (
	ErrProbabilityOutOfRange = errors.New("raw probability outside [0, 1]")
	ErrScoreOutOfRange       = errors.New("adjusted score outside [0, 100]")
)

// ComputeMatch applies the overlap guardrail to a raw classifier probability.
// rawProbability must lie in [0, 1]; anything else is rejected, not clamped.
func ComputeMatch(rawProbability float64, resumeCategories, jdCategories models.CategorySet) (models.MatchResult, error) {
	if math.IsNaN(rawProbability) || rawProbability < 0 || rawProbability > 1 {
		return models.MatchResult{}, fmt.Errorf("%w: %v", ErrProbabilityOutOfRange, rawProbability)
	}

	base := rawProbability * 100
	overlap := resumeCategories.Intersect(jdCategories)

	result := models.MatchResult{
		RawProbability: rawProbability,
		OverlapSize:    len(overlap),
		Overlap:        overlap,
	}

	switch {
	case len(overlap) == 0:
		result.AdjustedScore = base * NoOverlapMultiplier
		result.Label = models.LabelCriticalMismatch
	case len(overlap) == 1:
		result.AdjustedScore = base * SingleOverlapMultiplier
		result.Label = models.LabelPartialMatch
	default:
		result.AdjustedScore = base
		if result.AdjustedScore > StrongMatchThreshold {
			result.Label = models.LabelStrongMatch
		} else {
			result.Label = models.LabelPartialMatch
		}
	}

	if result.AdjustedScore < 0 || result.AdjustedScore > 100 {
		return models.MatchResult{}, fmt.Errorf("%w: %v", ErrScoreOutOfRange, result.AdjustedScore)
	}
	return result, nil
}
