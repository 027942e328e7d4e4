package matcher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/khrees2412/jobmatch/internal/taxonomy"
	"github.com/khrees2412/jobmatch/pkg/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ErrInvalidSide       = errors.New("invalid side")
	ErrTaxonomyMismatch  = errors.New("feature vector does not match taxonomy")
	ErrOverlappingHalves = errors.New("feature vectors populate the same side")
)

// Extractor maps free text to category membership under one taxonomy
type Extractor struct {
	tax *taxonomy.Taxonomy
}

// NewExtractor returns an Extractor bound to tax
func NewExtractor(tax *taxonomy.Taxonomy) *Extractor {
	return &Extractor{tax: tax}
}

// Taxonomy returns the taxonomy the extractor was built with
func (e *Extractor) Taxonomy() *taxonomy.Taxonomy {
	return e.tax
}

// Normalize lower-cases text and drops every rune other than a-z, 0-9 and
// whitespace. Whitespace runs are kept as they are.
func Normalize(text string) string {
	// a Caser is stateful, build one per call
	lower := cases.Lower(language.Und).String(text)
	return strings.Map(func(r rune) rune {
		if taxonomy.IsKeywordRune(r) {
			return r
		}
		return -1
	}, lower)
}

// ExtractFeatures marks every code with at least one keyword contained in the
// normalized text. Containment is plain substring search: "art" is found in
// "start". The returned vector spans both sides, only side's half is set.
func (e *Extractor) ExtractFeatures(text string, side models.Side) (models.FeatureVector, models.CategorySet, error) {
	if !side.Valid() {
		return models.FeatureVector{}, nil, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}

	vec := e.tax.NewVector()
	found := models.CategorySet{}

	cleaned := Normalize(text)
	if cleaned == "" {
		return vec, found, nil
	}

	for i, code := range e.tax.Codes() {
		if containsAny(cleaned, e.tax.Keywords(code)) {
			vec.Set(e.tax.ColumnIndex(side, i))
			found = append(found, code)
		}
	}
	return vec, found, nil
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Concat merges a resume vector and a job vector into the classifier input.
// Both must come from this extractor's taxonomy; the result keeps the
// R_ columns followed by the J_ columns.
func (e *Extractor) Concat(resume, job models.FeatureVector) (models.FeatureVector, error) {
	width := e.tax.Width()
	if resume.Len() != width || job.Len() != width {
		return models.FeatureVector{}, fmt.Errorf("%w: want width %d, got %d and %d",
			ErrTaxonomyMismatch, width, resume.Len(), job.Len())
	}

	out := e.tax.NewVector()
	n := e.tax.Len()
	for i := 0; i < n; i++ {
		r := e.tax.ColumnIndex(models.SideResume, i)
		j := e.tax.ColumnIndex(models.SideJob, i)
		if resume.At(j) != 0 || job.At(r) != 0 {
			return models.FeatureVector{}, ErrOverlappingHalves
		}
		if resume.At(r) != 0 {
			out.Set(r)
		}
		if job.At(j) != 0 {
			out.Set(j)
		}
	}
	return out, nil
}
