// Package taxonomy holds the skill taxonomy: the ordered category codes, the
// keyword phrases detecting each code, and the feature column layout derived
// from them. A Taxonomy is immutable once built.
package taxonomy

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/khrees2412/jobmatch/pkg/models"
)

// SchemaVersion is the only taxonomy document schema understood by Load
const SchemaVersion = 1

// ErrInvalidTaxonomy is returned for documents failing validation
var ErrInvalidTaxonomy = errors.New("invalid taxonomy")

// Taxonomy is an ordered code list paired with keyword phrases per code
type Taxonomy struct {
	name     string
	version  string
	codes    []string
	keywords map[string][]string
	columns  []string
}

// New validates the inputs and builds a Taxonomy. The slices and map are
// copied, callers may reuse them.
func New(name, version string, codes []string, keywords map[string][]string) (*Taxonomy, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidTaxonomy)
	}
	if strings.TrimSpace(version) == "" {
		return nil, fmt.Errorf("%w: version is required", ErrInvalidTaxonomy)
	}
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: at least one code is required", ErrInvalidTaxonomy)
	}

	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if code == "" || strings.ContainsAny(code, ".") || strings.IndexFunc(code, unicode.IsSpace) >= 0 {
			return nil, fmt.Errorf("%w: bad code %q", ErrInvalidTaxonomy, code)
		}
		if _, dup := seen[code]; dup {
			return nil, fmt.Errorf("%w: duplicate code %q", ErrInvalidTaxonomy, code)
		}
		seen[code] = struct{}{}
	}
	for code := range keywords {
		if _, ok := seen[code]; !ok {
			return nil, fmt.Errorf("%w: keywords given for unknown code %q", ErrInvalidTaxonomy, code)
		}
	}

	t := &Taxonomy{
		name:     name,
		version:  version,
		codes:    append([]string(nil), codes...),
		keywords: make(map[string][]string, len(codes)),
	}
	for _, code := range codes {
		phrases := keywords[code]
		if len(phrases) == 0 {
			return nil, fmt.Errorf("%w: code %q has no keywords", ErrInvalidTaxonomy, code)
		}
		for _, kw := range phrases {
			if err := validateKeyword(kw); err != nil {
				return nil, fmt.Errorf("%w: code %q: %v", ErrInvalidTaxonomy, code, err)
			}
		}
		t.keywords[code] = append([]string(nil), phrases...)
	}

	t.columns = make([]string, 0, 2*len(codes))
	for _, side := range []models.Side{models.SideResume, models.SideJob} {
		for _, code := range codes {
			t.columns = append(t.columns, side.Column(code))
		}
	}
	return t, nil
}

// A keyword that is not already normalized could never match normalized text.
func validateKeyword(kw string) error {
	if strings.TrimSpace(kw) == "" {
		return errors.New("empty keyword")
	}
	for _, r := range kw {
		if !IsKeywordRune(r) {
			return fmt.Errorf("keyword %q contains %q", kw, r)
		}
	}
	return nil
}

// IsKeywordRune reports whether r survives text normalization: lowercase
// ASCII letters, digits and whitespace.
func IsKeywordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r >= 0x1c && r <= 0x1f:
		// file, group, record and unit separators count as whitespace
		return true
	}
	return unicode.IsSpace(r)
}

// Name returns the taxonomy name
func (t *Taxonomy) Name() string { return t.name }

// Version returns the taxonomy version
func (t *Taxonomy) Version() string { return t.version }

// Ref returns the registry reference "name@version"
func (t *Taxonomy) Ref() string { return t.name + "@" + t.version }

// Len returns the number of codes
func (t *Taxonomy) Len() int { return len(t.codes) }

// Codes returns the codes in column order
func (t *Taxonomy) Codes() []string {
	return append([]string(nil), t.codes...)
}

// Code returns the i-th code
func (t *Taxonomy) Code(i int) string { return t.codes[i] }

// Keywords returns the keyword phrases of code
func (t *Taxonomy) Keywords(code string) []string {
	return append([]string(nil), t.keywords[code]...)
}

// Columns returns the feature column names: every R_ code in order, then
// every J_ code in order. This is the classifier's input layout.
func (t *Taxonomy) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Width returns the feature vector width, twice the number of codes
func (t *Taxonomy) Width() int { return len(t.columns) }

// ColumnIndex returns the position of side's column for the i-th code
func (t *Taxonomy) ColumnIndex(side models.Side, i int) int {
	if side == models.SideJob {
		return len(t.codes) + i
	}
	return i
}

// NewVector returns an all-zero feature vector over this taxonomy's columns
func (t *Taxonomy) NewVector() models.FeatureVector {
	return models.NewFeatureVector(t.columns)
}

// Document returns the serializable form of t
func (t *Taxonomy) Document() Document {
	doc := Document{
		SchemaVersion: SchemaVersion,
		Name:          t.name,
		Version:       t.version,
		Codes:         t.Codes(),
		Keywords:      make(map[string][]string, len(t.codes)),
	}
	for _, code := range t.codes {
		doc.Keywords[code] = t.Keywords(code)
	}
	return doc
}
