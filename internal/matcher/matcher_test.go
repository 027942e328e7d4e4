package matcher

import (
	"errors"
	"strings"
	"testing"

	"github.com/khrees2412/jobmatch/internal/taxonomy"
	"github.com/khrees2412/jobmatch/pkg/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and strips punctuation",
			input:    "Python, SQL & AWS!",
			expected: "python sql  aws",
		},
		{
			name:     "keeps whitespace runs",
			input:    "a\t\tb\n\nc   d",
			expected: "a\t\tb\n\nc   d",
		},
		{
			name:     "drops hyphens inside tokens",
			input:    "scikit-learn",
			expected: "scikitlearn",
		},
		{
			name:     "drops non ascii letters",
			input:    "Café Müller",
			expected: "caf mller",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "keeps digits",
			input:    "Python 3.11",
			expected: "python 311",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Senior Software Engineer (Python/SQL) — 5+ yrs",
		"ÀÉÎÕÜ straße nbsp",
		"",
		"\x1cseparated\x1frecords",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestExtractFeatures(t *testing.T) {
	tax := taxonomy.Default()
	ex := NewExtractor(tax)

	tests := []struct {
		name     string
		text     string
		side     models.Side
		expected models.CategorySet
	}{
		{
			name:     "python and sql detect IT",
			text:     "Experienced with Python and SQL.",
			side:     models.SideResume,
			expected: models.CategorySet{"IT"},
		},
		{
			name:     "substring inside a longer token still matches",
			text:     "Lawyers wanted",
			side:     models.SideJob,
			expected: models.CategorySet{"LGL"},
		},
		{
			name:     "categories come back in taxonomy order",
			text:     "Scrum master, accounting background, java",
			side:     models.SideJob,
			expected: models.CategorySet{"ACCT", "IT", "MGMT"},
		},
		{
			name:     "hyphenated phrase does not match a spaced keyword",
			text:     "Power-BI dashboards",
			side:     models.SideResume,
			expected: models.CategorySet{},
		},
		{
			name:     "empty text",
			text:     "",
			side:     models.SideResume,
			expected: models.CategorySet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec, cats, err := ex.ExtractFeatures(tt.text, tt.side)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Join(cats, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("categories = %v, expected %v", cats, tt.expected)
			}
			if vec.Len() != 2*tax.Len() {
				t.Errorf("vector width = %d, expected %d", vec.Len(), 2*tax.Len())
			}
			for _, code := range tax.Codes() {
				want := uint8(0)
				if cats.Contains(code) {
					want = 1
				}
				got, ok := vec.Get(tt.side.Column(code))
				if !ok {
					t.Fatalf("column %s missing", tt.side.Column(code))
				}
				if got != want {
					t.Errorf("%s = %d, expected %d", tt.side.Column(code), got, want)
				}
			}
		})
	}
}

func TestExtractFeaturesSubstringNotWordBoundary(t *testing.T) {
	tax, err := taxonomy.New("art", "1", []string{"ART", "IT"}, map[string][]string{
		"ART": {"art"},
		"IT":  {"sql"},
	})
	if err != nil {
		t.Fatalf("build taxonomy: %v", err)
	}

	_, cats, err := NewExtractor(tax).ExtractFeatures("Ready to start Monday", models.SideJob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cats.Contains("ART") {
		t.Errorf("expected ART to be detected inside %q, got %v", "start", cats)
	}
	if cats.Contains("IT") {
		t.Errorf("did not expect IT, got %v", cats)
	}
}

func TestExtractFeaturesOnlyPopulatesOwnSide(t *testing.T) {
	tax := taxonomy.Default()
	ex := NewExtractor(tax)

	for _, side := range []models.Side{models.SideResume, models.SideJob} {
		vec, _, err := ex.ExtractFeatures("python finance marketing leadership sales", side)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		other := models.SideJob
		if side == models.SideJob {
			other = models.SideResume
		}
		for _, code := range tax.Codes() {
			if v, _ := vec.Get(other.Column(code)); v != 0 {
				t.Errorf("side %s: column %s = %d, expected 0", side, other.Column(code), v)
			}
		}
		for i := 0; i < vec.Len(); i++ {
			if v := vec.At(i); v > 1 {
				t.Errorf("value %d at %d is not binary", v, i)
			}
		}
	}
}

func TestExtractFeaturesDeterministic(t *testing.T) {
	ex := NewExtractor(taxonomy.Default())
	text := "Healthcare data analysis with Python, Tableau and clinical research"

	v1, c1, _ := ex.ExtractFeatures(text, models.SideResume)
	v2, c2, _ := ex.ExtractFeatures(text, models.SideResume)

	if strings.Join(c1, ",") != strings.Join(c2, ",") {
		t.Errorf("categories differ between runs: %v vs %v", c1, c2)
	}
	for i := 0; i < v1.Len(); i++ {
		if v1.At(i) != v2.At(i) {
			t.Fatalf("vectors differ at %d", i)
		}
	}
}

func TestExtractFeaturesInvalidSide(t *testing.T) {
	_, _, err := NewExtractor(taxonomy.Default()).ExtractFeatures("python", models.Side("X"))
	if !errors.Is(err, ErrInvalidSide) {
		t.Errorf("expected ErrInvalidSide, got %v", err)
	}
}

func TestConcat(t *testing.T) {
	tax := taxonomy.Default()
	ex := NewExtractor(tax)

	rv, _, _ := ex.ExtractFeatures("python developer", models.SideResume)
	jv, _, _ := ex.ExtractFeatures("finance analyst", models.SideJob)

	merged, err := ex.Concat(rv, jv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cols := merged.Columns()
	if len(cols) != 70 {
		t.Fatalf("expected 70 columns, got %d", len(cols))
	}
	if cols[0] != "R_ACCT" || cols[34] != "R_WRT" || cols[35] != "J_ACCT" || cols[69] != "J_WRT" {
		t.Errorf("unexpected column order: %s %s %s %s", cols[0], cols[34], cols[35], cols[69])
	}
	if v, _ := merged.Get("R_IT"); v != 1 {
		t.Errorf("R_IT = %d, expected 1", v)
	}
	if v, _ := merged.Get("J_FIN"); v != 1 {
		t.Errorf("J_FIN = %d, expected 1", v)
	}
	if v, _ := merged.Get("J_IT"); v != 0 {
		t.Errorf("J_IT = %d, expected 0", v)
	}
}

func TestConcatRejectsWrongSides(t *testing.T) {
	ex := NewExtractor(taxonomy.Default())
	jv, _, _ := ex.ExtractFeatures("python", models.SideJob)
	rv, _, _ := ex.ExtractFeatures("python", models.SideResume)

	if _, err := ex.Concat(jv, rv); !errors.Is(err, ErrOverlappingHalves) {
		t.Errorf("expected ErrOverlappingHalves, got %v", err)
	}
}

func TestConcatRejectsForeignTaxonomy(t *testing.T) {
	small, err := taxonomy.New("small", "1", []string{"IT"}, map[string][]string{"IT": {"python"}})
	if err != nil {
		t.Fatalf("build taxonomy: %v", err)
	}
	foreign, _, _ := NewExtractor(small).ExtractFeatures("python", models.SideResume)

	ex := NewExtractor(taxonomy.Default())
	jv, _, _ := ex.ExtractFeatures("python", models.SideJob)
	if _, err := ex.Concat(foreign, jv); !errors.Is(err, ErrTaxonomyMismatch) {
		t.Errorf("expected ErrTaxonomyMismatch, got %v", err)
	}
}
