package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Side identifies which document a feature column belongs to
type Side string

const (
	SideResume Side = "R"
	SideJob    Side = "J"
)

// Valid reports whether s is one of the two known sides
func (s Side) Valid() bool {
	return s == SideResume || s == SideJob
}

// Column returns the feature column name for a taxonomy code, e.g. "R_IT"
func (s Side) Column(code string) string {
	return fmt.Sprintf("%s_%s", s, code)
}

// Label is the qualitative verdict attached to a match
type Label string

const (
	LabelCriticalMismatch Label = "CriticalMismatch"
	LabelPartialMatch     Label = "PartialMatch"
	LabelStrongMatch      Label = "StrongMatch"
)

// FeatureVector is the binary classifier input. Columns are shared with the
// taxonomy that produced the vector and must not be modified.
type FeatureVector struct {
	columns []string
	values  []uint8
}

// NewFeatureVector returns an all-zero vector over columns
func NewFeatureVector(columns []string) FeatureVector {
	return FeatureVector{
		columns: columns,
		values:  make([]uint8, len(columns)),
	}
}

// Len returns the vector width
func (v FeatureVector) Len() int {
	return len(v.values)
}

// Columns returns a copy of the column names in wire order
func (v FeatureVector) Columns() []string {
	out := make([]string, len(v.columns))
	copy(out, v.columns)
	return out
}

// At returns the value at position i
func (v FeatureVector) At(i int) uint8 {
	return v.values[i]
}

// Set marks position i as present
func (v FeatureVector) Set(i int) {
	v.values[i] = 1
}

// Get looks a value up by column name
func (v FeatureVector) Get(column string) (uint8, bool) {
	for i, c := range v.columns {
		if c == column {
			return v.values[i], true
		}
	}
	return 0, false
}

// Float32s returns the values in wire order as float32
func (v FeatureVector) Float32s() []float32 {
	out := make([]float32, len(v.values))
	for i, x := range v.values {
		out[i] = float32(x)
	}
	return out
}

// Float64s returns the values in wire order as float64
func (v FeatureVector) Float64s() []float64 {
	out := make([]float64, len(v.values))
	for i, x := range v.values {
		out[i] = float64(x)
	}
	return out
}

// Map returns the vector as a column -> value map
func (v FeatureVector) Map() map[string]uint8 {
	out := make(map[string]uint8, len(v.values))
	for i, c := range v.columns {
		out[c] = v.values[i]
	}
	return out
}

// MarshalJSON keeps the wire order, which a plain map would lose
func (v FeatureVector) MarshalJSON() ([]byte, error) {
	// []uint8 would be encoded as base64
	values := make([]int, len(v.values))
	for i, x := range v.values {
		values[i] = int(x)
	}
	return json.Marshal(struct {
		Columns []string `json:"columns"`
		Values  []int    `json:"values"`
	}{
		Columns: v.columns,
		Values:  values,
	})
}

// CategorySet holds the taxonomy codes detected in a text, in taxonomy order
type CategorySet []string

// Contains reports whether code is in the set
func (s CategorySet) Contains(code string) bool {
	for _, c := range s {
		if c == code {
			return true
		}
	}
	return false
}

// Intersect returns the codes of s that are also in other, keeping s's order
func (s CategorySet) Intersect(other CategorySet) CategorySet {
	lookup := make(map[string]struct{}, len(other))
	for _, c := range other {
		lookup[c] = struct{}{}
	}
	out := CategorySet{}
	seen := make(map[string]struct{}, len(s))
	for _, c := range s {
		if _, ok := lookup[c]; !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// MatchResult is the outcome of one resume/job comparison
type MatchResult struct {
	RawProbability float64     `json:"raw_probability"`
	AdjustedScore  float64     `json:"adjusted_score"`
	OverlapSize    int         `json:"overlap_size"`
	Overlap        CategorySet `json:"overlap"`
	Label          Label       `json:"label"`
}

// Resume represents a resume stored in the local library
type Resume struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	FilePath    string    `json:"file_path"`
	ContentText string    `json:"content_text"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

// TaxonomyRecord is an imported taxonomy version kept in the registry
type TaxonomyRecord struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Document  string    `json:"document"`
	CreatedAt time.Time `json:"created_at"`
}
