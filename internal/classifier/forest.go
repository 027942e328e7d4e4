package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/khrees2412/jobmatch/pkg/models"
)

// Tree mirrors scikit-learn's tree_ arrays. A node is a leaf when its left
// child is -1.
type Tree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// ForestModel is a JSON export of a fitted random forest classifier
type ForestModel struct {
	FeatureNames []string `json:"feature_names"`
	NFeatures    int      `json:"n_features"`
	Classes      []int    `json:"classes"`
	Trees        []Tree   `json:"trees"`
}

// Forest evaluates a ForestModel with predict_proba semantics: the mean of
// each tree's normalized leaf class distribution.
type Forest struct {
	model ForestModel
}

// LoadForest reads a forest export and checks it against columns
func LoadForest(path string, columns []string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	var m ForestModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrModelUnavailable, path, err)
	}
	return NewForest(m, columns)
}

// NewForest validates m and wraps it
func NewForest(m ForestModel, columns []string) (*Forest, error) {
	if m.NFeatures == 0 {
		m.NFeatures = len(m.FeatureNames)
	}
	if len(m.Trees) == 0 {
		return nil, fmt.Errorf("%w: forest has no trees", ErrModelUnavailable)
	}
	if len(m.Classes) != 2 {
		return nil, fmt.Errorf("%w: expected a binary classifier, got %d classes", ErrModelUnavailable, len(m.Classes))
	}
	if err := checkColumns(m.FeatureNames, columns); err != nil {
		return nil, err
	}
	if len(columns) > 0 && m.NFeatures != len(columns) {
		return nil, fmt.Errorf("%w: model has %d features, taxonomy has %d columns", ErrFeatureMismatch, m.NFeatures, len(columns))
	}

	for i, t := range m.Trees {
		if err := validateTree(t, m.NFeatures); err != nil {
			return nil, fmt.Errorf("%w: tree %d: %v", ErrModelUnavailable, i, err)
		}
	}
	return &Forest{model: m}, nil
}

func validateTree(t Tree, nFeatures int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("empty tree")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("node arrays differ in length")
	}
	for i := 0; i < n; i++ {
		if t.ChildrenLeft[i] == -1 {
			if len(t.Value[i]) != 2 {
				return fmt.Errorf("leaf %d has %d class values", i, len(t.Value[i]))
			}
			continue
		}
		// children always come after their parent, so walks terminate
		if t.ChildrenLeft[i] <= i || t.ChildrenLeft[i] >= n || t.ChildrenRight[i] <= i || t.ChildrenRight[i] >= n {
			return fmt.Errorf("node %d has out of range children", i)
		}
		if t.Feature[i] < 0 || (nFeatures > 0 && t.Feature[i] >= nFeatures) {
			return fmt.Errorf("node %d splits on feature %d", i, t.Feature[i])
		}
	}
	return nil
}

// Predict returns the probability of classes[1]
func (f *Forest) Predict(_ context.Context, features models.FeatureVector) (float64, error) {
	if f.model.NFeatures > 0 && features.Len() != f.model.NFeatures {
		return 0, fmt.Errorf("%w: got %d features, model expects %d", ErrFeatureMismatch, features.Len(), f.model.NFeatures)
	}

	x := features.Float64s()
	var sum float64
	for _, t := range f.model.Trees {
		sum += leafProbability(t, x)
	}
	return sum / float64(len(f.model.Trees)), nil
}

func leafProbability(t Tree, x []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != -1 {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	v := t.Value[node]
	total := v[0] + v[1]
	if total == 0 {
		return 0
	}
	return v[1] / total
}

// Close is a no-op, the forest holds no external resources
func (f *Forest) Close() error {
	return nil
}
