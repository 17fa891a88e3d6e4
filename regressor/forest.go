package regressor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Leaf marks a node without children
const Leaf = -1

// Tree is a flattened binary regression tree. Node i splits on column Feature[i], sending
// rows with x <= Threshold[i] to ChildrenLeft[i] and the rest to ChildrenRight[i]. Leaves
// have both children set to Leaf and predict Value[i]. Node 0 is the root.
type Tree struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

// Validate checks that every slice covers every node, that child indices point forward
// to existing nodes and that split features exist. Forward only children rule out cycles.
func (t Tree) Validate(nFeatures int) error {
	n := len(t.Value)
	if n == 0 {
		return fmt.Errorf("no nodes, %w", ErrMalformedTree)
	}
	if len(t.ChildrenLeft) != n || len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n {
		return fmt.Errorf("node slices have different lengths, %w", ErrMalformedTree)
	}

	for i := 0; i < n; i++ {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == Leaf && right == Leaf {
			continue
		}
		if left == Leaf || right == Leaf {
			return fmt.Errorf("node %d has a single child, %w", i, ErrMalformedTree)
		}
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("node %d has children out of range, %w", i, ErrMalformedTree)
		}
		if t.Feature[i] < 0 || t.Feature[i] >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d, %w", i, t.Feature[i], nFeatures, ErrMalformedTree)
		}
	}
	return nil
}

func (t Tree) predict(row []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != Leaf {
		if row[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// Forest averages the predictions of its trees
type Forest struct {
	names []string
	trees []Tree
}

func NewForest(names []string, trees []Tree) (*Forest, error) {
	if err := validateNames(names); err != nil {
		return nil, err
	}
	if len(trees) == 0 {
		return nil, ErrNoTrees
	}
	for i, tree := range trees {
		if err := tree.Validate(len(names)); err != nil {
			return nil, fmt.Errorf("tree %d, %w", i, err)
		}
	}

	f := &Forest{
		names: make([]string, len(names)),
		trees: trees,
	}
	copy(f.names, names)
	return f, nil
}

func (f *Forest) FeatureNames() []string {
	names := make([]string, len(f.names))
	copy(names, f.names)
	return names
}

func (f *Forest) Predict(x mat.Matrix) ([]float64, error) {
	m, err := checkCols(x, f.names)
	if err != nil {
		return nil, err
	}

	out := make([]float64, m)
	row := make([]float64, len(f.names))
	for i := 0; i < m; i++ {
		mat.Row(row, i, x)
		sum := 0.0
		for _, tree := range f.trees {
			sum += tree.predict(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out, nil
}

// Artifact returns the serializeable form of the model
func (f *Forest) Artifact() *Artifact {
	return &Artifact{
		Type:         TypeRandomForest,
		FeatureNames: f.FeatureNames(),
		Trees:        f.trees,
	}
}
