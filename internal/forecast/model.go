package forecast

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Classifier predicts one class index per feature row.
type Classifier interface {
	Predict(rows [][]float64) ([]int, error)
}

// Forest is a decision forest loaded from a JSON artifact. Each tree votes and
// the most voted class wins; ties go to the lower index.
type Forest struct {
	Features []string `json:"features"`
	Classes  []string `json:"classes"`
	Trees    []Tree   `json:"trees"`
}

// Tree is a flattened binary decision tree; node 0 is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is a split when Feature >= 0, otherwise a leaf predicting Class.
// Rows with feature value <= Threshold go left.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Class     int     `json:"class"`
}

// LoadForest reads and validates a forest artifact.
func LoadForest(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}
	return &f, nil
}

// Validate checks that the forest matches the feature schema and that every
// tree is walkable.
func (f *Forest) Validate() error {
	if len(f.Features) != len(FeatureNames) {
		return fmt.Errorf("model expects %d features, want %d", len(f.Features), len(FeatureNames))
	}
	for i, name := range FeatureNames {
		if f.Features[i] != name {
			return fmt.Errorf("feature %d is %q, want %q", i, f.Features[i], name)
		}
	}
	if len(f.Classes) == 0 {
		return errors.New("model has no classes")
	}
	if len(f.Trees) == 0 {
		return errors.New("model has no trees")
	}

	for ti, t := range f.Trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("tree %d is empty", ti)
		}
		for ni, n := range t.Nodes {
			if n.Feature < 0 {
				if n.Class < 0 || n.Class >= len(f.Classes) {
					return fmt.Errorf("tree %d node %d: class %d out of range", ti, ni, n.Class)
				}
				continue
			}
			if n.Feature >= len(f.Features) {
				return fmt.Errorf("tree %d node %d: feature %d out of range", ti, ni, n.Feature)
			}
			// children must point forward, which also rules out cycles
			if n.Left <= ni || n.Left >= len(t.Nodes) || n.Right <= ni || n.Right >= len(t.Nodes) {
				return fmt.Errorf("tree %d node %d: bad children %d/%d", ti, ni, n.Left, n.Right)
			}
		}
	}
	return nil
}

// Predict implements Classifier.
func (f *Forest) Predict(rows [][]float64) ([]int, error) {
	out := make([]int, len(rows))
	for i, row := range rows {
		if len(row) != len(f.Features) {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), len(f.Features))
		}

		votes := make([]int, len(f.Classes))
		for _, t := range f.Trees {
			votes[t.classify(row)]++
		}

		best := 0
		for c := 1; c < len(votes); c++ {
			if votes[c] > votes[best] {
				best = c
			}
		}
		out[i] = best
	}
	return out, nil
}

func (t Tree) classify(row []float64) int {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return n.Class
		}
		if row[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
