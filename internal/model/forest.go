package model

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Task values carried by forest artifacts.
const (
	TaskClassification = "classification"
	TaskRegression     = "regression"
)

// Tree is one decision tree in flattened array form: node i splits on
// Feature[i] at Threshold[i] (go left when value <= threshold), or is a leaf
// carrying Value[i] when Feature[i] < 0.
type Tree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Value     []float64 `json:"value"`
}

// Forest is a tree ensemble: majority vote for classification, mean leaf
// value for regression.
type Forest struct {
	Kind        string `json:"kind"`
	Version     int    `json:"version"`
	Task        string `json:"task"`
	NumFeatures int    `json:"n_features"`
	Trees       []Tree `json:"trees"`
}

func (t *Tree) apply(row []float64) (float64, error) {
	n := len(t.Feature)
	node := 0
	// A well-formed tree descends strictly, so n steps means a cycle.
	for steps := 0; steps <= n; steps++ {
		if node < 0 || node >= n {
			return 0, fmt.Errorf("apply: node index %d outside tree of %d nodes", node, n)
		}
		f := t.Feature[node]
		if f < 0 {
			return t.Value[node], nil
		}
		if f >= len(row) {
			return 0, fmt.Errorf("apply: split on feature %d, row has %d", f, len(row))
		}
		if row[f] <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}
	return 0, fmt.Errorf("apply: tree traversal did not terminate")
}

func (f *Forest) validate() error {
	if f.Kind != "forest" {
		return fmt.Errorf("validate: unsupported model kind %q", f.Kind)
	}
	if f.Task != TaskClassification && f.Task != TaskRegression {
		return fmt.Errorf("validate: unsupported task %q", f.Task)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("validate: forest has no trees")
	}
	for i, t := range f.Trees {
		n := len(t.Feature)
		if len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n || len(t.Value) != n {
			return fmt.Errorf("validate: tree %d has inconsistent node arrays", i)
		}
	}
	return nil
}

func (f *Forest) checkRow(row []float64) error {
	if len(row) != f.NumFeatures {
		return fmt.Errorf("predict: row has %d features, model expects %d", len(row), f.NumFeatures)
	}
	return nil
}

// Predict implements Classifier via majority vote across trees. Ties break
// toward the lowest class code so repeated runs agree.
func (f *Forest) Predict(matrix [][]float64) ([]int, error) {
	if f.Task != TaskClassification {
		return nil, fmt.Errorf("Predict: %s model used as classifier", f.Task)
	}
	out := make([]int, len(matrix))
	for i, row := range matrix {
		if err := f.checkRow(row); err != nil {
			return nil, err
		}
		votes := make(map[int]int)
		for _, t := range f.Trees {
			v, err := t.apply(row)
			if err != nil {
				return nil, err
			}
			votes[int(v)]++
		}
		best, bestVotes := 0, -1
		for code, n := range votes {
			if n > bestVotes || (n == bestVotes && code < best) {
				best, bestVotes = code, n
			}
		}
		out[i] = best
	}
	return out, nil
}

// PredictScalar implements Regressor via the mean leaf value across trees.
func (f *Forest) PredictScalar(row []float64) (float64, error) {
	if f.Task != TaskRegression {
		return 0, fmt.Errorf("PredictScalar: %s model used as regressor", f.Task)
	}
	if err := f.checkRow(row); err != nil {
		return 0, err
	}
	leaves := make([]float64, len(f.Trees))
	for i, t := range f.Trees {
		v, err := t.apply(row)
		if err != nil {
			return 0, err
		}
		leaves[i] = v
	}
	return stat.Mean(leaves, nil), nil
}

// regressorForest adapts Forest to the Regressor interface.
type regressorForest struct {
	*Forest
}

func (r regressorForest) Predict(row []float64) (float64, error) {
	return r.PredictScalar(row)
}
