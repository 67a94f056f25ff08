package model

import (
	"testing"
)

// stump returns a one-split tree: x[feature] <= threshold → leftValue.
func stump(feature int, threshold, leftValue, rightValue float64) Tree {
	return Tree{
		Feature:   []int{feature, -1, -1},
		Threshold: []float64{threshold, 0, 0},
		Left:      []int{1, -1, -1},
		Right:     []int{2, -1, -1},
		Value:     []float64{0, leftValue, rightValue},
	}
}

func TestForestClassifyMajority(t *testing.T) {
	f := &Forest{
		Kind:        "forest",
		Task:        TaskClassification,
		NumFeatures: 1,
		Trees: []Tree{
			stump(0, 0.5, 0, 1),
			stump(0, 0.5, 0, 1),
			stump(0, -10, 1, 1), // always votes 1
		},
	}
	if err := f.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	codes, err := f.Predict([][]float64{{0.0}, {1.0}})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if codes[0] != 0 {
		t.Errorf("row 0 = %d, want 0 (2 of 3 votes)", codes[0])
	}
	if codes[1] != 1 {
		t.Errorf("row 1 = %d, want 1 (unanimous)", codes[1])
	}
}

func TestForestRegressMean(t *testing.T) {
	f := &Forest{
		Kind:        "forest",
		Task:        TaskRegression,
		NumFeatures: 1,
		Trees: []Tree{
			stump(0, 0.5, 100, 200),
			stump(0, 0.5, 110, 210),
		},
	}

	got, err := f.PredictScalar([]float64{0.0})
	if err != nil {
		t.Fatalf("PredictScalar: %v", err)
	}
	if got != 105 {
		t.Errorf("prediction = %v, want 105", got)
	}
}

func TestForestRejectsWrongWidth(t *testing.T) {
	f := &Forest{Kind: "forest", Task: TaskClassification, NumFeatures: 2, Trees: []Tree{stump(0, 0, 0, 1)}}
	if _, err := f.Predict([][]float64{{1.0}}); err == nil {
		t.Error("expected error for feature-count mismatch")
	}
}

func TestForestTaskMismatch(t *testing.T) {
	f := &Forest{Kind: "forest", Task: TaskRegression, NumFeatures: 1, Trees: []Tree{stump(0, 0, 0, 1)}}
	if _, err := f.Predict([][]float64{{1.0}}); err == nil {
		t.Error("regression forest must refuse classification")
	}
}
