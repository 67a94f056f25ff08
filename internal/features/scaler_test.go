package features

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFitScaler(t *testing.T) {
	matrix := [][]float64{{1, 10}, {2, 10}, {3, 10}}
	s := FitScaler(matrix, []string{"a", "b"})

	if !almostEqual(s.Mean[0], 2) {
		t.Errorf("mean[0] = %v, want 2", s.Mean[0])
	}
	// Population std-dev (ddof=0), not sample.
	if !almostEqual(s.Scale[0], math.Sqrt(2.0/3.0)) {
		t.Errorf("scale[0] = %v, want sqrt(2/3)", s.Scale[0])
	}
	// Constant column scales by 1 so it passes through centered.
	if !almostEqual(s.Scale[1], 1) {
		t.Errorf("scale[1] = %v, want 1", s.Scale[1])
	}
}

func TestTransform(t *testing.T) {
	s := &Scaler{Columns: []string{"a"}, Mean: []float64{2}, Scale: []float64{0.5}}
	matrix := [][]float64{{3}}
	if err := s.Transform(matrix, []string{"a"}); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !almostEqual(matrix[0][0], 2) {
		t.Errorf("standardized = %v, want 2", matrix[0][0])
	}
}

func TestTransform_EmptyMatrixIsNoop(t *testing.T) {
	s := &Scaler{Columns: []string{"a"}, Mean: []float64{2}, Scale: []float64{0.5}}
	if err := s.Transform(nil, []string{"b"}); err != nil {
		t.Errorf("empty matrix must be a no-op, got %v", err)
	}
}

func TestTransform_RejectsPermutedColumns(t *testing.T) {
	s := FitScaler([][]float64{{1, 2, 3}, {4, 5, 6}}, []string{"a", "b", "c"})
	matrix := [][]float64{{2, 1, 3}}
	if err := s.Transform(matrix, []string{"b", "a", "c"}); err == nil {
		t.Error("permuted columns must be rejected, not silently scaled")
	}
}
