package features

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes numeric feature columns with parameters computed at
// fit time. Column order is part of the fitted state: applying a scaler to a
// matrix whose columns differ from fit-time order is rejected, because a
// silent permutation would produce wrong features with no error anywhere
// downstream.
type Scaler struct {
	Columns []string
	Mean    []float64
	Scale   []float64
}

// FitScaler computes per-column mean and population standard deviation over
// the matrix (ddof=0, matching the training-side scaler). Columns with zero
// spread scale by 1 so constant features pass through centered.
func FitScaler(matrix [][]float64, columns []string) *Scaler {
	s := &Scaler{
		Columns: append([]string(nil), columns...),
		Mean:    make([]float64, len(columns)),
		Scale:   make([]float64, len(columns)),
	}
	col := make([]float64, len(matrix))
	for j := range columns {
		for i := range matrix {
			col[i] = matrix[i][j]
		}
		s.Mean[j] = stat.Mean(col, nil)
		sd := stat.PopStdDev(col, nil)
		if sd == 0 {
			sd = 1
		}
		s.Scale[j] = sd
	}
	return s
}

// Transform standardizes the matrix in place using the fitted parameters.
// An empty matrix is a no-op. A column-order mismatch is an error.
func (s *Scaler) Transform(matrix [][]float64, columns []string) error {
	if len(matrix) == 0 {
		return nil
	}
	if err := s.checkColumns(columns); err != nil {
		return err
	}
	for i := range matrix {
		for j := range s.Columns {
			matrix[i][j] = (matrix[i][j] - s.Mean[j]) / s.Scale[j]
		}
	}
	return nil
}

func (s *Scaler) checkColumns(columns []string) error {
	if len(columns) != len(s.Columns) {
		return fmt.Errorf("Transform: got %d columns, scaler fitted on %d", len(columns), len(s.Columns))
	}
	for i, name := range columns {
		if name != s.Columns[i] {
			return fmt.Errorf("Transform: column %d is %q, scaler fitted on %q", i, name, s.Columns[i])
		}
	}
	return nil
}
