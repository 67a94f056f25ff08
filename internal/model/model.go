// Package model decodes the pre-fitted artifacts exported by the offline
// trainer and applies them. Artifacts are opaque versioned JSON blobs under
// stable object keys; the serving pipeline only depends on the Predict
// interfaces and the vocabulary encode/decode surface.
package model

// Classifier predicts one integer class code per feature row.
type Classifier interface {
	Predict(matrix [][]float64) ([]int, error)
}

// Regressor predicts a scalar from a single feature row.
type Regressor interface {
	Predict(row []float64) (float64, error)
}
