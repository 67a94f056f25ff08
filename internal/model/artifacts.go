package model

import (
	"encoding/json"
	"fmt"

	"github.com/juandiazx/hackupc-2025/internal/features"
)

// vocabularyArtifact is the persisted form of a label encoder: the class
// list order is the code order assigned at fit time.
type vocabularyArtifact struct {
	Column  string   `json:"column"`
	Classes []string `json:"classes"`
}

// scalerArtifact is the persisted form of the standard scaler, in the exact
// column order used at fit time.
type scalerArtifact struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
}

// DecodeClassifier parses a classifier model artifact.
func DecodeClassifier(data []byte) (Classifier, error) {
	f, err := decodeForest(data)
	if err != nil {
		return nil, fmt.Errorf("DecodeClassifier: %w", err)
	}
	if f.Task != TaskClassification {
		return nil, fmt.Errorf("DecodeClassifier: artifact task is %q", f.Task)
	}
	return f, nil
}

// DecodeRegressor parses a regressor model artifact.
func DecodeRegressor(data []byte) (Regressor, error) {
	f, err := decodeForest(data)
	if err != nil {
		return nil, fmt.Errorf("DecodeRegressor: %w", err)
	}
	if f.Task != TaskRegression {
		return nil, fmt.Errorf("DecodeRegressor: artifact task is %q", f.Task)
	}
	return regressorForest{f}, nil
}

func decodeForest(data []byte) (*Forest, error) {
	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("unmarshaling forest: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// DecodeVocabulary parses a label-encoder artifact into a vocabulary.
func DecodeVocabulary(data []byte) (*features.Vocabulary, error) {
	var a vocabularyArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("DecodeVocabulary: %w", err)
	}
	if len(a.Classes) == 0 {
		return nil, fmt.Errorf("DecodeVocabulary: artifact for %q has no classes", a.Column)
	}
	return features.NewVocabulary(a.Classes), nil
}

// DecodeScaler parses a scaler artifact.
func DecodeScaler(data []byte) (*features.Scaler, error) {
	var a scalerArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("DecodeScaler: %w", err)
	}
	if len(a.Columns) == 0 || len(a.Mean) != len(a.Columns) || len(a.Scale) != len(a.Columns) {
		return nil, fmt.Errorf("DecodeScaler: inconsistent artifact: %d columns, %d means, %d scales",
			len(a.Columns), len(a.Mean), len(a.Scale))
	}
	return &features.Scaler{Columns: a.Columns, Mean: a.Mean, Scale: a.Scale}, nil
}

// EncodeVocabulary serializes a fitted vocabulary, for the training-side
// export path.
func EncodeVocabulary(column string, v *features.Vocabulary) ([]byte, error) {
	return json.Marshal(vocabularyArtifact{Column: column, Classes: v.Classes()})
}

// EncodeScaler serializes fitted scaling parameters.
func EncodeScaler(s *features.Scaler) ([]byte, error) {
	return json.Marshal(scalerArtifact{Columns: s.Columns, Mean: s.Mean, Scale: s.Scale})
}
