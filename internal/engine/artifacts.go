package engine

import (
	"context"
	"fmt"

	"github.com/juandiazx/hackupc-2025/internal/features"
	"github.com/juandiazx/hackupc-2025/internal/ledger"
	"github.com/juandiazx/hackupc-2025/internal/model"
	"github.com/juandiazx/hackupc-2025/internal/store"
)

// ClassifierArtifacts bundles the pre-fitted components of the
// classification pipeline, all loaded from the classifier bucket. The
// encoders map is keyed by source column name.
type ClassifierArtifacts struct {
	Model    model.Classifier
	Scaler   *features.Scaler
	Target   *features.Vocabulary
	Encoders map[string]*features.Vocabulary
}

// LoadClassifierArtifacts downloads and decodes the five classification
// artifacts. A missing or malformed artifact is fatal for the invocation.
func LoadClassifierArtifacts(ctx context.Context, s store.Store, bucket string) (*ClassifierArtifacts, error) {
	out := &ClassifierArtifacts{Encoders: make(map[string]*features.Vocabulary)}

	data, err := s.Get(ctx, bucket, KeyClassifierModel)
	if err != nil {
		return nil, fmt.Errorf("LoadClassifierArtifacts: fetching %s: %w", KeyClassifierModel, err)
	}
	if out.Model, err = model.DecodeClassifier(data); err != nil {
		return nil, fmt.Errorf("LoadClassifierArtifacts: %w", err)
	}

	data, err = s.Get(ctx, bucket, KeyScaler)
	if err != nil {
		return nil, fmt.Errorf("LoadClassifierArtifacts: fetching %s: %w", KeyScaler, err)
	}
	if out.Scaler, err = model.DecodeScaler(data); err != nil {
		return nil, fmt.Errorf("LoadClassifierArtifacts: %w", err)
	}

	data, err = s.Get(ctx, bucket, KeyTargetEncoder)
	if err != nil {
		return nil, fmt.Errorf("LoadClassifierArtifacts: fetching %s: %w", KeyTargetEncoder, err)
	}
	if out.Target, err = model.DecodeVocabulary(data); err != nil {
		return nil, fmt.Errorf("LoadClassifierArtifacts: %w", err)
	}

	encoderKeys := []struct {
		column string
		key    string
	}{
		{ledger.ColCategory, KeyCategoryEncoder},
		{ledger.ColMerchant, KeyMerchantEncoder},
	}
	for _, e := range encoderKeys {
		data, err = s.Get(ctx, bucket, e.key)
		if err != nil {
			return nil, fmt.Errorf("LoadClassifierArtifacts: fetching %s: %w", e.key, err)
		}
		vocab, err := model.DecodeVocabulary(data)
		if err != nil {
			return nil, fmt.Errorf("LoadClassifierArtifacts: %w", err)
		}
		out.Encoders[e.column] = vocab
	}

	return out, nil
}

// LoadRegressor downloads and decodes the forecast model.
func LoadRegressor(ctx context.Context, s store.Store, bucket string) (model.Regressor, error) {
	data, err := s.Get(ctx, bucket, KeyPredictorModel)
	if err != nil {
		return nil, fmt.Errorf("LoadRegressor: fetching %s: %w", KeyPredictorModel, err)
	}
	reg, err := model.DecodeRegressor(data)
	if err != nil {
		return nil, fmt.Errorf("LoadRegressor: %w", err)
	}
	return reg, nil
}
