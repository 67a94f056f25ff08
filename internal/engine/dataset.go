package engine

import (
	"bytes"
	"context"
	"fmt"

	"github.com/juandiazx/hackupc-2025/internal/ledger"
	"github.com/juandiazx/hackupc-2025/internal/store"
)

// LoadDataset fetches and parses the input ledger from the dataset bucket.
func LoadDataset(ctx context.Context, s store.Store, cfg Config) (*ledger.Table, error) {
	data, err := s.Get(ctx, cfg.DataBucket, cfg.DatasetKey)
	if err != nil {
		return nil, fmt.Errorf("LoadDataset: fetching %s/%s: %w", cfg.DataBucket, cfg.DatasetKey, err)
	}
	table, err := ledger.ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("LoadDataset: %w", err)
	}
	return table, nil
}
