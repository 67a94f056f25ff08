package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/juandiazx/hackupc-2025/internal/engine"
	"github.com/juandiazx/hackupc-2025/internal/ledger"
	"github.com/juandiazx/hackupc-2025/internal/logger"
	"github.com/juandiazx/hackupc-2025/internal/store"
)

func main() {
	cfg := engine.DefaultConfig()

	var (
		bucket   = flag.String("bucket", cfg.DataBucket, "GCS bucket for the dataset")
		object   = flag.String("object", cfg.DatasetKey, "GCS object name")
		filePath = flag.String("file", "", "Path to local CSV dataset")
	)
	flag.Parse()

	log := logger.New()

	if *filePath == "" {
		log.Fatal().Msg("Usage: upload-dataset -file PATH [-bucket NAME] [-object NAME]")
	}

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *filePath).Msg("Failed to read dataset")
	}

	// Reject malformed datasets before they replace the active object.
	table, err := ledger.ReadCSV(bytes.NewReader(data))
	if err != nil {
		log.Fatal().Err(err).Msg("Dataset is not valid CSV")
	}
	if missing := table.MissingColumns(ledger.RequiredColumns); len(missing) > 0 {
		log.Fatal().Str("missing", strings.Join(missing, ", ")).Msg("Dataset is missing required columns")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	gcs, err := store.NewGCS(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer gcs.Close()

	log.Info().
		Str("bucket", *bucket).
		Str("object", *object).
		Int("rows", table.Len()).
		Msg("Uploading dataset")

	if err := gcs.Put(ctx, *bucket, *object, data, "text/csv"); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to gs://%s/%s (%d rows)\n", *filePath, *bucket, *object, table.Len())
}
