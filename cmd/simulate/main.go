package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/civil"

	"github.com/juandiazx/hackupc-2025/internal/engine"
	"github.com/juandiazx/hackupc-2025/internal/ledger"
	"github.com/juandiazx/hackupc-2025/internal/logger"
	"github.com/juandiazx/hackupc-2025/internal/simulate"
	"github.com/juandiazx/hackupc-2025/internal/store"
)

func main() {
	cfg := engine.DefaultConfig()

	var (
		startStr = flag.String("start", "2023-05-01", "First day of the generated range (YYYY-MM-DD)")
		endStr   = flag.String("end", "2025-05-04", "Last day of the generated range (YYYY-MM-DD)")
		seed     = flag.Int64("seed", time.Now().UnixNano(), "Random seed; fix it for a reproducible dataset")
		out      = flag.String("out", "simulated_expenses.csv", "Output CSV path")
		upload   = flag.Bool("upload", false, "Also upload the dataset to the data bucket")
		bucket   = flag.String("bucket", cfg.DataBucket, "GCS bucket for -upload")
		object   = flag.String("object", cfg.DatasetKey, "GCS object name for -upload")
	)
	flag.Parse()

	log := logger.New()

	start, err := civil.ParseDate(*startStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -start date")
	}
	end, err := civil.ParseDate(*endStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid -end date")
	}
	if end.Before(start) {
		log.Fatal().Msg("-end is before -start")
	}

	table := simulate.Generate(start, end, *seed)
	log.Info().
		Int("rows", table.Len()).
		Str("start", start.String()).
		Str("end", end.String()).
		Int64("seed", *seed).
		Msg("Generated simulated expenses")

	data, err := ledger.EncodeCSV(table)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode dataset")
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatal().Err(err).Str("path", *out).Msg("Failed to write dataset")
	}
	fmt.Printf("Wrote %d rows to %s\n", table.Len(), *out)

	if !*upload {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	gcs, err := store.NewGCS(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer gcs.Close()

	if err := gcs.Put(ctx, *bucket, *object, data, "text/csv"); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}
	fmt.Printf("Uploaded to gs://%s/%s\n", *bucket, *object)
}
