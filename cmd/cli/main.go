package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/juandiazx/hackupc-2025/internal/engine"
	infraBQ "github.com/juandiazx/hackupc-2025/internal/infra/bigquery"
	"github.com/juandiazx/hackupc-2025/internal/logger"
	"github.com/juandiazx/hackupc-2025/internal/snapshot"
	"github.com/juandiazx/hackupc-2025/internal/store"
)

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "classify":
		runClassify(log)
	case "predict":
		runPredict(log)
	case "snapshots":
		runSnapshots(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Expenses CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  classify   Classify the dataset into wants and needs")
	fmt.Println("  predict    Predict the current month's final spending")
	fmt.Println("  snapshots  Export the monthly snapshot training dataset as CSV")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func engineConfig(fs *flag.FlagSet) *engine.Config {
	cfg := engine.DefaultConfig()
	fs.StringVar(&cfg.ClassifierBucket, "classifier-bucket", cfg.ClassifierBucket, "GCS bucket holding the classification artifacts")
	fs.StringVar(&cfg.PredictorBucket, "predictor-bucket", cfg.PredictorBucket, "GCS bucket holding the forecast model")
	fs.StringVar(&cfg.DataBucket, "data-bucket", cfg.DataBucket, "GCS bucket holding the expense datasets")
	fs.StringVar(&cfg.DatasetKey, "dataset", cfg.DatasetKey, "Dataset object key")
	return &cfg
}

func scoringRuns(ctx context.Context, projectID string, log zerolog.Logger) infraBQ.ScoringRunRepository {
	if projectID == "" {
		return nil
	}
	repo, err := infraBQ.NewRepository(ctx, projectID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scoring run repository")
	}
	return repo
}

func runClassify(log zerolog.Logger) {
	fs := flag.NewFlagSet("classify", flag.ExitOnError)
	cfg := engineConfig(fs)
	projectID := fs.String("project", os.Getenv("GCP_PROJECT"), "GCP project ID for scoring run bookkeeping; empty disables it")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	gcs, err := store.NewGCS(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer gcs.Close()

	table, err := engine.LoadDataset(ctx, gcs, *cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}

	classifier := &engine.Classifier{Store: gcs, Config: *cfg, Runs: scoringRuns(ctx, *projectID, log)}
	result, err := classifier.Classify(ctx, table)
	if err != nil {
		log.Fatal().Err(err).Msg("Classification failed")
	}

	printJSON(log, result)
}

func runPredict(log zerolog.Logger) {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	cfg := engineConfig(fs)
	projectID := fs.String("project", os.Getenv("GCP_PROJECT"), "GCP project ID for scoring run bookkeeping; empty disables it")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	gcs, err := store.NewGCS(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer gcs.Close()

	table, err := engine.LoadDataset(ctx, gcs, *cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}

	forecaster := &engine.Forecaster{Store: gcs, Config: *cfg, Runs: scoringRuns(ctx, *projectID, log)}
	result, err := forecaster.Forecast(ctx, table)
	if err != nil {
		log.Fatal().Err(err).Msg("Forecast failed")
	}

	printJSON(log, result)
}

// runSnapshots exports the aggregated monthly snapshots the forecast model
// trains on, one row per month and cutoff day.
func runSnapshots(log zerolog.Logger) {
	fs := flag.NewFlagSet("snapshots", flag.ExitOnError)
	cfg := engineConfig(fs)
	out := fs.String("out", "", "Output CSV path (defaults to stdout)")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	gcs, err := store.NewGCS(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer gcs.Close()

	table, err := engine.LoadDataset(ctx, gcs, *cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}

	snapshots := snapshot.Training(table.Records(), snapshot.TrainingCutoffs)

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatal().Err(err).Str("path", *out).Msg("Failed to create output file")
		}
		defer f.Close()
		w = f
	}

	if err := writeSnapshots(w, snapshots); err != nil {
		log.Fatal().Err(err).Msg("Failed to write snapshot CSV")
	}

	log.Info().Int("snapshots", len(snapshots)).Msg("Snapshot export completed")
}

// writeSnapshots encodes training snapshots as CSV in model feature order,
// with the full-month total appended as target_total_expenses. The offline
// trainer reads the label under that name.
func writeSnapshots(w io.Writer, snapshots []snapshot.Snapshot) error {
	cw := csv.NewWriter(w)
	header := append(snapshot.FeatureColumns(), "target_total_expenses")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writeSnapshots: %w", err)
	}
	for _, s := range snapshots {
		row := make([]string, 0, len(header))
		for _, v := range s.Vector() {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		target := ""
		if s.TargetTotal != nil {
			target = strconv.FormatFloat(*s.TargetTotal, 'f', -1, 64)
		}
		row = append(row, target)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writeSnapshots: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writeSnapshots: %w", err)
	}
	return nil
}

func printJSON(log zerolog.Logger, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode result")
	}
	fmt.Println(string(data))
}
