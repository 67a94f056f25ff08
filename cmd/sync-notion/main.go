package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/juandiazx/hackupc-2025/internal/engine"
	"github.com/juandiazx/hackupc-2025/internal/ledger"
	"github.com/juandiazx/hackupc-2025/internal/logger"
	"github.com/juandiazx/hackupc-2025/internal/notionsync"
	"github.com/juandiazx/hackupc-2025/internal/store"
)

func main() {
	cfg := engine.DefaultConfig()

	var (
		token  = flag.String("token", os.Getenv("NOTION_TOKEN"), "Notion API token (or set NOTION_TOKEN env)")
		dbID   = flag.String("db", os.Getenv("NOTION_EXPENSES_DB"), "Notion database ID for expenses (or set NOTION_EXPENSES_DB env)")
		bucket = flag.String("bucket", cfg.DataBucket, "GCS bucket holding the reviewed dataset")
		object = flag.String("object", cfg.ReviewedKey, "Reviewed dataset object key")
		dryRun = flag.Bool("dry-run", false, "Log what would change without touching Notion")
	)
	flag.Parse()

	log := logger.New()

	if *token == "" || *dbID == "" {
		log.Fatal().Msg("Usage: sync-notion -token TOKEN -db DATABASE_ID [-dry-run]")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	gcs, err := store.NewGCS(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create storage client")
	}
	defer gcs.Close()

	data, err := gcs.Get(ctx, *bucket, *object)
	if err != nil {
		log.Fatal().Err(err).
			Str("bucket", *bucket).
			Str("object", *object).
			Msg("Failed to fetch reviewed dataset; run a classification first")
	}

	table, err := ledger.ReadCSV(bytes.NewReader(data))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse reviewed dataset")
	}

	client := notionsync.NewNotionClient(*token)
	if err := notionsync.SyncExpenses(ctx, table, client, *dbID, *dryRun); err != nil {
		log.Fatal().Err(err).Msg("Expense sync failed")
	}

	fmt.Println("Expense sync completed successfully.")
}
