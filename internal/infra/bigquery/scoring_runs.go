// Package bigquery keeps the serving audit trail: one row per scoring run
// (classification or forecast), RUNNING until the invocation finishes.
package bigquery

import (
	"time"

	"cloud.google.com/go/bigquery"
)

// Dataset and table names of the scoring audit trail.
const (
	DatasetID        = "expenses"
	ScoringRunsTable = "scoring_runs"
)

// Scoring run statuses.
const (
	StatusRunning = "RUNNING"
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// ScoringRunRow is one row of expenses.scoring_runs.
type ScoringRunRow struct {
	ScoringRunID string `bigquery:"scoring_run_id"` // REQUIRED
	Action       string `bigquery:"action"`         // classify-expenses | predict-expenses

	StartedTS  time.Time              `bigquery:"started_ts"`  // REQUIRED
	FinishedTS bigquery.NullTimestamp `bigquery:"finished_ts"` // NULLABLE

	Status       string `bigquery:"status"`        // NULLABLE
	ErrorMessage string `bigquery:"error_message"` // NULLABLE

	// Row accounting for the run, NULL until the run finishes.
	RowsTotal  bigquery.NullInt64 `bigquery:"rows_total"`
	RowsScored bigquery.NullInt64 `bigquery:"rows_scored"`
}
