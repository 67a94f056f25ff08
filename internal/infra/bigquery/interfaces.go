package bigquery

import (
	"context"
)

// ScoringRunRepository records the lifecycle of scoring runs. Engines treat
// it as optional bookkeeping: a nil repository disables the audit trail, and
// recording failures are logged, never fatal for the invocation.
type ScoringRunRepository interface {
	// StartScoringRun inserts a RUNNING row and returns its generated ID.
	StartScoringRun(ctx context.Context, action string) (string, error)

	// MarkScoringRunSucceeded finishes a run with SUCCESS and row counts.
	MarkScoringRunSucceeded(ctx context.Context, scoringRunID string, rowsTotal, rowsScored int) error

	// MarkScoringRunFailed finishes a run with FAILED and the error message.
	MarkScoringRunFailed(ctx context.Context, scoringRunID string, runErr error)

	// ListRecentRuns returns the most recent runs, newest first.
	ListRecentRuns(ctx context.Context, limit int) ([]*ScoringRunRow, error)
}
