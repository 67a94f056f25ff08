package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/juandiazx/hackupc-2025/internal/logger"
)

// Repository is the BigQuery-backed ScoringRunRepository. It holds a shared
// client to avoid creating a new connection per operation.
type Repository struct {
	client *bigquery.Client
}

// NewRepository creates a repository for the given project.
func NewRepository(ctx context.Context, projectID string) (*Repository, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewRepository: creating client: %w", err)
	}
	return &Repository{client: client}, nil
}

// Close closes the BigQuery client connection.
func (r *Repository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// StartScoringRun inserts a new row with status=RUNNING and returns the
// generated scoring_run_id.
func (r *Repository) StartScoringRun(ctx context.Context, action string) (string, error) {
	scoringRunID := uuid.NewString()

	q := r.client.Query(fmt.Sprintf(`
		INSERT %s.%s (
			scoring_run_id,
			action,
			started_ts,
			status
		)
		VALUES (
			@scoring_run_id,
			@action,
			@started_ts,
			@status
		)
	`, DatasetID, ScoringRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "scoring_run_id", Value: scoringRunID},
		{Name: "action", Value: action},
		{Name: "started_ts", Value: time.Now()},
		{Name: "status", Value: StatusRunning},
	}

	if err := runAndWait(ctx, q, "StartScoringRun"); err != nil {
		return "", err
	}
	return scoringRunID, nil
}

// MarkScoringRunSucceeded sets status=SUCCESS, finished_ts and row counts.
func (r *Repository) MarkScoringRunSucceeded(ctx context.Context, scoringRunID string, rowsTotal, rowsScored int) error {
	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = "",
		    rows_total = @rows_total,
		    rows_scored = @rows_scored
		WHERE scoring_run_id = @scoring_run_id
	`, DatasetID, ScoringRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: StatusSuccess},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "rows_total", Value: rowsTotal},
		{Name: "rows_scored", Value: rowsScored},
		{Name: "scoring_run_id", Value: scoringRunID},
	}

	return runAndWait(ctx, q, "MarkScoringRunSucceeded")
}

// MarkScoringRunFailed sets status=FAILED, finished_ts and error_message.
// Best-effort: failures are logged, not returned, so bookkeeping never masks
// the original pipeline error.
func (r *Repository) MarkScoringRunFailed(ctx context.Context, scoringRunID string, runErr error) {
	log := logger.FromContext(ctx)

	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
		const maxLen = 2000
		if len(errMsg) > maxLen {
			errMsg = errMsg[:maxLen]
		}
	}

	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET status = @status,
		    finished_ts = @finished_ts,
		    error_message = @error_message
		WHERE scoring_run_id = @scoring_run_id
	`, DatasetID, ScoringRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "status", Value: StatusFailed},
		{Name: "finished_ts", Value: time.Now()},
		{Name: "error_message", Value: errMsg},
		{Name: "scoring_run_id", Value: scoringRunID},
	}

	if err := runAndWait(ctx, q, "MarkScoringRunFailed"); err != nil {
		log.Error().
			Err(err).
			Str("scoring_run_id", scoringRunID).
			Msg("Failed to mark scoring run failed")
	}
}

// ListRecentRuns returns the most recent runs, newest first.
func (r *Repository) ListRecentRuns(ctx context.Context, limit int) ([]*ScoringRunRow, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT *
		FROM %s.%s
		ORDER BY started_ts DESC
		LIMIT @limit
	`, DatasetID, ScoringRunsTable))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "limit", Value: limit},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListRecentRuns: reading query: %w", err)
	}

	var rows []*ScoringRunRow
	for {
		var row ScoringRunRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListRecentRuns: iterating rows: %w", err)
		}
		rows = append(rows, &row)
	}

	return rows, nil
}

func runAndWait(ctx context.Context, q *bigquery.Query, op string) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("%s: running query: %w", op, err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("%s: waiting for job: %w", op, err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("%s: job error: %w", op, err)
	}
	return nil
}

// Ensure Repository implements ScoringRunRepository.
var _ ScoringRunRepository = (*Repository)(nil)
