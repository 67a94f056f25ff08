package engine

import (
	"context"

	infra "github.com/juandiazx/hackupc-2025/internal/infra/bigquery"
	"github.com/juandiazx/hackupc-2025/internal/logger"
)

// The audit trail is best-effort bookkeeping. A nil repository disables it,
// and recording failures are logged without failing the invocation.

func startRun(ctx context.Context, repo infra.ScoringRunRepository, action string) string {
	if repo == nil {
		return ""
	}
	runID, err := repo.StartScoringRun(ctx, action)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn().
			Err(err).
			Str("action", action).
			Msg("Failed to start scoring run")
		return ""
	}
	return runID
}

func finishRun(ctx context.Context, repo infra.ScoringRunRepository, runID string, rowsTotal, rowsScored int) {
	if repo == nil || runID == "" {
		return
	}
	if err := repo.MarkScoringRunSucceeded(ctx, runID, rowsTotal, rowsScored); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().
			Err(err).
			Str("scoring_run_id", runID).
			Msg("Failed to mark scoring run succeeded")
	}
}

func failRun(ctx context.Context, repo infra.ScoringRunRepository, runID string, runErr error) {
	if repo == nil || runID == "" {
		return
	}
	repo.MarkScoringRunFailed(ctx, runID, runErr)
}
