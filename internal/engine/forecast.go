package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	infra "github.com/juandiazx/hackupc-2025/internal/infra/bigquery"
	"github.com/juandiazx/hackupc-2025/internal/ledger"
	"github.com/juandiazx/hackupc-2025/internal/logger"
	"github.com/juandiazx/hackupc-2025/internal/money"
	"github.com/juandiazx/hackupc-2025/internal/snapshot"
	"github.com/juandiazx/hackupc-2025/internal/store"
)

// Forecaster predicts the current month's final spending total from the
// transactions recorded so far. Now is an injectable clock; nil means
// time.Now.
type Forecaster struct {
	Store  store.Store
	Config Config
	Runs   infra.ScoringRunRepository
	Now    func() time.Time
}

// Forecast aggregates the current month, runs the regressor, and returns the
// prediction with the daily cumulative series. A month without transactions
// yields the zero forecast without touching the model.
func (f *Forecaster) Forecast(ctx context.Context, table *ledger.Table) (*ForecastResult, error) {
	log := logger.FromContext(ctx)

	if missing := table.MissingColumns([]string{ledger.ColAmount, ledger.ColDate}); len(missing) > 0 {
		return nil, fmt.Errorf("Forecast: dataset is missing required columns: %s", strings.Join(missing, ", "))
	}

	now := time.Now()
	if f.Now != nil {
		now = f.Now()
	}

	runID := startRun(ctx, f.Runs, ActionPredict)

	records := table.Records()
	snap, ok := snapshot.Current(records, now)
	if !ok {
		log.Info().
			Int("year", now.Year()).
			Int("month", int(now.Month())).
			Msg("No transactions in the current month, returning zero forecast")
		finishRun(ctx, f.Runs, runID, table.Len(), 0)
		return &ForecastResult{
			ExpensesPerDayCurrentMonth: []snapshot.DayTotal{},
			FinalMonthPrediction:       0,
		}, nil
	}

	regressor, err := LoadRegressor(ctx, f.Store, f.Config.PredictorBucket)
	if err != nil {
		failRun(ctx, f.Runs, runID, err)
		return nil, fmt.Errorf("Forecast: %w", err)
	}

	prediction, err := regressor.Predict(snap.Vector())
	if err != nil {
		failRun(ctx, f.Runs, runID, err)
		return nil, fmt.Errorf("Forecast: predicting month total: %w", err)
	}

	finishRun(ctx, f.Runs, runID, table.Len(), snap.NumTransactions)

	return &ForecastResult{
		ExpensesPerDayCurrentMonth: snapshot.DailyCumulative(records, now),
		FinalMonthPrediction:       money.Round2(prediction),
	}, nil
}
