// Package snapshot aggregates dated transactions into fixed-cutoff monthly
// progress records, the feature rows of the spending forecast model.
package snapshot

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/juandiazx/hackupc-2025/internal/ledger"
	"github.com/juandiazx/hackupc-2025/internal/money"
)

// TrainingCutoffs are the fixed day-of-month boundaries used when generating
// the training dataset. Inference uses today's day-of-month instead.
var TrainingCutoffs = []int{5, 10, 15, 20, 25, 28}

// ExpensiveThreshold is the amount above which a transaction counts as
// expensive (strictly greater).
const ExpensiveThreshold = 100.0

// Snapshot is one monthly aggregate record as of a cutoff day.
// TargetTotal (the full-month total) is the training label and is nil at
// inference time.
type Snapshot struct {
	Year  int
	Month int
	Day   int

	TotalSoFar      float64
	AvgDailySoFar   float64
	NumExpensive    int
	NumTransactions int

	TargetTotal *float64
}

// FeatureColumns is the feature order the forecast model was trained on.
// TargetTotal is never part of the feature vector.
func FeatureColumns() []string {
	return []string{
		"year", "month", "day",
		"total_so_far", "avg_daily_so_far",
		"num_expensive_transactions", "num_transactions",
	}
}

// Vector returns the snapshot as a feature row in FeatureColumns order.
func (s Snapshot) Vector() []float64 {
	return []float64{
		float64(s.Year), float64(s.Month), float64(s.Day),
		s.TotalSoFar, s.AvgDailySoFar,
		float64(s.NumExpensive), float64(s.NumTransactions),
	}
}

type monthKey struct {
	year  int
	month int
}

// Training groups transactions by calendar month and emits one snapshot per
// cutoff day with any transactions on or before it. TargetTotal is the whole
// month's total regardless of cutoff. Records without a parseable date or
// amount are excluded. Output order is chronological, cutoffs ascending.
func Training(records []ledger.Record, cutoffs []int) []Snapshot {
	groups := make(map[monthKey][]ledger.Record)
	for _, r := range records {
		if !r.HasDate || !r.HasAmount {
			continue
		}
		k := monthKey{r.Date.Year, int(r.Date.Month)}
		groups[k] = append(groups[k], r)
	}

	keys := make([]monthKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return keys[i].month < keys[j].month
	})

	var out []Snapshot
	for _, k := range keys {
		month := groups[k]
		target := money.Round2(sumAmounts(month))
		for _, cutoff := range cutoffs {
			s, ok := aggregate(month, k.year, k.month, cutoff)
			if !ok {
				continue
			}
			t := target
			s.TargetTotal = &t
			out = append(out, s)
		}
	}
	return out
}

// Current computes the single inference-time snapshot for now's calendar
// month, with the cutoff at today's day-of-month. ok is false when the
// current month holds no transactions; callers must then short-circuit to
// the zero forecast.
func Current(records []ledger.Record, now time.Time) (Snapshot, bool) {
	var month []ledger.Record
	for _, r := range records {
		if !r.HasDate || !r.HasAmount {
			continue
		}
		if r.Date.Year == now.Year() && r.Date.Month == now.Month() {
			month = append(month, r)
		}
	}
	return aggregate(month, now.Year(), int(now.Month()), now.Day())
}

// aggregate applies the shared formula over transactions with day <= cutoff.
// avg_daily_so_far divides by the cutoff day number, not the transaction
// count; the feature stays comparable across snapshots that way.
func aggregate(records []ledger.Record, year, month, cutoff int) (Snapshot, bool) {
	total := decimal.Zero
	expensive := 0
	count := 0
	for _, r := range records {
		if r.Date.Day > cutoff {
			continue
		}
		total = total.Add(decimal.NewFromFloat(r.Amount))
		if r.Amount > ExpensiveThreshold {
			expensive++
		}
		count++
	}
	if count == 0 {
		return Snapshot{}, false
	}

	totalF, _ := total.Round(2).Float64()
	avgF, _ := total.Div(decimal.NewFromInt(int64(cutoff))).Round(2).Float64()

	return Snapshot{
		Year:            year,
		Month:           month,
		Day:             cutoff,
		TotalSoFar:      totalF,
		AvgDailySoFar:   avgF,
		NumExpensive:    expensive,
		NumTransactions: count,
	}, true
}

func sumAmounts(records []ledger.Record) float64 {
	amounts := make([]float64, 0, len(records))
	for _, r := range records {
		amounts = append(amounts, r.Amount)
	}
	return money.Sum(amounts)
}
