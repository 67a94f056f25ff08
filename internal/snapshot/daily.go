package snapshot

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/juandiazx/hackupc-2025/internal/ledger"
)

// DayTotal is one entry of the current month's cumulative spending series.
type DayTotal struct {
	Day   int     `json:"day"`
	Total float64 `json:"totalMonthExpensesTillToday"`
}

// DailyCumulative builds the running total per calendar day for the current
// month, from day 1 through today inclusive. Days without transactions still
// appear, carrying the previous total forward; future-dated rows are
// ignored. The series is therefore monotonically non-decreasing with length
// equal to today's day-of-month.
func DailyCumulative(records []ledger.Record, now time.Time) []DayTotal {
	perDay := make(map[int]decimal.Decimal)
	for _, r := range records {
		if !r.HasDate || !r.HasAmount {
			continue
		}
		if r.Date.Year != now.Year() || r.Date.Month != now.Month() || r.Date.Day > now.Day() {
			continue
		}
		perDay[r.Date.Day] = perDay[r.Date.Day].Add(decimal.NewFromFloat(r.Amount))
	}

	out := make([]DayTotal, 0, now.Day())
	running := decimal.Zero
	for day := 1; day <= now.Day(); day++ {
		running = running.Add(perDay[day])
		total, _ := running.Round(2).Float64()
		out = append(out, DayTotal{Day: day, Total: total})
	}
	return out
}
