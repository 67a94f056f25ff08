package features

import (
	"math"
	"time"

	"github.com/juandiazx/hackupc-2025/internal/ledger"
)

// DerivedDayOfWeek is the feature column produced from the date column.
const DerivedDayOfWeek = "DayOfWeek"

// DayOfWeek maps a date column to day-of-week ordinals (0=Monday..6=Sunday).
// Undetermined rows become NaN and their raw values are reported on diag in
// one batched warning; dropping those rows is the assembler's job.
//
// The format is decided once for the whole column: if every non-missing cell
// parses as ISO (YYYY-MM-DD) the column is ISO; otherwise the column falls
// back to DD/MM/YYYY with row-level coercion. Columns cannot mix formats.
func DayOfWeek(dates []string, diag *Diagnostics) []float64 {
	out := make([]float64, len(dates))

	if parseColumn(dates, ledger.DateFormatISO, out) {
		reportUndetermined(dates, out, diag)
		return out
	}

	parseColumn(dates, ledger.DateFormatDayMonthYear, out)
	reportUndetermined(dates, out, diag)
	return out
}

// parseColumn fills out with ordinals under one format. Missing cells map to
// NaN without failing the column; any other unparseable cell makes the whole
// column fail (return false) so the caller can try the fallback format.
func parseColumn(dates []string, format string, out []float64) bool {
	ok := true
	for i, cell := range dates {
		if ledger.IsMissing(cell) {
			out[i] = math.NaN()
			continue
		}
		t, err := time.Parse(format, cell)
		if err != nil {
			out[i] = math.NaN()
			ok = false
			continue
		}
		out[i] = float64(mondayOrdinal(t.Weekday()))
	}
	return ok
}

// mondayOrdinal converts Go's Sunday-based weekday to the Monday=0 ordinal
// the model was trained on.
func mondayOrdinal(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func reportUndetermined(dates []string, out []float64, diag *Diagnostics) {
	if diag == nil {
		return
	}
	seen := make(map[string]bool)
	var bad []string
	for i, v := range out {
		if math.IsNaN(v) && !seen[dates[i]] {
			seen[dates[i]] = true
			bad = append(bad, dates[i])
		}
	}
	if len(bad) > 0 {
		diag.Warnf("could not determine day of week for: %q", bad)
	}
}
