package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Date formats accepted by the ledger. ISO is the canonical format; the
// day-first form appears in exports from European banking apps.
const (
	DateFormatISO          = "2006-01-02"
	DateFormatDayMonthYear = "02/01/2006"
)

// Record is the typed view of one ledger row. Amount and Date carry presence
// flags because real exports have holes; the feature pipeline and the
// snapshot aggregator decide what to do with incomplete rows.
type Record struct {
	Amount    float64
	HasAmount bool
	Date      civil.Date
	HasDate   bool
	Category  string
	Merchant  string
	Label     string
}

// ParseDate parses a ledger date cell, trying the ISO format first and the
// day-first format second.
func ParseDate(cell string) (civil.Date, error) {
	s := strings.TrimSpace(cell)
	if t, err := time.Parse(DateFormatISO, s); err == nil {
		return civil.DateOf(t), nil
	}
	if t, err := time.Parse(DateFormatDayMonthYear, s); err == nil {
		return civil.DateOf(t), nil
	}
	return civil.Date{}, fmt.Errorf("ParseDate: unparseable date %q", cell)
}

// ParseAmount parses a ledger amount cell into a non-negative float.
func ParseAmount(cell string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, fmt.Errorf("ParseAmount: %w", err)
	}
	return v, nil
}

// Records materializes the typed view of the whole table. Unparseable cells
// become absent fields; rows are never dropped here.
func (t *Table) Records() []Record {
	records := make([]Record, len(t.Rows))
	for i := range t.Rows {
		r := Record{
			Category: strings.TrimSpace(t.Cell(i, ColCategory)),
			Merchant: strings.TrimSpace(t.Cell(i, ColMerchant)),
			Label:    strings.TrimSpace(t.Cell(i, ColLabel)),
		}
		if cell := t.Cell(i, ColAmount); !IsMissing(cell) {
			if v, err := ParseAmount(cell); err == nil {
				r.Amount = v
				r.HasAmount = true
			}
		}
		if cell := t.Cell(i, ColDate); !IsMissing(cell) {
			if d, err := ParseDate(cell); err == nil {
				r.Date = d
				r.HasDate = true
			}
		}
		records[i] = r
	}
	return records
}
