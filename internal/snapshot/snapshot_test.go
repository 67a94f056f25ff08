package snapshot

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/juandiazx/hackupc-2025/internal/ledger"
)

func rec(year int, month time.Month, day int, amount float64) ledger.Record {
	return ledger.Record{
		Amount:    amount,
		HasAmount: true,
		Date:      civil.Date{Year: year, Month: month, Day: day},
		HasDate:   true,
	}
}

func TestAggregateFormula(t *testing.T) {
	records := []ledger.Record{
		rec(2024, time.March, 1, 50),
		rec(2024, time.March, 3, 30),
		rec(2024, time.March, 10, 20),
	}

	s, ok := aggregate(records, 2024, 3, 5)
	if !ok {
		t.Fatal("expected a snapshot")
	}
	if s.TotalSoFar != 80 {
		t.Errorf("total_so_far = %v, want 80", s.TotalSoFar)
	}
	// Divide by the cutoff constant, never by the transaction count.
	if s.AvgDailySoFar != 16.0 {
		t.Errorf("avg_daily_so_far = %v, want 16.0 (80/5)", s.AvgDailySoFar)
	}
	if s.NumTransactions != 2 {
		t.Errorf("num_transactions = %d, want 2", s.NumTransactions)
	}
	if s.NumExpensive != 0 {
		t.Errorf("num_expensive_transactions = %d, want 0", s.NumExpensive)
	}
}

func TestTraining(t *testing.T) {
	records := []ledger.Record{
		rec(2024, time.February, 2, 120),
		rec(2024, time.February, 20, 40),
		rec(2024, time.January, 6, 10),
	}

	snaps := Training(records, TrainingCutoffs)

	// January has nothing on/before day 5, so its first cutoff is skipped:
	// 5 snapshots for January (cutoffs 10..28) + 6 for February.
	if len(snaps) != 11 {
		t.Fatalf("snapshot count = %d, want 11", len(snaps))
	}
	if snaps[0].Month != 1 || snaps[0].Day != 10 {
		t.Errorf("first snapshot = %+v, want January cutoff 10", snaps[0])
	}

	feb5 := snaps[5]
	if feb5.Year != 2024 || feb5.Month != 2 || feb5.Day != 5 {
		t.Fatalf("snaps[5] = %+v, want February cutoff 5", feb5)
	}
	if feb5.NumExpensive != 1 {
		t.Errorf("num_expensive_transactions = %d, want 1 (120 > 100)", feb5.NumExpensive)
	}
	if feb5.TargetTotal == nil || *feb5.TargetTotal != 160 {
		t.Errorf("target_total_expenses = %v, want 160 (whole month, cutoff ignored)", feb5.TargetTotal)
	}
}

func TestCurrent(t *testing.T) {
	now := time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)
	records := []ledger.Record{
		rec(2024, time.March, 2, 30),
		rec(2024, time.March, 11, 150),
		rec(2024, time.March, 20, 999), // future relative to now
		rec(2024, time.February, 2, 50),
	}

	s, ok := Current(records, now)
	if !ok {
		t.Fatal("expected a snapshot")
	}
	if s.Day != 12 {
		t.Errorf("day_cutoff = %d, want today's day-of-month", s.Day)
	}
	if s.TotalSoFar != 180 {
		t.Errorf("total_so_far = %v, want 180", s.TotalSoFar)
	}
	if s.AvgDailySoFar != 15 {
		t.Errorf("avg_daily_so_far = %v, want 15 (180/12)", s.AvgDailySoFar)
	}
	if s.NumExpensive != 1 || s.NumTransactions != 2 {
		t.Errorf("counts = %d/%d, want 1 expensive of 2", s.NumExpensive, s.NumTransactions)
	}
	if s.TargetTotal != nil {
		t.Error("inference snapshots must not carry target_total_expenses")
	}
}

func TestCurrent_EmptyMonth(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	records := []ledger.Record{rec(2024, time.May, 30, 10)}
	if _, ok := Current(records, now); ok {
		t.Error("expected no snapshot for a month without transactions")
	}
}

func TestVectorOrder(t *testing.T) {
	s := Snapshot{Year: 2024, Month: 3, Day: 12, TotalSoFar: 180, AvgDailySoFar: 15, NumExpensive: 1, NumTransactions: 2}
	v := s.Vector()
	want := []float64{2024, 3, 12, 180, 15, 1, 2}
	if len(v) != len(FeatureColumns()) {
		t.Fatalf("vector length %d != column count %d", len(v), len(FeatureColumns()))
	}
	for i := range want {
		if v[i] != want[i] {
			t.Errorf("vector[%d] = %v, want %v", i, v[i], want[i])
		}
	}
}

func TestDailyCumulative(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	records := []ledger.Record{
		rec(2024, time.March, 1, 10.10),
		rec(2024, time.March, 1, 5.15),
		rec(2024, time.March, 4, 20),
		rec(2024, time.March, 7, 99), // future
		rec(2023, time.March, 2, 99), // wrong year
	}

	series := DailyCumulative(records, now)
	if len(series) != 5 {
		t.Fatalf("series length = %d, want today's day-of-month", len(series))
	}

	want := []DayTotal{
		{Day: 1, Total: 15.25},
		{Day: 2, Total: 15.25},
		{Day: 3, Total: 15.25},
		{Day: 4, Total: 35.25},
		{Day: 5, Total: 35.25},
	}
	prev := 0.0
	for i, e := range series {
		if e != want[i] {
			t.Errorf("series[%d] = %+v, want %+v", i, e, want[i])
		}
		if e.Total < prev {
			t.Errorf("cumulative total decreased at day %d", e.Day)
		}
		prev = e.Total
	}
}
