package main

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/juandiazx/hackupc-2025/internal/snapshot"
)

func TestWriteSnapshotsColumnLayout(t *testing.T) {
	target := 321.5
	snaps := []snapshot.Snapshot{
		{
			Year: 2024, Month: 3, Day: 5,
			TotalSoFar: 100, AvgDailySoFar: 20,
			NumExpensive: 1, NumTransactions: 4,
			TargetTotal: &target,
		},
	}

	var buf bytes.Buffer
	if err := writeSnapshots(&buf, snaps); err != nil {
		t.Fatalf("writeSnapshots: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header plus one snapshot", len(rows))
	}

	header := rows[0]
	if len(header) != len(snapshot.FeatureColumns())+1 {
		t.Fatalf("header has %d columns, want %d", len(header), len(snapshot.FeatureColumns())+1)
	}
	if got := header[len(header)-1]; got != "target_total_expenses" {
		t.Errorf("label column = %q, want target_total_expenses", got)
	}
	if got := rows[1][len(header)-1]; got != "321.5" {
		t.Errorf("label cell = %q, want 321.5", got)
	}
	if got := rows[1][0]; got != "2024" {
		t.Errorf("year cell = %q, want 2024", got)
	}
}
