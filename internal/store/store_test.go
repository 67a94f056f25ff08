package store

import (
	"context"
	"testing"
)

func TestParseURI(t *testing.T) {
	bucket, object, err := ParseURI("gs://datasets-expenses/expenses.csv")
	if err != nil {
		t.Fatalf("ParseURI: %v", err)
	}
	if bucket != "datasets-expenses" || object != "expenses.csv" {
		t.Errorf("got %q/%q", bucket, object)
	}

	for _, bad := range []string{"s3://bucket/key", "gs://bucket", "gs://bucket/"} {
		if _, _, err := ParseURI(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Get(ctx, "b", "missing"); err == nil {
		t.Error("expected error for missing object")
	}

	if err := m.Put(ctx, "b", "k", []byte("v1"), "text/csv"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, err := m.Get(ctx, "b", "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != "v1" {
		t.Errorf("Get = %q", data)
	}

	// Put replaces prior versions.
	if err := m.Put(ctx, "b", "k", []byte("v2"), "text/csv"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, _ = m.Get(ctx, "b", "k")
	if string(data) != "v2" {
		t.Errorf("Get after replace = %q", data)
	}
}
