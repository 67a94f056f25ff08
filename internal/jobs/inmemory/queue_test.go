package inmemory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/juandiazx/hackupc-2025/internal/jobs"
)

func TestQueueProcessesWriteBack(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	q := NewQueue(4, store)
	defer q.Close()

	var mu sync.Mutex
	var processed []*jobs.WriteBackJob

	handler := func(ctx context.Context, job jobs.Job) error {
		wb := job.(*jobs.WriteBackJob)
		mu.Lock()
		processed = append(processed, wb)
		mu.Unlock()
		return nil
	}
	if err := q.Start(ctx, handler); err != nil {
		t.Fatalf("Start: %v", err)
	}

	job := &jobs.WriteBackJob{
		Bucket:  "datasets-expenses",
		Object:  "expenses.csv",
		Payload: []byte("amount,date\n"),
	}
	if err := q.PublishWriteBack(ctx, job); err != nil {
		t.Fatalf("PublishWriteBack: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(processed)
		mu.Unlock()
		if n == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("job was not processed")
		case <-time.After(10 * time.Millisecond):
		}
	}

	saved, err := store.GetJob(ctx, job.JobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if saved.Status != jobs.JobStatusCompleted {
		t.Errorf("status = %s, want completed", saved.Status)
	}
}

func TestQueueMarksJobFailedWhenRetryCannotRequeue(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	q := NewQueue(1, store)
	if err := q.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	job := &jobs.WriteBackJob{
		JobID:      "job-retry",
		Bucket:     "datasets-expenses",
		Object:     "reviewed_expenses.csv",
		MaxRetries: 1,
	}
	handler := func(ctx context.Context, j jobs.Job) error {
		return errors.New("upload failed")
	}
	q.processJob(ctx, job, handler)

	saved, err := store.GetJob(ctx, job.JobID)
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if saved.Status != jobs.JobStatusRetrying {
		t.Fatalf("status after first failure = %s, want retrying", saved.Status)
	}

	// The backoff re-publish hits the closed queue and must settle the job.
	deadline := time.After(3 * time.Second)
	for saved.Status != jobs.JobStatusFailed {
		select {
		case <-deadline:
			t.Fatalf("status = %s, want failed", saved.Status)
		case <-time.After(20 * time.Millisecond):
		}
		if saved, err = store.GetJob(ctx, job.JobID); err != nil {
			t.Fatalf("GetJob: %v", err)
		}
	}
	if saved.Error == "" {
		t.Error("failed job carries no error message")
	}
}

func TestQueueRejectsAfterClose(t *testing.T) {
	q := NewQueue(1, nil)
	if err := q.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	err := q.PublishWriteBack(context.Background(), &jobs.WriteBackJob{Bucket: "b", Object: "o"})
	if err == nil {
		t.Error("expected publish to fail on a closed queue")
	}
}
