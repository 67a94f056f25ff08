// Package jobs defines the asynchronous work the serving path defers: the
// reviewed-dataset write-back after a classification run. The HTTP response
// does not wait on the upload; the queue does it.
package jobs

import (
	"context"
	"time"
)

// JobType represents the type of job to be executed.
type JobType string

const (
	// JobTypeWriteBack uploads the ledger augmented with predicted labels.
	JobTypeWriteBack JobType = "write_back"
)

// JobStatus represents the current status of a job.
type JobStatus string

const (
	// JobStatusPending indicates the job is waiting to be processed.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the job is currently being processed.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job completed successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job failed.
	JobStatusFailed JobStatus = "failed"
	// JobStatusRetrying indicates the job failed and is being retried.
	JobStatusRetrying JobStatus = "retrying"
)

// WriteBackJob uploads a reviewed dataset (input table plus the
// predicted_expense_type column) to the dataset bucket.
type WriteBackJob struct {
	// JobID is the unique identifier for this job.
	JobID string `json:"job_id"`

	// ScoringRunID links the upload to the classification run that built it.
	ScoringRunID string `json:"scoring_run_id,omitempty"`

	// Bucket and Object name the destination of the reviewed CSV.
	Bucket string `json:"bucket"`
	Object string `json:"object"`

	// Payload is the encoded CSV to upload.
	Payload []byte `json:"-"`

	// Status is the current status of the job.
	Status JobStatus `json:"status"`

	// CreatedAt is when the job was created.
	CreatedAt time.Time `json:"created_at"`

	// StartedAt is when the job started processing.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// CompletedAt is when the job completed (success or failure).
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// Error contains error details if the job failed.
	Error string `json:"error,omitempty"`

	// RetryCount is the number of times this job has been retried.
	RetryCount int `json:"retry_count"`

	// MaxRetries is the maximum number of retries allowed.
	MaxRetries int `json:"max_retries"`
}

// Job is a generic interface for all job types.
type Job interface {
	// GetID returns the unique job identifier.
	GetID() string

	// GetType returns the job type.
	GetType() JobType

	// GetStatus returns the current job status.
	GetStatus() JobStatus
}

// GetID implements the Job interface.
func (j *WriteBackJob) GetID() string {
	return j.JobID
}

// GetType implements the Job interface.
func (j *WriteBackJob) GetType() JobType {
	return JobTypeWriteBack
}

// GetStatus implements the Job interface.
func (j *WriteBackJob) GetStatus() JobStatus {
	return j.Status
}

// Publisher defines the interface for publishing jobs to a queue.
type Publisher interface {
	// PublishWriteBack publishes a dataset write-back job.
	PublishWriteBack(ctx context.Context, job *WriteBackJob) error

	// Close closes the publisher and releases resources.
	Close() error
}

// Consumer defines the interface for consuming jobs from a queue.
type Consumer interface {
	// Start begins consuming jobs from the queue.
	Start(ctx context.Context, handler JobHandler) error

	// Stop stops consuming jobs and waits for in-flight jobs to complete.
	Stop(ctx context.Context) error
}

// JobHandler is a function that processes a job. A returned error marks the
// job failed and eligible for retry.
type JobHandler func(ctx context.Context, job Job) error

// JobStore defines the interface for storing and retrieving job status.
type JobStore interface {
	// SaveJob saves or updates a job's state.
	SaveJob(ctx context.Context, job *WriteBackJob) error

	// GetJob retrieves a job by ID.
	GetJob(ctx context.Context, jobID string) (*WriteBackJob, error)

	// ListJobs retrieves jobs with optional filtering.
	ListJobs(ctx context.Context, filter JobFilter) ([]*WriteBackJob, error)
}

// JobFilter defines filtering criteria for listing jobs.
type JobFilter struct {
	// ScoringRunID filters jobs by originating scoring run.
	ScoringRunID string

	// Status filters jobs by status.
	Status JobStatus

	// Limit limits the number of results.
	Limit int

	// Offset for pagination.
	Offset int
}
