// Package jobs defines background jobs and the queue/store contracts used
// to run them.
package jobs

import (
	"context"
	"errors"
	"time"
)

type JobType string

const (
	// JobTypeImportStatement imports parsed bank statement lines.
	JobTypeImportStatement JobType = "import_statement"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrQueueClosed = errors.New("queue is closed")
	ErrNoHandler   = errors.New("no handler registered for job type")
)

const DefaultMaxRetries = 3

// Job is one unit of background work owned by a user.
type Job struct {
	ID     string    `json:"job_id"`
	Type   JobType   `json:"type"`
	UserID int       `json:"user_id"`
	Status JobStatus `json:"status"`

	// Payload is the handler input; Result is what it returned on success.
	Payload any `json:"-"`
	Result  any `json:"result,omitempty"`

	Error      string `json:"error,omitempty"`
	RetryCount int    `json:"retry_count"`
	MaxRetries int    `json:"max_retries"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Handler processes a job. A returned error makes the job retry until
// MaxRetries is reached.
type Handler func(ctx context.Context, job *Job) (any, error)

type Publisher interface {
	Publish(ctx context.Context, job *Job) error
}

type JobStore interface {
	SaveJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, jobID string) (*Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]*Job, error)
}

type JobFilter struct {
	UserID int
	Type   JobType
	Status JobStatus
	Limit  int
	Offset int
}

type QueueStats struct {
	Queued    int    `json:"queued"`
	Workers   int    `json:"workers"`
	Processed uint64 `json:"processed"`
	Failed    uint64 `json:"failed"`
	Retried   uint64 `json:"retried"`
}
