package inmemory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/neofin/internal/jobs"
)

// Queue distributes jobs to a fixed pool of workers over a buffered
// channel. It is meant for single-instance deployments.
type Queue struct {
	jobChan   chan *jobs.Job
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool

	store      jobs.JobStore
	handlers   map[jobs.JobType]jobs.Handler
	workers    int
	retryDelay time.Duration
	log        zerolog.Logger

	processed atomic.Uint64
	failed    atomic.Uint64
	retried   atomic.Uint64
}

// NewQueue creates a queue. bufferSize is how many jobs can wait before
// Publish blocks.
func NewQueue(bufferSize, workers int, store jobs.JobStore, log zerolog.Logger) *Queue {
	if workers <= 0 {
		workers = 1
	}
	return &Queue{
		jobChan:    make(chan *jobs.Job, bufferSize),
		closeChan:  make(chan struct{}),
		store:      store,
		handlers:   make(map[jobs.JobType]jobs.Handler),
		workers:    workers,
		retryDelay: time.Second,
		log:        log,
	}
}

// Register sets the handler for a job type. Call before Start.
func (q *Queue) Register(jobType jobs.JobType, handler jobs.Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[jobType] = handler
}

func (q *Queue) Publish(ctx context.Context, job *jobs.Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return jobs.ErrQueueClosed
	}
	if _, ok := q.handlers[job.Type]; !ok {
		return fmt.Errorf("%w: %s", jobs.ErrNoHandler, job.Type)
	}

	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.Status == "" {
		job.Status = jobs.JobStatusPending
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	if job.MaxRetries == 0 {
		job.MaxRetries = jobs.DefaultMaxRetries
	}

	if q.store != nil {
		if err := q.store.SaveJob(ctx, job); err != nil {
			return fmt.Errorf("failed to save job: %w", err)
		}
	}

	// Workers own the queued copy; the caller keeps job.
	queued := *job
	select {
	case q.jobChan <- &queued:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.closeChan:
		return jobs.ErrQueueClosed
	}
}

// Start launches the workers. They stop when ctx is cancelled or Stop is called.
func (q *Queue) Start(ctx context.Context) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return jobs.ErrQueueClosed
	}

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
	q.log.Info().Int("workers", q.workers).Msg("Job queue started")
	return nil
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closeChan:
			return
		case job := <-q.jobChan:
			if job == nil {
				return
			}
			q.processJob(ctx, job)
		}
	}
}

func (q *Queue) processJob(ctx context.Context, job *jobs.Job) {
	q.mu.RLock()
	handler := q.handlers[job.Type]
	q.mu.RUnlock()

	job.Status = jobs.JobStatusRunning
	now := time.Now()
	job.StartedAt = &now
	q.save(ctx, job)

	log := q.log.With().Str("job_id", job.ID).Str("type", string(job.Type)).Logger()
	result, err := q.run(ctx, handler, job)

	completedAt := time.Now()
	job.CompletedAt = &completedAt
	q.processed.Add(1)

	if err != nil {
		job.Error = err.Error()

		if job.RetryCount < job.MaxRetries {
			job.RetryCount++
			job.Status = jobs.JobStatusRetrying
			q.retried.Add(1)
			backoff := time.Duration(job.RetryCount) * q.retryDelay
			log.Warn().Err(err).Int("retry", job.RetryCount).Dur("backoff", backoff).Msg("Job failed, retrying")
			q.save(ctx, job)

			retry := *job
			time.AfterFunc(backoff, func() {
				retry.Status = jobs.JobStatusPending
				retry.StartedAt = nil
				retry.CompletedAt = nil
				if err := q.Publish(ctx, &retry); err != nil {
					log.Error().Err(err).Msg("Failed to requeue job")
				}
			})
			return
		}
		job.Status = jobs.JobStatusFailed
		q.failed.Add(1)
		log.Error().Err(err).Msg("Job failed")
	} else {
		job.Status = jobs.JobStatusCompleted
		job.Error = ""
		job.Result = result
		log.Info().Dur("took", completedAt.Sub(now)).Msg("Job completed")
	}

	q.save(ctx, job)
}

func (q *Queue) run(ctx context.Context, handler jobs.Handler, job *jobs.Job) (result any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("job panicked: %v", rec)
		}
	}()
	return handler(ctx, job)
}

func (q *Queue) save(ctx context.Context, job *jobs.Job) {
	if q.store == nil {
		return
	}
	if err := q.store.SaveJob(ctx, job); err != nil {
		q.log.Error().Err(err).Str("job_id", job.ID).Msg("Failed to save job state")
	}
}

// Stop closes the queue and waits for in-flight jobs.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) Stats() jobs.QueueStats {
	return jobs.QueueStats{
		Queued:    len(q.jobChan),
		Workers:   q.workers,
		Processed: q.processed.Load(),
		Failed:    q.failed.Load(),
		Retried:   q.retried.Load(),
	}
}

var _ jobs.Publisher = (*Queue)(nil)
