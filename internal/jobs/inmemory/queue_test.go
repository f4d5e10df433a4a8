package inmemory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/valeriaulyamaeva/neofin/internal/jobs"
)

const testType jobs.JobType = "test"

func waitForStatus(t *testing.T, store *Store, id string, want jobs.JobStatus) *jobs.Job {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		job, err := store.GetJob(context.Background(), id)
		if err == nil && job.Status == want {
			return job
		}
		if time.Now().After(deadline) {
			t.Fatalf("job %s did not reach %s (last: %+v, err: %v)", id, want, job, err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func newTestQueue(t *testing.T, store *Store, handler jobs.Handler) *Queue {
	t.Helper()
	q := NewQueue(10, 2, store, zerolog.Nop())
	q.retryDelay = time.Millisecond
	q.Register(testType, handler)

	ctx, cancel := context.WithCancel(context.Background())
	if err := q.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() {
		q.Stop(context.Background())
		cancel()
	})
	return q
}

func TestQueue_Completes(t *testing.T) {
	store := NewStore()
	q := newTestQueue(t, store, func(ctx context.Context, job *jobs.Job) (any, error) {
		return job.Payload.(string) + "!", nil
	})

	job := &jobs.Job{Type: testType, UserID: 1, Payload: "done"}
	if err := q.Publish(context.Background(), job); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if job.ID == "" || job.MaxRetries != jobs.DefaultMaxRetries {
		t.Errorf("defaults not applied: %+v", job)
	}

	got := waitForStatus(t, store, job.ID, jobs.JobStatusCompleted)
	if got.Result != "done!" {
		t.Errorf("unexpected result %v", got.Result)
	}
	if got.StartedAt == nil || got.CompletedAt == nil {
		t.Error("timestamps not set")
	}
}

func TestQueue_RetriesThenSucceeds(t *testing.T) {
	store := NewStore()
	var attempts int32
	q := newTestQueue(t, store, func(ctx context.Context, job *jobs.Job) (any, error) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return nil, errors.New("transient")
		}
		return "ok", nil
	})

	job := &jobs.Job{Type: testType, UserID: 1}
	if err := q.Publish(context.Background(), job); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	got := waitForStatus(t, store, job.ID, jobs.JobStatusCompleted)
	if got.RetryCount != 2 {
		t.Errorf("expected 2 retries, got %d", got.RetryCount)
	}
	if got.Error != "" {
		t.Errorf("error not cleared: %s", got.Error)
	}
}

func TestQueue_FailsAfterMaxRetries(t *testing.T) {
	store := NewStore()
	var attempts int32
	q := newTestQueue(t, store, func(ctx context.Context, job *jobs.Job) (any, error) {
		atomic.AddInt32(&attempts, 1)
		panic("broken")
	})

	job := &jobs.Job{Type: testType, UserID: 1, MaxRetries: 1}
	if err := q.Publish(context.Background(), job); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	got := waitForStatus(t, store, job.ID, jobs.JobStatusFailed)
	if atomic.LoadInt32(&attempts) != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
	if got.Error == "" {
		t.Error("expected error message")
	}
	if q.Stats().Failed != 1 {
		t.Errorf("expected 1 failed job, got %d", q.Stats().Failed)
	}
}

func TestQueue_PublishErrors(t *testing.T) {
	q := NewQueue(1, 1, NewStore(), zerolog.Nop())

	if err := q.Publish(context.Background(), &jobs.Job{Type: "unknown"}); !errors.Is(err, jobs.ErrNoHandler) {
		t.Errorf("expected ErrNoHandler, got %v", err)
	}

	q.Register(testType, func(ctx context.Context, job *jobs.Job) (any, error) { return nil, nil })
	q.Stop(context.Background())
	if err := q.Publish(context.Background(), &jobs.Job{Type: testType}); !errors.Is(err, jobs.ErrQueueClosed) {
		t.Errorf("expected ErrQueueClosed, got %v", err)
	}
}

func TestQueue_PublishedJobIsNotMutated(t *testing.T) {
	store := NewStore()
	q := newTestQueue(t, store, func(ctx context.Context, job *jobs.Job) (any, error) {
		return "ok", nil
	})

	job := &jobs.Job{Type: testType, UserID: 1, Payload: "x"}
	if err := q.Publish(context.Background(), job); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	waitForStatus(t, store, job.ID, jobs.JobStatusCompleted)

	if job.Status != jobs.JobStatusPending || job.StartedAt != nil || job.Result != nil {
		t.Errorf("worker changed the caller's job: %+v", job)
	}
}
