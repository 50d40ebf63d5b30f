package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"nbs-ytbot/internal/metrics"
	"nbs-ytbot/internal/models"
)

func TestWorkerService_RunPending_Success(t *testing.T) {
	h := &stubHandler{}
	q, m := newTestQueue(h)
	worker := NewWorkerService(q, m)

	q.Enqueue(context.Background(), postReplyRequest("job-1", "d1"))

	if n := worker.RunPending(context.Background()); n != 1 {
		t.Fatalf("expected 1 job processed, got %d", n)
	}

	job, _ := q.Get("job-1")
	if job.Status != models.JobSucceeded {
		t.Errorf("expected status SUCCEEDED, got %s", job.Status)
	}
	if job.StartedAt == nil || job.CompletedAt == nil {
		t.Error("expected started_at and completed_at to be set")
	}
	if got := m.GetSnapshot()[metrics.CompletedJobs]; got != 1 {
		t.Errorf("expected completed_jobs 1, got %d", got)
	}
}

func TestWorkerService_RunPending_Failure(t *testing.T) {
	h := &stubHandler{fn: func(ctx context.Context, job *models.Job) error {
		return errors.New("quotaExceeded")
	}}
	q, m := newTestQueue(h)
	worker := NewWorkerService(q, m)

	q.Enqueue(context.Background(), postReplyRequest("job-1", "d1"))
	worker.RunPending(context.Background())

	job, _ := q.Get("job-1")
	if job.Status != models.JobFailed {
		t.Errorf("expected status FAILED, got %s", job.Status)
	}
	if job.Error != "quotaExceeded" {
		t.Errorf("expected error message to be recorded, got %q", job.Error)
	}
	if got := m.GetSnapshot()[metrics.FailedJobs]; got != 1 {
		t.Errorf("expected failed_jobs 1, got %d", got)
	}

	// failed jobs are not retried by the queue
	if n := worker.RunPending(context.Background()); n != 0 {
		t.Errorf("expected no automatic retry, got %d runs", n)
	}
	if len(h.Calls()) != 1 {
		t.Errorf("expected handler to run once, got %d", len(h.Calls()))
	}
}

func TestWorkerService_RunPending_Panic(t *testing.T) {
	h := &stubHandler{fn: func(ctx context.Context, job *models.Job) error {
		panic("nil draft")
	}}
	q, m := newTestQueue(h)
	worker := NewWorkerService(q, m)

	q.Enqueue(context.Background(), postReplyRequest("job-1", "d1"))
	worker.RunPending(context.Background())

	job, _ := q.Get("job-1")
	if job.Status != models.JobFailed {
		t.Errorf("expected status FAILED, got %s", job.Status)
	}
	if job.Error != "handler panic: nil draft" {
		t.Errorf("unexpected error %q", job.Error)
	}
}

func TestWorkerService_RunPending_FIFO(t *testing.T) {
	h := &stubHandler{}
	q, m := newTestQueue(h)
	worker := NewWorkerService(q, m)

	for _, id := range []string{"job-1", "job-2", "job-3"} {
		q.Enqueue(context.Background(), postReplyRequest(id, "d"))
	}
	worker.RunPending(context.Background())

	calls := h.Calls()
	want := []string{"job-1", "job-2", "job-3"}
	if len(calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("expected call %d to be %s, got %s", i, want[i], calls[i])
		}
	}
}

func TestWorkerService_PublishesEvents(t *testing.T) {
	h := &stubHandler{}
	q, m := newTestQueue(h)
	pub := &recordingPublisher{err: errors.New("broker down")}
	q.WithPublisher(pub)
	worker := NewWorkerService(q, m)

	q.Enqueue(context.Background(), postReplyRequest("job-1", "d1"))
	worker.RunPending(context.Background())

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(pub.events))
	}
	if pub.events[0].Action != "job.succeeded" {
		t.Errorf("expected action job.succeeded, got %s", pub.events[0].Action)
	}

	// a publish failure does not change the job outcome
	job, _ := q.Get("job-1")
	if job.Status != models.JobSucceeded {
		t.Errorf("expected SUCCEEDED, got %s", job.Status)
	}
}

func TestWorkerService_ProcessJobs(t *testing.T) {
	ran := make(chan string, 1)
	h := &stubHandler{fn: func(ctx context.Context, job *models.Job) error {
		ran <- job.ID
		return nil
	}}
	q, m := newTestQueue(h)
	worker := NewWorkerService(q, m)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.ProcessJobs(ctx) }()

	q.Enqueue(context.Background(), postReplyRequest("job-1", "d1"))

	select {
	case id := <-ran:
		if id != "job-1" {
			t.Errorf("expected job-1, got %s", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not pick up the job")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
