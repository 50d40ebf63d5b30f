package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"nbs-ytbot/internal/metrics"
	"nbs-ytbot/internal/models"
)

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrRateLimitExceeded   = errors.New("rate limit exceeded")
	ErrCostExceedsCapacity = errors.New("cost exceeds rate limiter capacity")
	ErrUnknownJobType      = errors.New("unknown job type")
	ErrMissingJobID        = errors.New("job id is required")
	ErrInvalidPayload      = errors.New("invalid job payload")
	ErrDraftNotFound       = errors.New("draft not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrDraftNotApproved    = errors.New("draft is not approved")
	ErrEmptyDraft          = errors.New("draft reply is empty")
	ErrNoContext           = errors.New("no relevant transcript context")
	ErrMissingUserID       = errors.New("user id is required")
)

const jobCleanupInterval = 10 * time.Minute

// JobQueue is an in-process registry of typed jobs. Jobs are keyed by their
// caller-supplied ID and run one at a time by a WorkerService.
type JobQueue struct {
	mu sync.Mutex

	jobs      *cache.Cache
	retention time.Duration
	handlers  map[models.JobType]JobHandler
	pending   []string
	seq       uint64
	wake      chan struct{}

	metrics   *metrics.Metrics
	publisher Publisher
	now       func() time.Time
}

// NewJobQueue creates a job queue. Finished jobs are dropped after retention;
// a non-positive retention keeps them for the life of the process.
func NewJobQueue(retention time.Duration, metrics *metrics.Metrics) *JobQueue {
	cleanup := jobCleanupInterval
	if retention > 0 && retention < cleanup {
		cleanup = retention
	}
	return &JobQueue{
		jobs:      cache.New(cache.NoExpiration, cleanup),
		retention: retention,
		handlers:  make(map[models.JobType]JobHandler),
		wake:      make(chan struct{}, 1),
		metrics:   metrics,
		now:       time.Now,
	}
}

// Register sets the handler for a job type
func (q *JobQueue) Register(jobType models.JobType, h JobHandler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[jobType] = h
}

// WithPublisher publishes an event whenever a job finishes
func (q *JobQueue) WithPublisher(p Publisher) *JobQueue {
	q.publisher = p
	return q
}

// Enqueue adds a job. A job with the same ID that is still queued or running
// is returned unchanged. A finished one is replaced by a fresh run.
func (q *JobQueue) Enqueue(ctx context.Context, req *models.JobRequest) (*models.Job, error) {
	if req.ID == "" {
		return nil, ErrMissingJobID
	}
	if len(req.Payload) > 0 && !json.Valid(req.Payload) {
		return nil, fmt.Errorf("%w: payload is not valid JSON", ErrInvalidPayload)
	}

	q.mu.Lock()
	if _, ok := q.handlers[req.Type]; !ok {
		q.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrUnknownJobType, req.Type)
	}

	job := &models.Job{
		ID:        req.ID,
		Type:      req.Type,
		Payload:   req.Payload,
		Attempts:  1,
		CreatedAt: q.now().UTC(),
	}

	if existing, ok := q.lookup(req.ID); ok {
		if !existing.Status.IsTerminal() {
			q.mu.Unlock()
			logrus.WithFields(logrus.Fields{"job_id": existing.ID, "status": existing.Status}).Info("duplicate job ignored")
			return existing.Clone(), nil
		}
		job.Status = existing.Status
		job.Attempts = existing.Attempts + 1
	}
	retried := job.Attempts > 1

	if err := models.TransitionJob(job, models.JobQueued); err != nil {
		q.mu.Unlock()
		return nil, err
	}

	q.seq++
	job.SetSeq(q.seq)
	q.jobs.Set(job.ID, job, cache.NoExpiration)
	q.pending = append(q.pending, job.ID)
	depth := len(q.pending)
	out := job.Clone()
	q.mu.Unlock()

	q.metrics.IncrementTotalJobs()
	if retried {
		q.metrics.IncrementRetriedJobs()
	}
	q.metrics.SetQueueDepth(depth)
	q.signal()

	logrus.WithFields(logrus.Fields{
		"job_id":   out.ID,
		"type":     out.Type,
		"attempts": out.Attempts,
	}).Info("job enqueued")
	return out, nil
}

// Get returns a copy of the job with the given ID
func (q *JobQueue) Get(id string) (*models.Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	job, ok := q.lookup(id)
	if !ok {
		return nil, ErrJobNotFound
	}
	return job.Clone(), nil
}

// List returns every retained job ordered by creation
func (q *JobQueue) List() []*models.Job {
	q.mu.Lock()
	items := q.jobs.Items()
	jobs := make([]*models.Job, 0, len(items))
	for _, item := range items {
		jobs = append(jobs, item.Object.(*models.Job).Clone())
	}
	q.mu.Unlock()

	sort.Slice(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
		}
		return jobs[i].Seq() < jobs[j].Seq()
	})
	return jobs
}

// Pending returns the number of jobs waiting to run
func (q *JobQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// next pops the oldest queued job and marks it RUNNING. Jobs that are no
// longer QUEUED are skipped so an ID never runs twice at once.
func (q *JobQueue) next() (*models.Job, JobHandler) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.pending) > 0 {
		id := q.pending[0]
		q.pending = q.pending[1:]

		job, ok := q.lookup(id)
		if !ok || job.Status != models.JobQueued {
			continue
		}
		h, ok := q.handlers[job.Type]
		if !ok {
			continue
		}
		if err := models.TransitionJob(job, models.JobRunning); err != nil {
			logrus.WithField("job_id", id).WithError(err).Error("cannot start job")
			continue
		}
		started := q.now().UTC()
		job.StartedAt = &started

		q.metrics.SetQueueDepth(len(q.pending))
		return job.Clone(), h
	}
	q.metrics.SetQueueDepth(0)
	return nil, nil
}

// finish records the handler outcome and starts the retention clock
func (q *JobQueue) finish(ctx context.Context, id string, runErr error) *models.Job {
	q.mu.Lock()
	job, ok := q.lookup(id)
	if !ok || job.Status != models.JobRunning {
		q.mu.Unlock()
		return nil
	}

	to := models.JobSucceeded
	if runErr != nil {
		to = models.JobFailed
		job.Error = runErr.Error()
	}
	if err := models.TransitionJob(job, to); err != nil {
		q.mu.Unlock()
		logrus.WithField("job_id", id).WithError(err).Error("cannot finish job")
		return nil
	}
	completed := q.now().UTC()
	job.CompletedAt = &completed

	expiry := cache.NoExpiration
	if q.retention > 0 {
		expiry = q.retention
	}
	q.jobs.Set(id, job, expiry)
	out := job.Clone()
	q.mu.Unlock()

	if q.publisher != nil {
		event := &models.JobEvent{
			Action:    "job." + strings.ToLower(string(out.Status)),
			Job:       out,
			Timestamp: completed,
		}
		if err := q.publisher.PublishJobEvent(ctx, event); err != nil {
			logrus.WithField("job_id", id).WithError(err).Warn("failed to publish job event")
		}
	}
	return out
}

func (q *JobQueue) lookup(id string) (*models.Job, bool) {
	v, ok := q.jobs.Get(id)
	if !ok {
		return nil, false
	}
	return v.(*models.Job), true
}

func (q *JobQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}
