package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"nbs-ytbot/internal/metrics"
	"nbs-ytbot/internal/models"
)

// WorkerService runs queued jobs one at a time
type WorkerService struct {
	queue   *JobQueue
	metrics *metrics.Metrics
}

// NewWorkerService creates a new worker service
func NewWorkerService(queue *JobQueue, metrics *metrics.Metrics) *WorkerService {
	return &WorkerService{
		queue:   queue,
		metrics: metrics,
	}
}

// ProcessJobs runs jobs as they are enqueued until ctx is done
func (s *WorkerService) ProcessJobs(ctx context.Context) error {
	for {
		if s.processNext(ctx) {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.queue.wake:
		}
	}
}

// RunPending runs every job that is queued right now and returns how many ran
func (s *WorkerService) RunPending(ctx context.Context) int {
	n := 0
	for ctx.Err() == nil && s.processNext(ctx) {
		n++
	}
	return n
}

func (s *WorkerService) processNext(ctx context.Context) bool {
	job, h := s.queue.next()
	if job == nil {
		return false
	}

	log := logrus.WithFields(logrus.Fields{"job_id": job.ID, "type": job.Type, "attempts": job.Attempts})
	log.Info("job started")

	start := time.Now()
	err := s.processJob(ctx, h, job)
	done := s.queue.finish(ctx, job.ID, err)

	log = log.WithField("duration", time.Since(start))
	if err != nil {
		s.metrics.IncrementFailedJobs()
		log.WithError(err).Warn("job failed")
		return true
	}
	if done != nil {
		s.metrics.IncrementCompletedJobs()
	}
	log.Info("job completed successfully")
	return true
}

// processJob runs the handler, turning a panic into a job failure
func (s *WorkerService) processJob(ctx context.Context, h JobHandler, job *models.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, job)
}
