package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"nbs-ytbot/internal/models"
)

const defaultRunTimeout = 5 * time.Minute

// Indexer indexes every video that still needs it
type Indexer interface {
	EnsureMissing(ctx context.Context) (*models.EnsureMissingSummary, error)
}

// Drafter drafts replies for comments that have none
type Drafter interface {
	GenerateDraftsForPendingComments(ctx context.Context) (*models.GenerationResult, error)
}

// Scheduler periodically indexes missing videos and then drafts replies.
// Drafting runs after indexing so new comments can use fresh transcripts.
type Scheduler struct {
	indexer    Indexer
	drafter    Drafter
	interval   time.Duration
	runTimeout time.Duration
}

func NewScheduler(indexer Indexer, drafter Drafter, interval, runTimeout time.Duration) *Scheduler {
	if runTimeout <= 0 {
		runTimeout = defaultRunTimeout
	}
	return &Scheduler{
		indexer:    indexer,
		drafter:    drafter,
		interval:   interval,
		runTimeout: runTimeout,
	}
}

// Start runs once immediately and then on every tick until ctx is done
func (s *Scheduler) Start(ctx context.Context) error {
	logrus.WithField("interval", s.interval).Info("scheduler started")

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs one indexing and drafting pass. Failures are logged.
func (s *Scheduler) RunOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.runTimeout)
	defer cancel()

	if s.indexer != nil {
		if summary, err := s.indexer.EnsureMissing(runCtx); err != nil {
			logrus.WithError(err).Error("ensure missing failed")
		} else if summary.Failed > 0 {
			logrus.WithField("failed", summary.Failed).Warn("some videos could not be indexed")
		}
	}

	if runCtx.Err() != nil {
		return
	}

	if s.drafter != nil {
		if _, err := s.drafter.GenerateDraftsForPendingComments(runCtx); err != nil {
			logrus.WithError(err).Error("draft generation failed")
		}
	}
}
