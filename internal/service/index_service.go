package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"nbs-ytbot/internal/config"
	"nbs-ytbot/internal/ingest"
	"nbs-ytbot/internal/metrics"
	"nbs-ytbot/internal/models"
	"nbs-ytbot/internal/repository"
)

// IndexOptions tunes the video index orchestrator
type IndexOptions struct {
	Concurrency       int
	ProcessingTimeout time.Duration
	RetryBase         time.Duration
	RetryMax          time.Duration
	RetryJitter       float64
}

// IndexOptionsFromConfig maps the index config section
func IndexOptionsFromConfig(cfg config.IndexConfig) IndexOptions {
	return IndexOptions{
		Concurrency:       cfg.Concurrency,
		ProcessingTimeout: cfg.ProcessingTimeout,
		RetryBase:         cfg.RetryBase,
		RetryMax:          cfg.RetryMax,
		RetryJitter:       cfg.RetryJitter,
	}
}

// EnsureOptions are per-call options of EnsureVideoIndex
type EnsureOptions struct {
	ForceReindex bool
}

// IndexService drives the per-video index state machine:
// PENDING -> PROCESSING -> INDEXED | FAILED.
type IndexService struct {
	store    IndexStore
	resolver TranscriptResolver
	ingester Ingester
	opts     IndexOptions
	metrics  *metrics.Metrics

	flight singleflight.Group
	now    func() time.Time
	jitter func() float64
}

func NewIndexService(store IndexStore, resolver TranscriptResolver, ingester Ingester, opts IndexOptions, metrics *metrics.Metrics) *IndexService {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &IndexService{
		store:    store,
		resolver: resolver,
		ingester: ingester,
		opts:     opts,
		metrics:  metrics,
		now:      time.Now,
		jitter:   rand.Float64,
	}
}

// EnsureVideoIndex makes sure videoID is indexed. Expected failures (no
// transcript, provider errors, embedding failures) are recorded on the index
// and in the result; the returned error is reserved for store failures.
// Concurrent calls for the same video share one run.
func (s *IndexService) EnsureVideoIndex(ctx context.Context, videoID string, opts EnsureOptions) (*models.EnsureResult, error) {
	v, err, shared := s.flight.Do(videoID, func() (interface{}, error) {
		return s.ensure(ctx, videoID, opts)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logrus.WithField("video_id", videoID).Debug("joined in-flight index run")
	}
	return v.(*models.EnsureResult), nil
}

func (s *IndexService) ensure(ctx context.Context, videoID string, opts EnsureOptions) (*models.EnsureResult, error) {
	log := logrus.WithFields(logrus.Fields{"video_id": videoID, "force": opts.ForceReindex})
	result := &models.EnsureResult{VideoID: videoID}

	idx, err := s.store.GetVideoIndex(ctx, videoID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load video index: %w", err)
	}

	if idx != nil && !opts.ForceReindex {
		switch {
		case idx.Status == models.VideoIndexed:
			result.Outcome = models.OutcomeAlreadyIndexed
			result.Index = idx
			return result, nil
		case idx.Status == models.VideoProcessing && !s.stale(idx):
			log.Info("video is already being indexed")
			result.Outcome = models.OutcomeInProgress
			result.Index = idx
			return result, nil
		}
	}

	now := s.now().UTC()
	if idx == nil {
		idx = &models.VideoIndex{VideoID: videoID, CreatedAt: now}
	}
	if idx.Title == "" {
		if video, err := s.store.GetVideo(ctx, videoID); err == nil {
			idx.Title = video.Title
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("load video: %w", err)
		}
	}

	previous := idx.Status
	if err := models.TransitionVideo(idx, models.VideoProcessing); err != nil {
		return nil, err
	}
	idx.Attempts++
	idx.ErrorMessage = ""
	idx.UpdatedAt = now
	if err := s.store.SaveVideoIndex(ctx, idx); err != nil {
		return nil, fmt.Errorf("mark video processing: %w", err)
	}
	log.WithField("attempt", idx.Attempts).Info("indexing video")

	res, err := s.resolver.Resolve(ctx, videoID)
	if err != nil {
		return s.fail(ctx, idx, result, fmt.Sprintf("fetch transcript: %v", err))
	}
	if !res.Found {
		tried := make([]string, 0, len(res.Attempts))
		for _, a := range res.Attempts {
			tried = append(tried, a.Source)
		}
		return s.fail(ctx, idx, result, fmt.Sprintf("no transcript available (tried: %s)", strings.Join(tried, ", ")))
	}
	result.Source = res.Transcript.Source

	// a failed or abandoned run may have left partial chunks behind
	force := opts.ForceReindex || previous == models.VideoFailed || previous == models.VideoProcessing

	ing, err := s.ingester.Ingest(ctx, res.Transcript, ingest.Metadata{VideoID: videoID, Title: idx.Title}, force)
	if err != nil {
		return s.fail(ctx, idx, result, fmt.Sprintf("ingest transcript: %v", err))
	}
	result.ChunksWritten = ing.ChunksWritten
	result.ChunkFailures = ing.Failures

	switch {
	case ing.AllFailed():
		return s.fail(ctx, idx, result, fmt.Sprintf("embedding failed for all %d chunks: %s", ing.Total, ing.Failures[0].Error))
	case len(ing.Chunks) == 0:
		return s.fail(ctx, idx, result, "transcript produced no chunks")
	}

	if err := models.TransitionVideo(idx, models.VideoIndexed); err != nil {
		return nil, err
	}
	idx.Chunks = ing.Chunks
	idx.Summary = ingest.Summarize(res.Transcript, ing)
	idx.UpdatedAt = s.now().UTC()
	if err := s.store.SaveVideoIndex(ctx, idx); err != nil {
		return nil, fmt.Errorf("mark video indexed: %w", err)
	}

	s.metrics.IncrementVideosIndexed()
	log.WithFields(logrus.Fields{
		"source":   result.Source,
		"chunks":   len(idx.Chunks),
		"failures": len(ing.Failures),
		"skipped":  ing.Skipped,
	}).Info("video indexed")

	result.Outcome = models.OutcomeIndexed
	result.Index = idx
	return result, nil
}

// fail records msg on the index and returns it as a FAILED result
func (s *IndexService) fail(ctx context.Context, idx *models.VideoIndex, result *models.EnsureResult, msg string) (*models.EnsureResult, error) {
	if err := models.TransitionVideo(idx, models.VideoFailed); err != nil {
		return nil, err
	}
	idx.ErrorMessage = msg
	idx.UpdatedAt = s.now().UTC()

	// record the failure even when the run's context is already cancelled
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.store.SaveVideoIndex(saveCtx, idx); err != nil {
		return nil, fmt.Errorf("mark video failed: %w", err)
	}

	s.metrics.IncrementVideosFailed()
	logrus.WithFields(logrus.Fields{
		"video_id": idx.VideoID,
		"attempt":  idx.Attempts,
		"error":    msg,
	}).Warn("video indexing failed")

	result.Outcome = models.OutcomeFailed
	result.Error = msg
	result.Index = idx
	return result, nil
}

// EnsureMissing indexes every known video that has no usable index, with
// bounded concurrency. One video failing never stops the batch.
func (s *IndexService) EnsureMissing(ctx context.Context) (*models.EnsureMissingSummary, error) {
	videos, err := s.store.ListVideos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	indexes, err := s.store.ListVideoIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list video indexes: %w", err)
	}

	byID := make(map[string]*models.VideoIndex, len(indexes))
	for _, idx := range indexes {
		byID[idx.VideoID] = idx
	}

	summary := &models.EnsureMissingSummary{Total: len(videos)}
	var mu sync.Mutex
	// indexed is false for videos skipped before a run was started
	record := func(o models.VideoOutcome, indexed bool) {
		mu.Lock()
		defer mu.Unlock()
		summary.Videos = append(summary.Videos, o)
		switch {
		case indexed:
			summary.Succeeded++
		case o.Outcome == models.OutcomeFailed:
			summary.Failed++
		default:
			summary.Skipped++
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for _, video := range videos {
		idx := byID[video.ID]
		if outcome, skip := s.skipReason(idx); skip {
			record(models.VideoOutcome{VideoID: video.ID, Outcome: outcome, Status: idx.Status}, false)
			continue
		}

		videoID := video.ID
		g.Go(func() error {
			if gctx.Err() != nil {
				record(models.VideoOutcome{VideoID: videoID, Outcome: models.OutcomeFailed, Error: gctx.Err().Error()}, false)
				return nil
			}
			res, err := s.EnsureVideoIndex(gctx, videoID, EnsureOptions{})
			if err != nil {
				logrus.WithField("video_id", videoID).WithError(err).Error("index run aborted")
				record(models.VideoOutcome{VideoID: videoID, Outcome: models.OutcomeFailed, Error: err.Error()}, false)
				return nil
			}
			o := models.VideoOutcome{VideoID: videoID, Outcome: res.Outcome, Error: res.Error}
			if res.Index != nil {
				o.Status = res.Index.Status
			}
			// a run that lost the race to another indexer still ends indexed
			record(o, res.Succeeded())
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(summary.Videos, func(i, j int) bool {
		return summary.Videos[i].VideoID < summary.Videos[j].VideoID
	})

	logrus.WithFields(logrus.Fields{
		"total":     summary.Total,
		"succeeded": summary.Succeeded,
		"failed":    summary.Failed,
		"skipped":   summary.Skipped,
	}).Info("ensure missing finished")
	return summary, nil
}

// skipReason reports whether EnsureMissing should leave idx alone
func (s *IndexService) skipReason(idx *models.VideoIndex) (models.EnsureOutcome, bool) {
	if idx == nil {
		return "", false
	}
	switch idx.Status {
	case models.VideoIndexed:
		return models.OutcomeAlreadyIndexed, true
	case models.VideoProcessing:
		if !s.stale(idx) {
			return models.OutcomeInProgress, true
		}
	case models.VideoFailed:
		if s.now().Before(idx.UpdatedAt.Add(s.retryDelay(idx.Attempts))) {
			return models.OutcomeBackoff, true
		}
	}
	return "", false
}

func (s *IndexService) stale(idx *models.VideoIndex) bool {
	if s.opts.ProcessingTimeout <= 0 {
		return false
	}
	return s.now().Sub(idx.UpdatedAt) >= s.opts.ProcessingTimeout
}

// retryDelay is min(base*2^(attempts-1), max) stretched by up to RetryJitter
func (s *IndexService) retryDelay(attempts int) time.Duration {
	if s.opts.RetryBase <= 0 {
		return 0
	}
	if attempts < 1 {
		attempts = 1
	}
	d := float64(s.opts.RetryBase) * math.Pow(2, float64(attempts-1))
	if s.opts.RetryMax > 0 && d > float64(s.opts.RetryMax) {
		d = float64(s.opts.RetryMax)
	}
	if s.opts.RetryJitter > 0 {
		d += d * s.opts.RetryJitter * s.jitter()
	}
	return time.Duration(d)
}
