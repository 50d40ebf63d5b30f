package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"nbs-ytbot/internal/ingest"
	"nbs-ytbot/internal/metrics"
	"nbs-ytbot/internal/models"
	"nbs-ytbot/internal/repository"
	"nbs-ytbot/internal/service/mocks"
	"nbs-ytbot/internal/transcript"
)

type IndexServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	store    *mocks.MockIndexStore
	resolver *mocks.MockTranscriptResolver
	ingester *mocks.MockIngester

	mu      sync.Mutex
	indexes map[string]*models.VideoIndex
	videos  []*models.Video

	metrics *metrics.Metrics
	service *IndexService
	now     time.Time
}

func (s *IndexServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.store = mocks.NewMockIndexStore(s.ctrl)
	s.resolver = mocks.NewMockTranscriptResolver(s.ctrl)
	s.ingester = mocks.NewMockIngester(s.ctrl)

	s.indexes = make(map[string]*models.VideoIndex)
	s.videos = nil
	s.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.metrics = metrics.NewMetrics(nil)

	s.service = NewIndexService(s.store, s.resolver, s.ingester, IndexOptions{
		Concurrency:       2,
		ProcessingTimeout: 30 * time.Minute,
		RetryBase:         5 * time.Minute,
		RetryMax:          time.Hour,
	}, s.metrics)
	s.service.now = func() time.Time { return s.now }

	s.backStore()
}

func (s *IndexServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestIndexServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IndexServiceTestSuite))
}

// backStore makes the store mock behave like a map
func (s *IndexServiceTestSuite) backStore() {
	s.store.EXPECT().GetVideoIndex(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, id string) (*models.VideoIndex, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			idx, ok := s.indexes[id]
			if !ok {
				return nil, repository.ErrNotFound
			}
			cp := *idx
			return &cp, nil
		}).AnyTimes()

	s.store.EXPECT().SaveVideoIndex(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, idx *models.VideoIndex) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			cp := *idx
			s.indexes[idx.VideoID] = &cp
			return nil
		}).AnyTimes()

	s.store.EXPECT().GetVideo(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, id string) (*models.Video, error) {
			for _, v := range s.videos {
				if v.ID == id {
					return v, nil
				}
			}
			return nil, repository.ErrNotFound
		}).AnyTimes()

	s.store.EXPECT().ListVideos(gomock.Any()).DoAndReturn(
		func(ctx context.Context) ([]*models.Video, error) {
			return s.videos, nil
		}).AnyTimes()

	s.store.EXPECT().ListVideoIndexes(gomock.Any()).DoAndReturn(
		func(ctx context.Context) ([]*models.VideoIndex, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			out := make([]*models.VideoIndex, 0, len(s.indexes))
			for _, idx := range s.indexes {
				cp := *idx
				out = append(out, &cp)
			}
			return out, nil
		}).AnyTimes()
}

func (s *IndexServiceTestSuite) stored(videoID string) *models.VideoIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexes[videoID]
}

func found(videoID, source, text string) transcript.Resolution {
	return transcript.Resolution{
		Found: true,
		Transcript: &models.Transcript{
			VideoID:  videoID,
			Source:   source,
			Language: "en",
			Text:     text,
		},
		Attempts: []transcript.Attempt{{Source: source, Status: "found"}},
	}
}

func notFound() transcript.Resolution {
	return transcript.Resolution{Attempts: []transcript.Attempt{
		{Source: "captions", Status: "unavailable"},
		{Source: "archive", Status: "unavailable"},
	}}
}

func ingested(videoID string, n int) *ingest.Result {
	res := &ingest.Result{Total: n, ChunksWritten: n}
	for i := 0; i < n; i++ {
		res.Chunks = append(res.Chunks, models.ChunkRef{ID: ingest.ChunkID(videoID, i), Index: i, Chars: 11})
	}
	return res
}

func (s *IndexServiceTestSuite) TestEnsureVideoIndex_NewVideo() {
	ctx := context.Background()
	s.videos = []*models.Video{{ID: "V1", Title: "PC build"}}

	s.resolver.EXPECT().Resolve(gomock.Any(), "V1").Return(found("V1", "archive", "Hello world"), nil)
	s.ingester.EXPECT().
		Ingest(gomock.Any(), gomock.Any(), ingest.Metadata{VideoID: "V1", Title: "PC build"}, false).
		Return(ingested("V1", 1), nil)

	res, err := s.service.EnsureVideoIndex(ctx, "V1", EnsureOptions{})
	s.Require().NoError(err)

	s.Equal(models.OutcomeIndexed, res.Outcome)
	s.Equal("archive", res.Source)
	s.Equal(1, res.ChunksWritten)

	idx := s.stored("V1")
	s.Equal(models.VideoIndexed, idx.Status)
	s.Equal("PC build", idx.Title)
	s.Equal(1, idx.Attempts)
	s.Len(idx.Chunks, 1)
	s.Require().NotNil(idx.Summary)
	s.Equal("archive", idx.Summary.Source)
	s.Equal(2, idx.Summary.WordCount)
	s.Empty(idx.ErrorMessage)
	s.Equal(int64(1), s.metrics.GetSnapshot()[metrics.VideosIndexed])
}

func (s *IndexServiceTestSuite) TestEnsureVideoIndex_Idempotent() {
	ctx := context.Background()

	s.resolver.EXPECT().Resolve(gomock.Any(), "V1").Return(found("V1", "captions", "Hello world"), nil).Times(1)
	s.ingester.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any(), false).Return(ingested("V1", 1), nil).Times(1)

	_, err := s.service.EnsureVideoIndex(ctx, "V1", EnsureOptions{})
	s.Require().NoError(err)
	before := *s.stored("V1")

	s.now = s.now.Add(time.Hour)
	res, err := s.service.EnsureVideoIndex(ctx, "V1", EnsureOptions{})
	s.Require().NoError(err)

	s.Equal(models.OutcomeAlreadyIndexed, res.Outcome)
	after := s.stored("V1")
	s.Equal(before.UpdatedAt, after.UpdatedAt)
	s.Equal(before.Attempts, after.Attempts)
	s.Equal(before.Chunks, after.Chunks)
}

func (s *IndexServiceTestSuite) TestEnsureVideoIndex_ForceReindex() {
	ctx := context.Background()
	s.indexes["V1"] = &models.VideoIndex{
		VideoID:   "V1",
		Title:     "PC build",
		Status:    models.VideoIndexed,
		Chunks:    []models.ChunkRef{{ID: "old", Index: 0, Chars: 5}},
		Attempts:  1,
		CreatedAt: s.now.Add(-24 * time.Hour),
		UpdatedAt: s.now.Add(-24 * time.Hour),
	}

	s.resolver.EXPECT().Resolve(gomock.Any(), "V1").Return(found("V1", "captions", "Hello again world"), nil)
	s.ingester.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(ingested("V1", 2), nil)

	res, err := s.service.EnsureVideoIndex(ctx, "V1", EnsureOptions{ForceReindex: true})
	s.Require().NoError(err)

	s.Equal(models.OutcomeIndexed, res.Outcome)
	idx := s.stored("V1")
	s.Equal(models.VideoIndexed, idx.Status)
	s.Equal(2, idx.Attempts)
	s.Len(idx.Chunks, 2)
	s.NotEqual("old", idx.Chunks[0].ID)
	s.Equal(s.now, idx.UpdatedAt)
}

func (s *IndexServiceTestSuite) TestEnsureVideoIndex_TranscriptNotFound() {
	ctx := context.Background()

	s.resolver.EXPECT().Resolve(gomock.Any(), "V1").Return(notFound(), nil)

	res, err := s.service.EnsureVideoIndex(ctx, "V1", EnsureOptions{})
	s.Require().NoError(err)

	s.Equal(models.OutcomeFailed, res.Outcome)
	s.Contains(res.Error, "no transcript available")
	s.Contains(res.Error, "captions, archive")

	idx := s.stored("V1")
	s.Equal(models.VideoFailed, idx.Status)
	s.Equal(res.Error, idx.ErrorMessage)
	s.Equal(int64(1), s.metrics.GetSnapshot()[metrics.VideosFailed])
}

func (s *IndexServiceTestSuite) TestEnsureVideoIndex_ResolverError() {
	ctx := context.Background()

	s.resolver.EXPECT().Resolve(gomock.Any(), "V1").Return(transcript.Resolution{}, errors.New("captions: connection reset"))

	res, err := s.service.EnsureVideoIndex(ctx, "V1", EnsureOptions{})
	s.Require().NoError(err)

	s.Equal(models.OutcomeFailed, res.Outcome)
	s.Equal("fetch transcript: captions: connection reset", s.stored("V1").ErrorMessage)
}

func (s *IndexServiceTestSuite) TestEnsureVideoIndex_AllChunksFailed() {
	ctx := context.Background()

	s.resolver.EXPECT().Resolve(gomock.Any(), "V1").Return(found("V1", "captions", "Hello world"), nil)
	s.ingester.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any(), false).Return(&ingest.Result{
		Total:    1,
		Failures: []models.ChunkFailure{{Index: 0, Error: "llm provider returned 500"}},
	}, nil)

	res, err := s.service.EnsureVideoIndex(ctx, "V1", EnsureOptions{})
	s.Require().NoError(err)

	s.Equal(models.OutcomeFailed, res.Outcome)
	s.Len(res.ChunkFailures, 1)
	s.Equal(models.VideoFailed, s.stored("V1").Status)
}

func (s *IndexServiceTestSuite) TestEnsureVideoIndex_PartialChunkFailure() {
	ctx := context.Background()

	partial := ingested("V1", 2)
	partial.Total = 3
	partial.Failures = []models.ChunkFailure{{Index: 2, Error: "timeout"}}

	s.resolver.EXPECT().Resolve(gomock.Any(), "V1").Return(found("V1", "captions", "a b c"), nil)
	s.ingester.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any(), false).Return(partial, nil)

	res, err := s.service.EnsureVideoIndex(ctx, "V1", EnsureOptions{})
	s.Require().NoError(err)

	s.Equal(models.OutcomeIndexed, res.Outcome)
	s.Equal(1, s.stored("V1").Summary.FailedChunks)
}

func (s *IndexServiceTestSuite) TestEnsureVideoIndex_InProgress() {
	ctx := context.Background()
	s.indexes["V1"] = &models.VideoIndex{VideoID: "V1", Status: models.VideoProcessing, Attempts: 1, UpdatedAt: s.now.Add(-time.Minute)}

	res, err := s.service.EnsureVideoIndex(ctx, "V1", EnsureOptions{})
	s.Require().NoError(err)

	s.Equal(models.OutcomeInProgress, res.Outcome)
	s.Equal(1, s.stored("V1").Attempts)
}

func (s *IndexServiceTestSuite) TestEnsureVideoIndex_StaleProcessingIsReclaimed() {
	ctx := context.Background()
	s.indexes["V1"] = &models.VideoIndex{VideoID: "V1", Status: models.VideoProcessing, Attempts: 1, UpdatedAt: s.now.Add(-time.Hour)}

	s.resolver.EXPECT().Resolve(gomock.Any(), "V1").Return(found("V1", "captions", "Hello world"), nil)
	s.ingester.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(ingested("V1", 1), nil)

	res, err := s.service.EnsureVideoIndex(ctx, "V1", EnsureOptions{})
	s.Require().NoError(err)

	s.Equal(models.OutcomeIndexed, res.Outcome)
	s.Equal(2, s.stored("V1").Attempts)
}

func (s *IndexServiceTestSuite) TestEnsureVideoIndex_RetryAfterFailureReplacesChunks() {
	ctx := context.Background()
	s.indexes["V1"] = &models.VideoIndex{VideoID: "V1", Status: models.VideoFailed, Attempts: 1, ErrorMessage: "boom", UpdatedAt: s.now.Add(-time.Hour)}

	s.resolver.EXPECT().Resolve(gomock.Any(), "V1").Return(found("V1", "captions", "Hello world"), nil)
	s.ingester.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any(), true).Return(ingested("V1", 1), nil)

	res, err := s.service.EnsureVideoIndex(ctx, "V1", EnsureOptions{})
	s.Require().NoError(err)

	s.Equal(models.OutcomeIndexed, res.Outcome)
	s.Empty(s.stored("V1").ErrorMessage)
}

func (s *IndexServiceTestSuite) TestEnsureVideoIndex_StoreError() {
	ctrl := gomock.NewController(s.T())
	store := mocks.NewMockIndexStore(ctrl)
	svc := NewIndexService(store, s.resolver, s.ingester, IndexOptions{}, nil)

	store.EXPECT().GetVideoIndex(gomock.Any(), "V1").Return(nil, errors.New("database is locked"))

	_, err := svc.EnsureVideoIndex(context.Background(), "V1", EnsureOptions{})
	s.Require().Error(err)
	s.Contains(err.Error(), "database is locked")
}

func (s *IndexServiceTestSuite) TestEnsureMissing_PartialBatch() {
	ctx := context.Background()
	s.videos = []*models.Video{{ID: "V1"}, {ID: "V2"}, {ID: "V3"}}

	s.resolver.EXPECT().Resolve(gomock.Any(), "V1").Return(found("V1", "captions", "one"), nil)
	s.resolver.EXPECT().Resolve(gomock.Any(), "V2").Return(notFound(), nil)
	s.resolver.EXPECT().Resolve(gomock.Any(), "V3").Return(found("V3", "archive", "three"), nil)
	s.ingester.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any(), false).DoAndReturn(
		func(ctx context.Context, t *models.Transcript, meta ingest.Metadata, force bool) (*ingest.Result, error) {
			return ingested(meta.VideoID, 1), nil
		}).Times(2)

	summary, err := s.service.EnsureMissing(ctx)
	s.Require().NoError(err)

	s.Equal(3, summary.Total)
	s.Equal(2, summary.Succeeded)
	s.Equal(1, summary.Failed)
	s.Equal(0, summary.Skipped)
	s.Require().Len(summary.Videos, 3)
	s.Equal("V2", summary.Videos[1].VideoID)
	s.Equal(models.OutcomeFailed, summary.Videos[1].Outcome)
	s.Equal(models.VideoFailed, summary.Videos[1].Status)
	s.NotEmpty(summary.Videos[1].Error)
}

func (s *IndexServiceTestSuite) TestEnsureMissing_SkipsIndexedAndBackoff() {
	ctx := context.Background()
	s.videos = []*models.Video{{ID: "indexed"}, {ID: "recent-failure"}, {ID: "old-failure"}, {ID: "pending"}}
	s.indexes["indexed"] = &models.VideoIndex{VideoID: "indexed", Status: models.VideoIndexed}
	// attempt 2 backs off 10 minutes
	s.indexes["recent-failure"] = &models.VideoIndex{VideoID: "recent-failure", Status: models.VideoFailed, Attempts: 2, UpdatedAt: s.now.Add(-5 * time.Minute)}
	s.indexes["old-failure"] = &models.VideoIndex{VideoID: "old-failure", Status: models.VideoFailed, Attempts: 2, UpdatedAt: s.now.Add(-11 * time.Minute)}
	s.indexes["pending"] = &models.VideoIndex{VideoID: "pending", Status: models.VideoPending}

	s.resolver.EXPECT().Resolve(gomock.Any(), "old-failure").Return(found("old-failure", "captions", "x"), nil)
	s.resolver.EXPECT().Resolve(gomock.Any(), "pending").Return(found("pending", "captions", "y"), nil)
	s.ingester.EXPECT().Ingest(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, t *models.Transcript, meta ingest.Metadata, force bool) (*ingest.Result, error) {
			return ingested(meta.VideoID, 1), nil
		}).Times(2)

	summary, err := s.service.EnsureMissing(ctx)
	s.Require().NoError(err)

	s.Equal(2, summary.Succeeded)
	s.Equal(2, summary.Skipped)

	outcomes := map[string]models.EnsureOutcome{}
	for _, v := range summary.Videos {
		outcomes[v.VideoID] = v.Outcome
	}
	s.Equal(models.OutcomeAlreadyIndexed, outcomes["indexed"])
	s.Equal(models.OutcomeBackoff, outcomes["recent-failure"])
	s.Equal(models.OutcomeIndexed, outcomes["old-failure"])
	s.Equal(models.OutcomeIndexed, outcomes["pending"])
}

func (s *IndexServiceTestSuite) TestEnsureMissing_BoundedConcurrency() {
	ctx := context.Background()
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		s.videos = append(s.videos, &models.Video{ID: id})
	}

	var inFlight, peak int32
	s.resolver.EXPECT().Resolve(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, videoID string) (transcript.Resolution, error) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return notFound(), nil
		}).Times(6)

	summary, err := s.service.EnsureMissing(ctx)
	s.Require().NoError(err)

	s.Equal(6, summary.Failed)
	s.LessOrEqual(atomic.LoadInt32(&peak), int32(2))
}

func TestIndexService_RetryDelay(t *testing.T) {
	svc := NewIndexService(nil, nil, nil, IndexOptions{RetryBase: time.Minute, RetryMax: 10 * time.Minute}, nil)

	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{0, time.Minute},
		{1, time.Minute},
		{3, 4 * time.Minute},
		{5, 10 * time.Minute},
		{40, 10 * time.Minute},
	}
	for _, tt := range tests {
		if got := svc.retryDelay(tt.attempts); got != tt.want {
			t.Errorf("retryDelay(%d) = %v, want %v", tt.attempts, got, tt.want)
		}
	}

	svc.opts.RetryJitter = 0.5
	svc.jitter = func() float64 { return 1 }
	if got := svc.retryDelay(1); got != 90*time.Second {
		t.Errorf("expected jittered delay 90s, got %v", got)
	}
}

func (s *IndexServiceTestSuite) TestEnsureMissing_IndexedMeanwhileCountsAsSucceeded() {
	ctrl := gomock.NewController(s.T())
	store := mocks.NewMockIndexStore(ctrl)
	svc := NewIndexService(store, s.resolver, s.ingester, IndexOptions{Concurrency: 1}, nil)

	// the listing predates another indexer finishing V1
	store.EXPECT().ListVideos(gomock.Any()).Return([]*models.Video{{ID: "V1"}}, nil)
	store.EXPECT().ListVideoIndexes(gomock.Any()).Return(nil, nil)
	store.EXPECT().GetVideoIndex(gomock.Any(), "V1").Return(&models.VideoIndex{VideoID: "V1", Status: models.VideoIndexed}, nil)

	summary, err := svc.EnsureMissing(context.Background())
	s.Require().NoError(err)

	s.Equal(1, summary.Succeeded)
	s.Equal(0, summary.Skipped)
	s.Equal(0, summary.Failed)
	s.Require().Len(summary.Videos, 1)
	s.Equal(models.OutcomeAlreadyIndexed, summary.Videos[0].Outcome)
	s.Equal(models.VideoIndexed, summary.Videos[0].Status)
}
