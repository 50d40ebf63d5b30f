package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"nbs-ytbot/internal/ingest"
	"nbs-ytbot/internal/llm"
	"nbs-ytbot/internal/models"
	"nbs-ytbot/internal/repository"
	"nbs-ytbot/internal/transcript"
)

type IndexStore interface {
	ListVideos(ctx context.Context) ([]*models.Video, error)
	GetVideo(ctx context.Context, id string) (*models.Video, error)
	GetVideoIndex(ctx context.Context, videoID string) (*models.VideoIndex, error)
	SaveVideoIndex(ctx context.Context, idx *models.VideoIndex) error
	ListVideoIndexes(ctx context.Context) ([]*models.VideoIndex, error)
}

type DraftStore interface {
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	ListCommentsNeedingDraft(ctx context.Context, limit int) ([]*models.Comment, error)
	RecordDraftFailure(ctx context.Context, commentID string, at time.Time) error
	GetDraft(ctx context.Context, id string) (*models.Draft, error)
	GetDraftByCommentID(ctx context.Context, commentID string) (*models.Draft, error)
	SaveDraft(ctx context.Context, draft *models.Draft) error
	SearchSimilar(ctx context.Context, query []float32, opts repository.SearchOptions) ([]models.ScoredChunk, error)
}

type TranscriptResolver interface {
	Resolve(ctx context.Context, videoID string) (transcript.Resolution, error)
}

type Ingester interface {
	Ingest(ctx context.Context, t *models.Transcript, meta ingest.Metadata, force bool) (*ingest.Result, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Completer interface {
	Complete(ctx context.Context, messages []llm.Message, opts llm.CompletionOptions) (string, error)
}

// ReplyPoster is the external reply-to-comment API
type ReplyPoster interface {
	PostReply(ctx context.Context, parentCommentID, text, actingUserID string) (string, error)
}

// JobHandler executes jobs of one type
type JobHandler interface {
	Handle(ctx context.Context, job *models.Job) error
}

type Publisher interface {
	PublishJobEvent(ctx context.Context, event *models.JobEvent) error
	Close() error
}
