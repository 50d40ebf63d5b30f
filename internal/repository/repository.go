package repository

import (
	"context"
	"errors"
	"time"

	"nbs-ytbot/internal/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// VideoRepository reads the videos known to the system
type VideoRepository interface {
	ListVideos(ctx context.Context) ([]*models.Video, error)
	GetVideo(ctx context.Context, id string) (*models.Video, error)
	SaveVideo(ctx context.Context, video *models.Video) error
}

// VideoIndexRepository persists per-video indexing state
type VideoIndexRepository interface {
	GetVideoIndex(ctx context.Context, videoID string) (*models.VideoIndex, error)
	SaveVideoIndex(ctx context.Context, idx *models.VideoIndex) error
	ListVideoIndexes(ctx context.Context) ([]*models.VideoIndex, error)
}

// SearchOptions narrows a similarity search
type SearchOptions struct {
	VideoID  string
	TopK     int
	MinScore float64
}

// ChunkRepository is the vector-searchable store of embedded transcript chunks
type ChunkRepository interface {
	HasChunks(ctx context.Context, videoID string) (bool, error)
	DeleteChunks(ctx context.Context, videoID string) error
	UpsertChunks(ctx context.Context, chunks []models.Chunk) error
	ListChunks(ctx context.Context, videoID string) ([]models.Chunk, error)
	SearchSimilar(ctx context.Context, query []float32, opts SearchOptions) ([]models.ScoredChunk, error)
}

// CommentRepository reads viewer comments
type CommentRepository interface {
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	SaveComment(ctx context.Context, comment *models.Comment) error
	ListCommentsNeedingDraft(ctx context.Context, limit int) ([]*models.Comment, error)
	RecordDraftFailure(ctx context.Context, commentID string, at time.Time) error
}

// DraftRepository persists draft replies
type DraftRepository interface {
	GetDraft(ctx context.Context, id string) (*models.Draft, error)
	GetDraftByCommentID(ctx context.Context, commentID string) (*models.Draft, error)
	SaveDraft(ctx context.Context, draft *models.Draft) error
}

// Store bundles every repository implemented by a single backend
type Store interface {
	VideoRepository
	VideoIndexRepository
	ChunkRepository
	CommentRepository
	DraftRepository
	Close() error
}
