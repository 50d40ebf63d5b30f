package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nbs-ytbot/internal/models"
)

const previewRunes = 280

// Embedder turns text into a vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Store is the part of the chunk store the pipeline writes to
type Store interface {
	HasChunks(ctx context.Context, videoID string) (bool, error)
	DeleteChunks(ctx context.Context, videoID string) error
	UpsertChunks(ctx context.Context, chunks []models.Chunk) error
	ListChunks(ctx context.Context, videoID string) ([]models.Chunk, error)
}

// Metadata describes the video a transcript belongs to
type Metadata struct {
	VideoID string
	Title   string
}

// Result reports what Ingest did
type Result struct {
	Skipped       bool
	Total         int
	ChunksWritten int
	Failures      []models.ChunkFailure
	Chunks        []models.ChunkRef
}

// AllFailed reports whether there were chunks and none could be embedded
func (r *Result) AllFailed() bool {
	return !r.Skipped && r.Total > 0 && r.ChunksWritten == 0
}

// Pipeline chunks a transcript, embeds every chunk and stores the vectors
type Pipeline struct {
	chunker  Chunker
	embedder Embedder
	store    Store
	now      func() time.Time
}

func NewPipeline(chunker Chunker, embedder Embedder, store Store) (*Pipeline, error) {
	if err := chunker.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{chunker: chunker, embedder: embedder, store: store, now: time.Now}, nil
}

// Ingest stores the transcript chunks for meta.VideoID. Without force a video
// that already has chunks is left alone; with force its chunks are replaced.
// Embedding failures are reported per chunk; only store failures are errors.
func (p *Pipeline) Ingest(ctx context.Context, t *models.Transcript, meta Metadata, force bool) (*Result, error) {
	log := logrus.WithFields(logrus.Fields{"video_id": meta.VideoID, "force": force})

	if !force {
		has, err := p.store.HasChunks(ctx, meta.VideoID)
		if err != nil {
			return nil, fmt.Errorf("check existing chunks: %w", err)
		}
		if has {
			existing, err := p.store.ListChunks(ctx, meta.VideoID)
			if err != nil {
				return nil, fmt.Errorf("list existing chunks: %w", err)
			}
			log.WithField("chunks", len(existing)).Info("video already has chunks, skipping ingest")
			return &Result{Skipped: true, Total: len(existing), Chunks: refs(existing)}, nil
		}
	}

	texts := p.chunker.Split(t.Text)
	res := &Result{Total: len(texts)}
	chunks := make([]models.Chunk, 0, len(texts))
	now := p.now().UTC()

	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vec, err := p.embedder.Embed(ctx, text)
		if err != nil {
			log.WithField("chunk_index", i).WithError(err).Warn("failed to embed chunk")
			res.Failures = append(res.Failures, models.ChunkFailure{Index: i, Error: err.Error()})
			continue
		}

		chunks = append(chunks, models.Chunk{
			ID:        ChunkID(meta.VideoID, i),
			VideoID:   meta.VideoID,
			Index:     i,
			Text:      text,
			Embedding: vec,
			CreatedAt: now,
		})
	}

	if force {
		if err := p.store.DeleteChunks(ctx, meta.VideoID); err != nil {
			return nil, fmt.Errorf("delete prior chunks: %w", err)
		}
	}

	if err := p.store.UpsertChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("upsert chunks: %w", err)
	}

	res.ChunksWritten = len(chunks)
	res.Chunks = refs(chunks)
	log.WithFields(logrus.Fields{
		"chunks":   res.ChunksWritten,
		"failures": len(res.Failures),
	}).Info("transcript ingested")
	return res, nil
}

// ChunkID derives a stable ID from the chunk's key
func ChunkID(videoID string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("ytbot:%s#%d", videoID, index))).String()
}

func refs(chunks []models.Chunk) []models.ChunkRef {
	out := make([]models.ChunkRef, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, models.ChunkRef{ID: c.ID, Index: c.Index, Chars: utf8.RuneCountInString(c.Text)})
	}
	return out
}

// Summarize derives the summary stored on the video index
func Summarize(t *models.Transcript, res *Result) *models.VideoSummary {
	s := &models.VideoSummary{
		Source:    t.Source,
		Language:  t.Language,
		WordCount: len(strings.Fields(t.Text)),
	}
	if res != nil {
		s.ChunkCount = len(res.Chunks)
		s.FailedChunks = len(res.Failures)
	}

	preview := []rune(strings.Join(strings.Fields(t.Text), " "))
	if len(preview) > previewRunes {
		preview = append(preview[:previewRunes], '…')
	}
	s.Preview = string(preview)
	return s
}
