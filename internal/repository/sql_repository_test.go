package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbs-ytbot/internal/models"
)

func newTestRepository(t *testing.T) *SQLRepository {
	t.Helper()
	repo, err := NewSQLRepository("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLRepository_Video_SaveAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	published := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveVideo(ctx, &models.Video{ID: "v1", Title: "First", PublishedAt: published}))
	require.NoError(t, repo.SaveVideo(ctx, &models.Video{ID: "v1", Title: "First (edited)", PublishedAt: published}))

	got, err := repo.GetVideo(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "First (edited)", got.Title)
	assert.True(t, got.PublishedAt.Equal(published))

	videos, err := repo.ListVideos(ctx)
	require.NoError(t, err)
	assert.Len(t, videos, 1)

	_, err = repo.GetVideo(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLRepository_VideoIndex_RoundTrip(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	idx := &models.VideoIndex{
		VideoID:  "v1",
		Title:    "First",
		Status:   models.VideoIndexed,
		Attempts: 2,
		Chunks:   []models.ChunkRef{{ID: "c0", Index: 0, Chars: 11}},
		Summary:  &models.VideoSummary{Source: "archive", WordCount: 2, ChunkCount: 1, Preview: "Hello world"},
	}
	require.NoError(t, repo.SaveVideoIndex(ctx, idx))
	assert.False(t, idx.CreatedAt.IsZero())

	got, err := repo.GetVideoIndex(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, models.VideoIndexed, got.Status)
	assert.Equal(t, 2, got.Attempts)
	assert.Equal(t, idx.Chunks, got.Chunks)
	require.NotNil(t, got.Summary)
	assert.Equal(t, "archive", got.Summary.Source)
	assert.Empty(t, got.ErrorMessage)

	idx.Status = models.VideoFailed
	idx.ErrorMessage = "boom"
	idx.Summary = nil
	require.NoError(t, repo.SaveVideoIndex(ctx, idx))

	got, err = repo.GetVideoIndex(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, models.VideoFailed, got.Status)
	assert.Equal(t, "boom", got.ErrorMessage)
	assert.Nil(t, got.Summary)

	_, err = repo.GetVideoIndex(ctx, "v2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLRepository_Chunks_UpsertDeleteSearch(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	has, err := repo.HasChunks(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, has)

	chunks := []models.Chunk{
		{ID: "a", VideoID: "v1", Index: 0, Text: "cats", Embedding: []float32{1, 0}},
		{ID: "b", VideoID: "v1", Index: 1, Text: "dogs", Embedding: []float32{0, 1}},
		{ID: "c", VideoID: "v2", Index: 0, Text: "kittens", Embedding: []float32{0.9, 0.1}},
	}
	require.NoError(t, repo.UpsertChunks(ctx, chunks))

	// same key overwrites instead of duplicating
	require.NoError(t, repo.UpsertChunks(ctx, []models.Chunk{
		{ID: "b2", VideoID: "v1", Index: 1, Text: "puppies", Embedding: []float32{0, 1}},
	}))

	listed, err := repo.ListChunks(ctx, "v1")
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "puppies", listed[1].Text)

	results, err := repo.SearchSimilar(ctx, []float32{1, 0}, SearchOptions{TopK: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "c", results[1].ID)

	scoped, err := repo.SearchSimilar(ctx, []float32{1, 0}, SearchOptions{VideoID: "v2", TopK: 5})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "v2", scoped[0].VideoID)

	filtered, err := repo.SearchSimilar(ctx, []float32{1, 0}, SearchOptions{TopK: 5, MinScore: 0.5})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	require.NoError(t, repo.DeleteChunks(ctx, "v1"))
	has, err = repo.HasChunks(ctx, "v1")
	require.NoError(t, err)
	assert.False(t, has)
	has, err = repo.HasChunks(ctx, "v2")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestSQLRepository_CommentsNeedingDraft(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"c1", "c2", "c3", "c4"} {
		require.NoError(t, repo.SaveComment(ctx, &models.Comment{
			ID:               id,
			YouTubeCommentID: "yt-" + id,
			VideoID:          "v1",
			Author:           "viewer",
			Text:             "question " + id,
			PublishedAt:      base.Add(time.Duration(i) * time.Minute),
		}))
	}

	// c2 already has a reply, c3 has an empty pending draft, c4 is approved
	require.NoError(t, repo.SaveDraft(ctx, &models.Draft{ID: "d2", CommentID: "c2", Reply: "thanks", Status: models.DraftPending}))
	require.NoError(t, repo.SaveDraft(ctx, &models.Draft{ID: "d3", CommentID: "c3", Reply: "", Status: models.DraftPending}))
	require.NoError(t, repo.SaveDraft(ctx, &models.Draft{ID: "d4", CommentID: "c4", Reply: "ok", Status: models.DraftApproved}))

	comments, err := repo.ListCommentsNeedingDraft(ctx, 10)
	require.NoError(t, err)
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"c1", "c3"}, ids)

	limited, err := repo.ListCommentsNeedingDraft(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLRepository_RecordDraftFailure(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"c1", "c2", "c3"} {
		require.NoError(t, repo.SaveComment(ctx, &models.Comment{
			ID:          id,
			VideoID:     "v1",
			Text:        "question " + id,
			PublishedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	failedAt := base.Add(time.Hour)
	require.NoError(t, repo.RecordDraftFailure(ctx, "c1", failedAt))
	require.NoError(t, repo.RecordDraftFailure(ctx, "c1", failedAt))
	require.NoError(t, repo.RecordDraftFailure(ctx, "c2", failedAt))

	comments, err := repo.ListCommentsNeedingDraft(ctx, 0)
	require.NoError(t, err)
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"c3", "c2", "c1"}, ids)

	c1, err := repo.GetComment(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, c1.DraftAttempts)
	require.NotNil(t, c1.LastDraftErrorAt)
	assert.True(t, failedAt.Equal(*c1.LastDraftErrorAt))

	// re-saving a comment keeps its attempt count
	require.NoError(t, repo.SaveComment(ctx, &models.Comment{ID: "c1", VideoID: "v1", Text: "edited", PublishedAt: base}))
	c1, err = repo.GetComment(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, c1.DraftAttempts)

	assert.ErrorIs(t, repo.RecordDraftFailure(ctx, "missing", failedAt), ErrNotFound)
}

func TestSQLRepository_Draft_Lifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	draft := &models.Draft{ID: "d1", CommentID: "c1", Reply: "Hello", Status: models.DraftPending}
	require.NoError(t, repo.SaveDraft(ctx, draft))

	approvedAt := time.Now().UTC().Truncate(time.Millisecond)
	draft.Status = models.DraftApproved
	draft.ApprovedByID = "owner"
	draft.ApprovedAt = &approvedAt
	require.NoError(t, repo.SaveDraft(ctx, draft))

	got, err := repo.GetDraftByCommentID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, models.DraftApproved, got.Status)
	assert.Equal(t, "owner", got.ApprovedByID)
	require.NotNil(t, got.ApprovedAt)
	assert.True(t, got.ApprovedAt.Equal(approvedAt))
	assert.Nil(t, got.PostedAt)

	_, err = repo.GetDraft(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 2}))
}
