package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"nbs-ytbot/internal/models"
)

// SQLRepository implements Store on SQLite or Postgres
type SQLRepository struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

var _ Store = (*SQLRepository)(nil)

// NewSQLRepository opens the database, pings it and creates the schema
func NewSQLRepository(driver, dsn string) (*SQLRepository, error) {
	if driver == "sqlite3" && !strings.Contains(dsn, ":memory:") && !strings.Contains(dsn, "?") {
		dsn += "?_journal_mode=WAL&_timeout=5000"
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == "sqlite3" {
		// a single connection keeps :memory: databases shared and avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
	}

	repo := New(db)
	if err := repo.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return repo, nil
}

// New wraps an open database handle. The placeholder style follows the driver name.
func New(db *sqlx.DB) *SQLRepository {
	var format sq.PlaceholderFormat = sq.Question
	if db.DriverName() == "postgres" {
		format = sq.Dollar
	}
	return &SQLRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(format),
	}
}

// Close closes the database connection
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

const schema = `
	CREATE TABLE IF NOT EXISTS videos (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		published_at BIGINT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS video_indexes (
		video_id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		status TEXT NOT NULL,
		chunks TEXT NOT NULL,
		summary TEXT,
		error_message TEXT,
		attempts INTEGER NOT NULL DEFAULT 0,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_video_indexes_status ON video_indexes(status);

	CREATE TABLE IF NOT EXISTS transcript_chunks (
		id TEXT NOT NULL,
		video_id TEXT NOT NULL,
		chunk_index INTEGER NOT NULL,
		text TEXT NOT NULL,
		embedding TEXT NOT NULL,
		created_at BIGINT NOT NULL,
		PRIMARY KEY (video_id, chunk_index)
	);

	CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		youtube_comment_id TEXT NOT NULL,
		video_id TEXT,
		author TEXT NOT NULL,
		text TEXT NOT NULL,
		published_at BIGINT NOT NULL,
		draft_attempts INTEGER NOT NULL DEFAULT 0,
		last_draft_error_at BIGINT
	);

	CREATE INDEX IF NOT EXISTS idx_comments_video_id ON comments(video_id);

	CREATE TABLE IF NOT EXISTS drafts (
		id TEXT PRIMARY KEY,
		comment_id TEXT NOT NULL UNIQUE,
		reply TEXT NOT NULL,
		status TEXT NOT NULL,
		approved_by_id TEXT,
		approved_at BIGINT,
		posted_at BIGINT,
		posted_comment_id TEXT,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	);
	`

// InitSchema creates the tables if they do not exist
func (r *SQLRepository) InitSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

type videoRow struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	PublishedAt int64  `db:"published_at"`
}

func (row videoRow) toModel() *models.Video {
	return &models.Video{
		ID:          row.ID,
		Title:       row.Title,
		PublishedAt: time.UnixMilli(row.PublishedAt).UTC(),
	}
}

// ListVideos returns every known video, oldest first
func (r *SQLRepository) ListVideos(ctx context.Context) ([]*models.Video, error) {
	query, args, err := r.sb.Select("id", "title", "published_at").
		From("videos").
		OrderBy("published_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []videoRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}

	videos := make([]*models.Video, 0, len(rows))
	for _, row := range rows {
		videos = append(videos, row.toModel())
	}
	return videos, nil
}

// GetVideo retrieves a video by ID
func (r *SQLRepository) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	query, args, err := r.sb.Select("id", "title", "published_at").
		From("videos").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var row videoRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return row.toModel(), nil
}

// SaveVideo inserts or updates a video
func (r *SQLRepository) SaveVideo(ctx context.Context, video *models.Video) error {
	query, args, err := r.sb.Insert("videos").
		Columns("id", "title", "published_at").
		Values(video.ID, video.Title, video.PublishedAt.UnixMilli()).
		Suffix("ON CONFLICT (id) DO UPDATE SET title = excluded.title, published_at = excluded.published_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save video: %w", err)
	}
	return nil
}

type videoIndexRow struct {
	VideoID      string         `db:"video_id"`
	Title        string         `db:"title"`
	Status       string         `db:"status"`
	Chunks       string         `db:"chunks"`
	Summary      sql.NullString `db:"summary"`
	ErrorMessage sql.NullString `db:"error_message"`
	Attempts     int            `db:"attempts"`
	CreatedAt    int64          `db:"created_at"`
	UpdatedAt    int64          `db:"updated_at"`
}

var videoIndexColumns = []string{
	"video_id", "title", "status", "chunks", "summary", "error_message", "attempts", "created_at", "updated_at",
}

func (row videoIndexRow) toModel() (*models.VideoIndex, error) {
	idx := &models.VideoIndex{
		VideoID:      row.VideoID,
		Title:        row.Title,
		Status:       models.VideoStatus(row.Status),
		ErrorMessage: row.ErrorMessage.String,
		Attempts:     row.Attempts,
		CreatedAt:    time.UnixMilli(row.CreatedAt).UTC(),
		UpdatedAt:    time.UnixMilli(row.UpdatedAt).UTC(),
	}

	if row.Chunks != "" {
		if err := json.Unmarshal([]byte(row.Chunks), &idx.Chunks); err != nil {
			return nil, fmt.Errorf("failed to decode chunks of %s: %w", row.VideoID, err)
		}
	}

	if row.Summary.Valid && row.Summary.String != "" {
		var summary models.VideoSummary
		if err := json.Unmarshal([]byte(row.Summary.String), &summary); err != nil {
			return nil, fmt.Errorf("failed to decode summary of %s: %w", row.VideoID, err)
		}
		idx.Summary = &summary
	}

	return idx, nil
}

// GetVideoIndex retrieves the index record of a video
func (r *SQLRepository) GetVideoIndex(ctx context.Context, videoID string) (*models.VideoIndex, error) {
	query, args, err := r.sb.Select(videoIndexColumns...).
		From("video_indexes").
		Where(sq.Eq{"video_id": videoID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var row videoIndexRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get video index: %w", err)
	}
	return row.toModel()
}

// SaveVideoIndex upserts the index record, stamping timestamps
func (r *SQLRepository) SaveVideoIndex(ctx context.Context, idx *models.VideoIndex) error {
	now := time.Now().UTC()
	if idx.CreatedAt.IsZero() {
		idx.CreatedAt = now
	}
	idx.UpdatedAt = now

	chunks := idx.Chunks
	if chunks == nil {
		chunks = []models.ChunkRef{}
	}
	chunksJSON, err := json.Marshal(chunks)
	if err != nil {
		return fmt.Errorf("failed to encode chunks: %w", err)
	}

	var summary interface{}
	if idx.Summary != nil {
		raw, err := json.Marshal(idx.Summary)
		if err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}
		summary = string(raw)
	}

	query, args, err := r.sb.Insert("video_indexes").
		Columns(videoIndexColumns...).
		Values(
			idx.VideoID,
			idx.Title,
			string(idx.Status),
			string(chunksJSON),
			summary,
			nullIfEmpty(idx.ErrorMessage),
			idx.Attempts,
			idx.CreatedAt.UnixMilli(),
			idx.UpdatedAt.UnixMilli(),
		).
		Suffix(`ON CONFLICT (video_id) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			chunks = excluded.chunks,
			summary = excluded.summary,
			error_message = excluded.error_message,
			attempts = excluded.attempts,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save video index: %w", err)
	}
	return nil
}

// ListVideoIndexes returns all index records
func (r *SQLRepository) ListVideoIndexes(ctx context.Context) ([]*models.VideoIndex, error) {
	query, args, err := r.sb.Select(videoIndexColumns...).
		From("video_indexes").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []videoIndexRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query video indexes: %w", err)
	}

	indexes := make([]*models.VideoIndex, 0, len(rows))
	for _, row := range rows {
		idx, err := row.toModel()
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}

type chunkRow struct {
	ID         string `db:"id"`
	VideoID    string `db:"video_id"`
	ChunkIndex int    `db:"chunk_index"`
	Text       string `db:"text"`
	Embedding  string `db:"embedding"`
	CreatedAt  int64  `db:"created_at"`
}

func (row chunkRow) toModel() (models.Chunk, error) {
	c := models.Chunk{
		ID:        row.ID,
		VideoID:   row.VideoID,
		Index:     row.ChunkIndex,
		Text:      row.Text,
		CreatedAt: time.UnixMilli(row.CreatedAt).UTC(),
	}
	if err := json.Unmarshal([]byte(row.Embedding), &c.Embedding); err != nil {
		return models.Chunk{}, fmt.Errorf("failed to decode embedding of %s/%d: %w", row.VideoID, row.ChunkIndex, err)
	}
	return c, nil
}

// HasChunks reports whether any chunk is stored for the video
func (r *SQLRepository) HasChunks(ctx context.Context, videoID string) (bool, error) {
	query, args, err := r.sb.Select("COUNT(*)").
		From("transcript_chunks").
		Where(sq.Eq{"video_id": videoID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count > 0, nil
}

// DeleteChunks removes every chunk of the video
func (r *SQLRepository) DeleteChunks(ctx context.Context, videoID string) error {
	query, args, err := r.sb.Delete("transcript_chunks").
		Where(sq.Eq{"video_id": videoID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}

// UpsertChunks writes chunks keyed by video and chunk index in one transaction
func (r *SQLRepository) UpsertChunks(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i := range chunks {
		c := &chunks[i]
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		embedding, err := json.Marshal(c.Embedding)
		if err != nil {
			return fmt.Errorf("failed to encode embedding: %w", err)
		}

		query, args, err := r.sb.Insert("transcript_chunks").
			Columns("id", "video_id", "chunk_index", "text", "embedding", "created_at").
			Values(c.ID, c.VideoID, c.Index, c.Text, string(embedding), c.CreatedAt.UnixMilli()).
			Suffix(`ON CONFLICT (video_id, chunk_index) DO UPDATE SET
				id = excluded.id,
				text = excluded.text,
				embedding = excluded.embedding,
				created_at = excluded.created_at`).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to upsert chunk %s/%d: %w", c.VideoID, c.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListChunks returns the chunks of a video in order
func (r *SQLRepository) ListChunks(ctx context.Context, videoID string) ([]models.Chunk, error) {
	return r.selectChunks(ctx, sq.Eq{"video_id": videoID})
}

// SearchSimilar ranks stored chunks by cosine similarity to the query vector
func (r *SQLRepository) SearchSimilar(ctx context.Context, query []float32, opts SearchOptions) ([]models.ScoredChunk, error) {
	var where sq.Sqlizer = sq.Expr("1 = 1")
	if opts.VideoID != "" {
		where = sq.Eq{"video_id": opts.VideoID}
	}

	candidates, err := r.selectChunks(ctx, where)
	if err != nil {
		return nil, err
	}
	return rankChunks(query, candidates, opts.TopK, opts.MinScore), nil
}

func (r *SQLRepository) selectChunks(ctx context.Context, where sq.Sqlizer) ([]models.Chunk, error) {
	query, args, err := r.sb.Select("id", "video_id", "chunk_index", "text", "embedding", "created_at").
		From("transcript_chunks").
		Where(where).
		OrderBy("video_id ASC", "chunk_index ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []chunkRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}

	chunks := make([]models.Chunk, 0, len(rows))
	for _, row := range rows {
		c, err := row.toModel()
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	return chunks, nil
}

type commentRow struct {
	ID               string         `db:"id"`
	YouTubeCommentID string         `db:"youtube_comment_id"`
	VideoID          sql.NullString `db:"video_id"`
	Author           string         `db:"author"`
	Text             string         `db:"text"`
	PublishedAt      int64          `db:"published_at"`
	DraftAttempts    int            `db:"draft_attempts"`
	LastDraftErrorAt sql.NullInt64  `db:"last_draft_error_at"`
}

var commentColumns = []string{
	"id", "youtube_comment_id", "video_id", "author", "text", "published_at",
	"draft_attempts", "last_draft_error_at",
}

func (row commentRow) toModel() *models.Comment {
	c := &models.Comment{
		ID:               row.ID,
		YouTubeCommentID: row.YouTubeCommentID,
		VideoID:          row.VideoID.String,
		Author:           row.Author,
		Text:             row.Text,
		PublishedAt:      time.UnixMilli(row.PublishedAt).UTC(),
		DraftAttempts:    row.DraftAttempts,
	}
	if row.LastDraftErrorAt.Valid {
		t := time.UnixMilli(row.LastDraftErrorAt.Int64).UTC()
		c.LastDraftErrorAt = &t
	}
	return c
}

// GetComment retrieves a comment by ID
func (r *SQLRepository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	query, args, err := r.sb.Select(commentColumns...).
		From("comments").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var row commentRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return row.toModel(), nil
}

// SaveComment inserts or updates a comment
func (r *SQLRepository) SaveComment(ctx context.Context, comment *models.Comment) error {
	query, args, err := r.sb.Insert("comments").
		Columns("id", "youtube_comment_id", "video_id", "author", "text", "published_at").
		Values(
			comment.ID,
			comment.YouTubeCommentID,
			nullIfEmpty(comment.VideoID),
			comment.Author,
			comment.Text,
			comment.PublishedAt.UnixMilli(),
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			youtube_comment_id = excluded.youtube_comment_id,
			video_id = excluded.video_id,
			author = excluded.author,
			text = excluded.text,
			published_at = excluded.published_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}
	return nil
}

// RecordDraftFailure bumps the draft attempt counter of a comment
func (r *SQLRepository) RecordDraftFailure(ctx context.Context, commentID string, at time.Time) error {
	query, args, err := r.sb.Update("comments").
		Set("draft_attempts", sq.Expr("draft_attempts + 1")).
		Set("last_draft_error_at", at.UnixMilli()).
		Where(sq.Eq{"id": commentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to record draft failure: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCommentsNeedingDraft returns comments with no draft or an empty pending
// draft. Comments with fewer failed attempts come first, then oldest first.
func (r *SQLRepository) ListCommentsNeedingDraft(ctx context.Context, limit int) ([]*models.Comment, error) {
	cols := make([]string, len(commentColumns))
	for i, c := range commentColumns {
		cols[i] = "c." + c
	}
	builder := r.sb.Select(cols...).
		From("comments c").
		LeftJoin("drafts d ON d.comment_id = c.id").
		Where(sq.Or{
			sq.Eq{"d.id": nil},
			sq.And{sq.Eq{"d.reply": ""}, sq.Eq{"d.status": string(models.DraftPending)}},
		}).
		OrderBy("c.draft_attempts ASC", "c.published_at ASC", "c.id ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}

	comments := make([]*models.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, row.toModel())
	}
	return comments, nil
}

type draftRow struct {
	ID              string         `db:"id"`
	CommentID       string         `db:"comment_id"`
	Reply           string         `db:"reply"`
	Status          string         `db:"status"`
	ApprovedByID    sql.NullString `db:"approved_by_id"`
	ApprovedAt      sql.NullInt64  `db:"approved_at"`
	PostedAt        sql.NullInt64  `db:"posted_at"`
	PostedCommentID sql.NullString `db:"posted_comment_id"`
	CreatedAt       int64          `db:"created_at"`
	UpdatedAt       int64          `db:"updated_at"`
}

var draftColumns = []string{
	"id", "comment_id", "reply", "status", "approved_by_id", "approved_at",
	"posted_at", "posted_comment_id", "created_at", "updated_at",
}

func (row draftRow) toModel() *models.Draft {
	d := &models.Draft{
		ID:              row.ID,
		CommentID:       row.CommentID,
		Reply:           row.Reply,
		Status:          models.DraftStatus(row.Status),
		ApprovedByID:    row.ApprovedByID.String,
		PostedCommentID: row.PostedCommentID.String,
		CreatedAt:       time.UnixMilli(row.CreatedAt).UTC(),
		UpdatedAt:       time.UnixMilli(row.UpdatedAt).UTC(),
	}
	if row.ApprovedAt.Valid {
		t := time.UnixMilli(row.ApprovedAt.Int64).UTC()
		d.ApprovedAt = &t
	}
	if row.PostedAt.Valid {
		t := time.UnixMilli(row.PostedAt.Int64).UTC()
		d.PostedAt = &t
	}
	return d
}

// GetDraft retrieves a draft by ID
func (r *SQLRepository) GetDraft(ctx context.Context, id string) (*models.Draft, error) {
	return r.getDraft(ctx, sq.Eq{"id": id})
}

// GetDraftByCommentID retrieves the draft of a comment
func (r *SQLRepository) GetDraftByCommentID(ctx context.Context, commentID string) (*models.Draft, error) {
	return r.getDraft(ctx, sq.Eq{"comment_id": commentID})
}

func (r *SQLRepository) getDraft(ctx context.Context, where sq.Eq) (*models.Draft, error) {
	query, args, err := r.sb.Select(draftColumns...).
		From("drafts").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var row draftRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return row.toModel(), nil
}

// SaveDraft upserts a draft, stamping timestamps
func (r *SQLRepository) SaveDraft(ctx context.Context, draft *models.Draft) error {
	now := time.Now().UTC()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}
	draft.UpdatedAt = now

	query, args, err := r.sb.Insert("drafts").
		Columns(draftColumns...).
		Values(
			draft.ID,
			draft.CommentID,
			draft.Reply,
			string(draft.Status),
			nullIfEmpty(draft.ApprovedByID),
			nullTime(draft.ApprovedAt),
			nullTime(draft.PostedAt),
			nullIfEmpty(draft.PostedCommentID),
			draft.CreatedAt.UnixMilli(),
			draft.UpdatedAt.UnixMilli(),
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			reply = excluded.reply,
			status = excluded.status,
			approved_by_id = excluded.approved_by_id,
			approved_at = excluded.approved_at,
			posted_at = excluded.posted_at,
			posted_comment_id = excluded.posted_comment_id,
			updated_at = excluded.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// nullIfEmpty stores empty strings as NULL
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}
