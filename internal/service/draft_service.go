package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"nbs-ytbot/internal/config"
	"nbs-ytbot/internal/llm"
	"nbs-ytbot/internal/metrics"
	"nbs-ytbot/internal/models"
	"nbs-ytbot/internal/repository"
)

const defaultSystemPrompt = "You reply to YouTube comments on behalf of the channel owner. " +
	"Answer in a friendly, concise tone using only facts from the provided transcript excerpts. " +
	"If the excerpts do not answer the question, say so briefly instead of guessing."

// DraftOptions tunes retrieval and completion for draft generation
type DraftOptions struct {
	TopK         int
	MinScore     float64
	BatchSize    int
	Model        string
	MaxTokens    int
	JSONMode     bool
	SystemPrompt string
}

// DraftOptionsFromConfig maps the drafts and llm config sections
func DraftOptionsFromConfig(d config.DraftsConfig, l config.LLMConfig) DraftOptions {
	return DraftOptions{
		TopK:         d.TopK,
		MinScore:     d.MinScore,
		BatchSize:    d.BatchSize,
		Model:        l.CompletionModel,
		MaxTokens:    l.MaxTokens,
		JSONMode:     l.JSONMode,
		SystemPrompt: l.SystemPrompt,
	}
}

// ApproveRequest approves a draft and schedules it for posting
type ApproveRequest struct {
	DraftID string `json:"draft_id"`
	UserID  string `json:"user_id"`
	// JobID defaults to post-<commentID>
	JobID string `json:"job_id,omitempty"`
}

type ApproveResult struct {
	Draft *models.Draft `json:"draft"`
	Job   *models.Job   `json:"job,omitempty"`
}

// DraftService generates reply drafts from indexed transcripts
type DraftService struct {
	store     DraftStore
	embedder  Embedder
	completer Completer
	queue     *JobQueue
	opts      DraftOptions
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewDraftService(store DraftStore, embedder Embedder, completer Completer, queue *JobQueue, opts DraftOptions, metrics *metrics.Metrics) *DraftService {
	if opts.TopK < 1 {
		opts.TopK = 4
	}
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = defaultSystemPrompt
	}
	return &DraftService{
		store:     store,
		embedder:  embedder,
		completer: completer,
		queue:     queue,
		opts:      opts,
		metrics:   metrics,
		now:       time.Now,
	}
}

// GenerateDraftsForPendingComments drafts a reply for every comment without
// one. A comment that fails is recorded in the result and the run goes on.
func (s *DraftService) GenerateDraftsForPendingComments(ctx context.Context) (*models.GenerationResult, error) {
	comments, err := s.store.ListCommentsNeedingDraft(ctx, s.opts.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("list comments needing draft: %w", err)
	}

	result := &models.GenerationResult{Comments: make([]models.CommentOutcome, 0, len(comments))}
	for _, c := range comments {
		if ctx.Err() != nil {
			break
		}
		result.Processed++

		outcome, err := s.generate(ctx, c)
		if err != nil {
			outcome.Error = err.Error()
			result.Failed++
			s.metrics.IncrementDraftsFailed()
			log := logrus.WithFields(logrus.Fields{"comment_id": c.ID, "video_id": c.VideoID, "attempts": c.DraftAttempts + 1})
			log.WithError(err).Warn("draft generation failed")
			if ctx.Err() == nil {
				if rerr := s.store.RecordDraftFailure(ctx, c.ID, s.now().UTC()); rerr != nil {
					log.WithError(rerr).Error("failed to record draft attempt")
				}
			}
		} else {
			result.Generated++
			s.metrics.IncrementDraftsGenerated()
		}
		result.Comments = append(result.Comments, outcome)
	}

	logrus.WithFields(logrus.Fields{
		"processed": result.Processed,
		"generated": result.Generated,
		"failed":    result.Failed,
	}).Info("draft generation finished")
	return result, nil
}

func (s *DraftService) generate(ctx context.Context, c *models.Comment) (models.CommentOutcome, error) {
	outcome := models.CommentOutcome{CommentID: c.ID}

	if strings.TrimSpace(c.Text) == "" {
		return outcome, errors.New("comment has no text")
	}

	query, err := s.embedder.Embed(ctx, c.Text)
	if err != nil {
		return outcome, fmt.Errorf("embed comment: %w", err)
	}

	chunks, err := s.store.SearchSimilar(ctx, query, repository.SearchOptions{
		VideoID:  c.VideoID,
		TopK:     s.opts.TopK,
		MinScore: s.opts.MinScore,
	})
	if err != nil {
		return outcome, fmt.Errorf("search chunks: %w", err)
	}
	outcome.Chunks = len(chunks)
	if len(chunks) == 0 {
		return outcome, ErrNoContext
	}

	raw, err := s.completer.Complete(ctx, s.buildMessages(c, chunks), llm.CompletionOptions{
		Model:     s.opts.Model,
		MaxTokens: s.opts.MaxTokens,
		JSONMode:  s.opts.JSONMode,
	})
	if err != nil {
		return outcome, fmt.Errorf("complete: %w", err)
	}

	reply := parseReply(raw, s.opts.JSONMode)
	if reply == "" {
		return outcome, ErrEmptyDraft
	}

	draft, err := s.store.GetDraftByCommentID(ctx, c.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		draft = &models.Draft{ID: uuid.New().String(), CommentID: c.ID, CreatedAt: s.now().UTC()}
	case err != nil:
		return outcome, fmt.Errorf("load draft: %w", err)
	}

	if err := models.TransitionDraft(draft, models.DraftPending); err != nil {
		return outcome, err
	}
	draft.Reply = reply
	draft.UpdatedAt = s.now().UTC()
	if err := s.store.SaveDraft(ctx, draft); err != nil {
		return outcome, fmt.Errorf("save draft: %w", err)
	}

	outcome.DraftID = draft.ID
	logrus.WithFields(logrus.Fields{
		"comment_id": c.ID,
		"draft_id":   draft.ID,
		"chunks":     len(chunks),
	}).Info("draft generated")
	return outcome, nil
}

func (s *DraftService) buildMessages(c *models.Comment, chunks []models.ScoredChunk) []llm.Message {
	var b strings.Builder
	b.WriteString("Transcript excerpts:\n")
	for i, ch := range chunks {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, strings.TrimSpace(ch.Text))
	}

	author := c.Author
	if author == "" {
		author = "a viewer"
	}
	fmt.Fprintf(&b, "\nComment from %s:\n%s\n", author, strings.TrimSpace(c.Text))

	if s.opts.JSONMode {
		b.WriteString("\nRespond with a JSON object of the form {\"reply\": \"<your reply>\"}.")
	} else {
		b.WriteString("\nRespond with the reply text only.")
	}

	return []llm.Message{
		{Role: "system", Content: s.opts.SystemPrompt},
		{Role: "user", Content: b.String()},
	}
}

// parseReply extracts the reply text from a completion
func parseReply(raw string, jsonMode bool) string {
	raw = strings.TrimSpace(raw)
	if jsonMode && gjson.Valid(raw) {
		return strings.TrimSpace(gjson.Get(raw, "reply").String())
	}
	return raw
}

// ApproveDraft marks a draft APPROVED by req.UserID and enqueues the
// post-reply job. Approving an already approved draft only re-enqueues it.
func (s *DraftService) ApproveDraft(ctx context.Context, req ApproveRequest) (*ApproveResult, error) {
	if req.UserID == "" {
		return nil, ErrMissingUserID
	}

	draft, err := s.store.GetDraft(ctx, req.DraftID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrDraftNotFound, req.DraftID)
		}
		return nil, fmt.Errorf("load draft: %w", err)
	}

	switch draft.Status {
	case models.DraftPending:
		if strings.TrimSpace(draft.Reply) == "" {
			return nil, fmt.Errorf("%w: %s", ErrEmptyDraft, draft.ID)
		}
		if err := models.TransitionDraft(draft, models.DraftApproved); err != nil {
			return nil, err
		}
		now := s.now().UTC()
		draft.ApprovedByID = req.UserID
		draft.ApprovedAt = &now
		draft.UpdatedAt = now
		if err := s.store.SaveDraft(ctx, draft); err != nil {
			return nil, fmt.Errorf("save approved draft: %w", err)
		}
		logrus.WithFields(logrus.Fields{"draft_id": draft.ID, "user_id": req.UserID}).Info("draft approved")
	case models.DraftApproved:
	default:
		return nil, fmt.Errorf("%w: draft %s is already %s", models.ErrInvalidTransition, draft.ID, draft.Status)
	}

	result := &ApproveResult{Draft: draft}
	if s.queue == nil {
		return result, nil
	}

	jobID := req.JobID
	if jobID == "" {
		jobID = "post-" + draft.CommentID
	}
	payload, err := json.Marshal(models.PostReplyPayload{DraftID: draft.ID, ActingUserID: req.UserID})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	job, err := s.queue.Enqueue(ctx, &models.JobRequest{ID: jobID, Type: models.JobTypePostReply, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("enqueue post-reply job: %w", err)
	}
	result.Job = job
	return result, nil
}
