package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"nbs-ytbot/internal/metrics"
	"nbs-ytbot/internal/models"
	"nbs-ytbot/internal/repository"
)

const defaultActingUser = "default"

// PostReplyHandler publishes an approved draft as a reply to its comment.
// It is safe to run again for the same draft: a POSTED draft is left alone.
type PostReplyHandler struct {
	store   DraftStore
	poster  ReplyPoster
	limiter *RateLimiter
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewPostReplyHandler creates the post-reply handler. A nil limiter disables write throttling.
func NewPostReplyHandler(store DraftStore, poster ReplyPoster, limiter *RateLimiter, metrics *metrics.Metrics) *PostReplyHandler {
	return &PostReplyHandler{
		store:   store,
		poster:  poster,
		limiter: limiter,
		metrics: metrics,
		now:     time.Now,
	}
}

func (h *PostReplyHandler) Handle(ctx context.Context, job *models.Job) error {
	var p models.PostReplyPayload
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.DraftID == "" {
		return fmt.Errorf("%w: draftId is required", ErrInvalidPayload)
	}

	log := logrus.WithFields(logrus.Fields{"job_id": job.ID, "draft_id": p.DraftID})

	draft, err := h.store.GetDraft(ctx, p.DraftID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrDraftNotFound, p.DraftID)
		}
		return fmt.Errorf("load draft: %w", err)
	}

	switch draft.Status {
	case models.DraftPosted:
		log.WithField("posted_comment_id", draft.PostedCommentID).Info("draft already posted, nothing to do")
		return nil
	case models.DraftApproved:
	default:
		return fmt.Errorf("%w: %s is %s", ErrDraftNotApproved, draft.ID, draft.Status)
	}
	if strings.TrimSpace(draft.Reply) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyDraft, draft.ID)
	}

	comment, err := h.store.GetComment(ctx, draft.CommentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrCommentNotFound, draft.CommentID)
		}
		return fmt.Errorf("load comment: %w", err)
	}

	user := p.ActingUserID
	if user == "" {
		user = draft.ApprovedByID
	}
	if user == "" {
		user = defaultActingUser
	}

	if h.limiter != nil {
		if err := h.limiter.Wait(ctx, user, 1); err != nil {
			return fmt.Errorf("post reply for %s: %w", user, err)
		}
	}

	parent := comment.YouTubeCommentID
	if parent == "" {
		parent = comment.ID
	}

	postedID, err := h.poster.PostReply(ctx, parent, draft.Reply, user)
	if err != nil {
		return fmt.Errorf("post reply: %w", err)
	}

	if err := models.TransitionDraft(draft, models.DraftPosted); err != nil {
		return err
	}
	now := h.now().UTC()
	draft.PostedAt = &now
	draft.PostedCommentID = postedID
	draft.UpdatedAt = now
	if err := h.store.SaveDraft(ctx, draft); err != nil {
		// the reply is live; a rerun will post it again
		return fmt.Errorf("save posted draft: %w", err)
	}

	h.metrics.IncrementRepliesPosted()
	log.WithFields(logrus.Fields{"comment_id": comment.ID, "posted_comment_id": postedID}).Info("reply posted for draft")
	return nil
}
