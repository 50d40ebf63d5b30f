package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"nbs-ytbot/internal/models"
	"nbs-ytbot/internal/service"
)

// Indexer runs video indexing on demand
type Indexer interface {
	EnsureVideoIndex(ctx context.Context, videoID string, opts service.EnsureOptions) (*models.EnsureResult, error)
	EnsureMissing(ctx context.Context) (*models.EnsureMissingSummary, error)
}

// Drafter generates and approves reply drafts
type Drafter interface {
	GenerateDraftsForPendingComments(ctx context.Context) (*models.GenerationResult, error)
	ApproveDraft(ctx context.Context, req service.ApproveRequest) (*service.ApproveResult, error)
}

// BotHandler exposes indexing and draft operations
type BotHandler struct {
	indexer Indexer
	drafter Drafter
}

func NewBotHandler(indexer Indexer, drafter Drafter) *BotHandler {
	return &BotHandler{indexer: indexer, drafter: drafter}
}

// IndexVideo handles POST /videos/{id}/index?force=
func (h *BotHandler) IndexVideo(w http.ResponseWriter, r *http.Request) {
	videoID := mux.Vars(r)["id"]

	var opts service.EnsureOptions
	if v := r.URL.Query().Get("force"); v != "" {
		force, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "force must be a boolean", http.StatusBadRequest)
			return
		}
		opts.ForceReindex = force
	}

	res, err := h.indexer.EnsureVideoIndex(r.Context(), videoID, opts)
	if err != nil {
		writeError(w, "index video failed", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// IndexMissing handles POST /videos/index-missing
func (h *BotHandler) IndexMissing(w http.ResponseWriter, r *http.Request) {
	summary, err := h.indexer.EnsureMissing(r.Context())
	if err != nil {
		writeError(w, "index missing videos failed", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GenerateDrafts handles POST /drafts/generate
func (h *BotHandler) GenerateDrafts(w http.ResponseWriter, r *http.Request) {
	result, err := h.drafter.GenerateDraftsForPendingComments(r.Context())
	if err != nil {
		writeError(w, "draft generation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ApproveDraft handles POST /drafts/{id}/approve. The approver comes from
// the X-User-ID header; an optional body may carry job_id.
func (h *BotHandler) ApproveDraft(w http.ResponseWriter, r *http.Request) {
	req := service.ApproveRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	req.DraftID = mux.Vars(r)["id"]
	if user := r.Header.Get("X-User-ID"); user != "" {
		req.UserID = user
	}

	result, err := h.drafter.ApproveDraft(r.Context(), req)
	if err != nil {
		writeError(w, "approve draft failed", err)
		return
	}
	writeJSON(w, http.StatusAccepted, result)
}
