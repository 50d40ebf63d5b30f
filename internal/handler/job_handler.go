package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"nbs-ytbot/internal/metrics"
	"nbs-ytbot/internal/models"
	"nbs-ytbot/internal/service"
)

// Jobs is the part of the job queue the API exposes
type Jobs interface {
	Enqueue(ctx context.Context, req *models.JobRequest) (*models.Job, error)
	Get(id string) (*models.Job, error)
	List() []*models.Job
	Pending() int
}

// JobHandler handles HTTP requests for jobs
type JobHandler struct {
	jobs    Jobs
	metrics *metrics.Metrics
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobs Jobs, metrics *metrics.Metrics) *JobHandler {
	return &JobHandler{
		jobs:    jobs,
		metrics: metrics,
	}
}

// CreateJob handles POST /jobs
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req models.JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	job, err := h.jobs.Enqueue(r.Context(), &req)
	if err != nil {
		writeError(w, "job creation failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

// GetJob handles GET /jobs/{id}
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	job, err := h.jobs.Get(id)
	if err != nil {
		writeError(w, "failed to retrieve job", err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// ListJobs handles GET /jobs?status=
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobs.List()

	if status := models.JobStatus(r.URL.Query().Get("status")); status != "" {
		switch status {
		case models.JobQueued, models.JobRunning, models.JobSucceeded, models.JobFailed:
		default:
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}
		filtered := jobs[:0]
		for _, j := range jobs {
			if j.Status == status {
				filtered = append(filtered, j)
			}
		}
		jobs = filtered
	}

	writeJSON(w, http.StatusOK, jobs)
}

// GetStats handles GET /stats
func (h *JobHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"counters":      h.metrics.GetSnapshot(),
		"pending_jobs":  h.jobs.Pending(),
		"retained_jobs": len(h.jobs.List()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("error encoding response")
	}
}

// writeError maps service errors to status codes
func writeError(w http.ResponseWriter, prefix string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrJobNotFound),
		errors.Is(err, service.ErrDraftNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrMissingJobID),
		errors.Is(err, service.ErrUnknownJobType),
		errors.Is(err, service.ErrInvalidPayload),
		errors.Is(err, service.ErrMissingUserID):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrEmptyDraft),
		errors.Is(err, models.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, service.ErrRateLimitExceeded):
		status = http.StatusTooManyRequests
	}

	if status == http.StatusInternalServerError {
		logrus.WithError(err).Error(prefix)
	}
	http.Error(w, prefix+": "+err.Error(), status)
}
