package models

import (
	"encoding/json"
	"time"
)

// JobStatus represents the state of a job
type JobStatus string

const (
	JobQueued    JobStatus = "QUEUED"
	JobRunning   JobStatus = "RUNNING"
	JobSucceeded JobStatus = "SUCCEEDED"
	JobFailed    JobStatus = "FAILED"
)

// IsTerminal reports whether the job has finished running
func (s JobStatus) IsTerminal() bool {
	return s == JobSucceeded || s == JobFailed
}

// JobType selects the handler that executes a job
type JobType string

const (
	JobTypePostReply JobType = "post-reply"
)

// Job represents a job in the system
type Job struct {
	ID          string          `json:"id"`
	Type        JobType         `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Status      JobStatus       `json:"status"`
	Attempts    int             `json:"attempts"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`

	seq uint64
}

// Seq returns the enqueue sequence number used to order jobs created at the same instant
func (j *Job) Seq() uint64 {
	return j.seq
}

// SetSeq sets the enqueue sequence number
func (j *Job) SetSeq(seq uint64) {
	j.seq = seq
}

// Clone returns a copy that is safe to hand to callers
func (j *Job) Clone() *Job {
	c := *j
	if j.Payload != nil {
		c.Payload = append(json.RawMessage(nil), j.Payload...)
	}
	if j.StartedAt != nil {
		t := *j.StartedAt
		c.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// JobRequest represents a request to enqueue a job
type JobRequest struct {
	ID      string          `json:"id"`
	Type    JobType         `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// PostReplyPayload is the payload of a post-reply job
type PostReplyPayload struct {
	DraftID      string `json:"draftId"`
	ActingUserID string `json:"actingUserId"`
}

// JobEvent is published when a job reaches a terminal state
type JobEvent struct {
	Action    string    `json:"action"`
	Job       *Job      `json:"job"`
	Timestamp time.Time `json:"timestamp"`
}
