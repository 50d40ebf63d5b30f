package models

import "time"

// DraftStatus represents the review state of a draft reply
type DraftStatus string

const (
	DraftPending  DraftStatus = "PENDING"
	DraftApproved DraftStatus = "APPROVED"
	DraftPosted   DraftStatus = "POSTED"
)

// Comment is a viewer comment ingested from YouTube
type Comment struct {
	ID               string    `json:"id"`
	YouTubeCommentID string    `json:"youtube_comment_id"`
	VideoID          string    `json:"video_id,omitempty"`
	Author           string    `json:"author"`
	Text             string    `json:"text"`
	PublishedAt      time.Time `json:"published_at"`

	// failed draft generations, so a comment that keeps failing sinks to
	// the back of the batch
	DraftAttempts    int        `json:"draft_attempts,omitempty"`
	LastDraftErrorAt *time.Time `json:"last_draft_error_at,omitempty"`
}

// Draft is a generated reply awaiting approval
type Draft struct {
	ID              string      `json:"id"`
	CommentID       string      `json:"comment_id"`
	Reply           string      `json:"reply"`
	Status          DraftStatus `json:"status"`
	ApprovedByID    string      `json:"approved_by_id,omitempty"`
	ApprovedAt      *time.Time  `json:"approved_at,omitempty"`
	PostedAt        *time.Time  `json:"posted_at,omitempty"`
	PostedCommentID string      `json:"posted_comment_id,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}
