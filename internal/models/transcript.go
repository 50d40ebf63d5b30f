package models

import "time"

// Transcript is the full spoken text of a video
type Transcript struct {
	VideoID   string    `json:"video_id"`
	Source    string    `json:"source"`
	Language  string    `json:"language,omitempty"`
	Text      string    `json:"text"`
	FetchedAt time.Time `json:"fetched_at"`
}
