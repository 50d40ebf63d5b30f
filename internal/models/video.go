package models

import "time"

// VideoStatus represents the indexing state of a video
type VideoStatus string

const (
	VideoPending    VideoStatus = "PENDING"
	VideoProcessing VideoStatus = "PROCESSING"
	VideoIndexed    VideoStatus = "INDEXED"
	VideoFailed     VideoStatus = "FAILED"
)

// Video is a video known to the system, ingested from the channel
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	PublishedAt time.Time `json:"published_at"`
}

// VideoIndex is the persisted indexing state of a single video
type VideoIndex struct {
	VideoID      string        `json:"video_id"`
	Title        string        `json:"title"`
	Status       VideoStatus   `json:"status"`
	Chunks       []ChunkRef    `json:"chunks"`
	Summary      *VideoSummary `json:"summary,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Attempts     int           `json:"attempts"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ChunkRef references an indexed chunk stored in the vector store
type ChunkRef struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
	Chars int    `json:"chars"`
}

// VideoSummary holds metadata derived from a transcript during indexing
type VideoSummary struct {
	Source       string `json:"source"`
	Language     string `json:"language,omitempty"`
	WordCount    int    `json:"word_count"`
	ChunkCount   int    `json:"chunk_count"`
	FailedChunks int    `json:"failed_chunks"`
	Preview      string `json:"preview"`
}

// Chunk is an embedded transcript segment
type Chunk struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"video_id"`
	Index     int       `json:"index"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoredChunk is a chunk returned by a similarity search
type ScoredChunk struct {
	Chunk
	Score float64 `json:"score"`
}
