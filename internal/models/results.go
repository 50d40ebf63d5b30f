package models

// EnsureOutcome describes what EnsureVideoIndex did for a video
type EnsureOutcome string

const (
	OutcomeIndexed        EnsureOutcome = "indexed"
	OutcomeAlreadyIndexed EnsureOutcome = "already_indexed"
	OutcomeInProgress     EnsureOutcome = "in_progress"
	OutcomeFailed         EnsureOutcome = "failed"
	OutcomeBackoff        EnsureOutcome = "backoff"
)

// EnsureResult is the result of indexing a single video
type EnsureResult struct {
	VideoID       string         `json:"video_id"`
	Outcome       EnsureOutcome  `json:"outcome"`
	Index         *VideoIndex    `json:"index,omitempty"`
	Source        string         `json:"source,omitempty"`
	ChunksWritten int            `json:"chunks_written"`
	ChunkFailures []ChunkFailure `json:"chunk_failures,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// Succeeded reports whether the video ended up indexed
func (r *EnsureResult) Succeeded() bool {
	return r.Outcome == OutcomeIndexed || r.Outcome == OutcomeAlreadyIndexed
}

// ChunkFailure records a chunk whose embedding could not be computed
type ChunkFailure struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

// VideoOutcome is the per-video entry of an EnsureMissing run
type VideoOutcome struct {
	VideoID string        `json:"video_id"`
	Outcome EnsureOutcome `json:"outcome"`
	Status  VideoStatus   `json:"status,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// EnsureMissingSummary aggregates an EnsureMissing run
type EnsureMissingSummary struct {
	Total     int            `json:"total"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
	Skipped   int            `json:"skipped"`
	Videos    []VideoOutcome `json:"videos"`
}

// CommentOutcome is the per-comment entry of a draft generation run
type CommentOutcome struct {
	CommentID string `json:"comment_id"`
	DraftID   string `json:"draft_id,omitempty"`
	Chunks    int    `json:"chunks"`
	Error     string `json:"error,omitempty"`
}

// GenerationResult aggregates a draft generation run
type GenerationResult struct {
	Processed int              `json:"processed"`
	Generated int              `json:"generated"`
	Failed    int              `json:"failed"`
	Comments  []CommentOutcome `json:"comments"`
}
