package models

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a state change is not allowed
var ErrInvalidTransition = errors.New("invalid status transition")

var videoTransitions = map[VideoStatus]map[VideoStatus]bool{
	"": {
		VideoPending:    true,
		VideoProcessing: true,
	},
	VideoPending: {
		VideoProcessing: true,
	},
	VideoProcessing: {
		VideoProcessing: true, // stale run reclaimed or forced
		VideoIndexed:    true,
		VideoFailed:     true,
	},
	VideoIndexed: {
		VideoProcessing: true, // forced reindex
	},
	VideoFailed: {
		VideoProcessing: true,
	},
}

var jobTransitions = map[JobStatus]map[JobStatus]bool{
	"": {
		JobQueued: true,
	},
	JobQueued: {
		JobRunning: true,
	},
	JobRunning: {
		JobSucceeded: true,
		JobFailed:    true,
	},
	JobSucceeded: {
		JobQueued: true, // re-enqueued under the same id
	},
	JobFailed: {
		JobQueued: true,
	},
}

var draftTransitions = map[DraftStatus]map[DraftStatus]bool{
	"": {
		DraftPending: true,
	},
	DraftPending: {
		DraftPending:  true, // regenerated
		DraftApproved: true,
	},
	DraftApproved: {
		DraftPosted: true,
	},
	DraftPosted: {},
}

func CanTransitionVideo(from, to VideoStatus) bool {
	return videoTransitions[from][to]
}

func CanTransitionJob(from, to JobStatus) bool {
	return jobTransitions[from][to]
}

func CanTransitionDraft(from, to DraftStatus) bool {
	return draftTransitions[from][to]
}

// TransitionVideo moves the index to a new status or fails without mutating it
func TransitionVideo(idx *VideoIndex, to VideoStatus) error {
	if !CanTransitionVideo(idx.Status, to) {
		return fmt.Errorf("%w: video %q -> %q (video_id=%s)", ErrInvalidTransition, idx.Status, to, idx.VideoID)
	}
	idx.Status = to
	return nil
}

// TransitionJob moves the job to a new status or fails without mutating it
func TransitionJob(job *Job, to JobStatus) error {
	if !CanTransitionJob(job.Status, to) {
		return fmt.Errorf("%w: job %q -> %q (job_id=%s)", ErrInvalidTransition, job.Status, to, job.ID)
	}
	job.Status = to
	return nil
}

// TransitionDraft moves the draft to a new status or fails without mutating it
func TransitionDraft(d *Draft, to DraftStatus) error {
	if !CanTransitionDraft(d.Status, to) {
		return fmt.Errorf("%w: draft %q -> %q (draft_id=%s)", ErrInvalidTransition, d.Status, to, d.ID)
	}
	d.Status = to
	return nil
}
