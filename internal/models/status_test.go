package models

import (
	"errors"
	"testing"
)

func TestCanTransitionVideo_AllowsExpectedPaths(t *testing.T) {
	cases := []struct {
		from VideoStatus
		to   VideoStatus
	}{
		{"", VideoProcessing},
		{VideoPending, VideoProcessing},
		{VideoProcessing, VideoIndexed},
		{VideoProcessing, VideoFailed},
		{VideoFailed, VideoProcessing},
		{VideoIndexed, VideoProcessing},
	}

	for _, tc := range cases {
		if !CanTransitionVideo(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be allowed", tc.from, tc.to)
		}
	}
}

func TestCanTransitionVideo_RejectsInvalidPaths(t *testing.T) {
	cases := []struct {
		from VideoStatus
		to   VideoStatus
	}{
		{VideoPending, VideoIndexed},
		{VideoIndexed, VideoFailed},
		{VideoFailed, VideoIndexed},
		{"bogus", VideoProcessing},
	}

	for _, tc := range cases {
		if CanTransitionVideo(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be rejected", tc.from, tc.to)
		}
	}
}

func TestTransitionJob_ExactlyOnceToTerminal(t *testing.T) {
	job := &Job{ID: "job-1", Status: JobQueued}

	if err := TransitionJob(job, JobRunning); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := TransitionJob(job, JobSucceeded); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	err := TransitionJob(job, JobFailed)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if job.Status != JobSucceeded {
		t.Errorf("expected status to stay SUCCEEDED, got %s", job.Status)
	}
}

func TestTransitionDraft_PostedIsFinal(t *testing.T) {
	d := &Draft{ID: "d-1", Status: DraftPosted}

	if err := TransitionDraft(d, DraftApproved); err == nil {
		t.Fatal("expected error moving a posted draft")
	}
	if err := TransitionDraft(d, DraftPosted); err == nil {
		t.Fatal("expected error posting a draft twice")
	}
}

func TestTransitionDraft_PendingRequiresApproval(t *testing.T) {
	d := &Draft{ID: "d-1", Status: DraftPending}

	if err := TransitionDraft(d, DraftPosted); err == nil {
		t.Fatal("expected error posting an unapproved draft")
	}
	if d.Status != DraftPending {
		t.Errorf("expected PENDING, got %s", d.Status)
	}
}
