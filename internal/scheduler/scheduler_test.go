package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"nbs-ytbot/internal/models"
)

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	l.calls = append(l.calls, name)
	l.mu.Unlock()
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type mockIndexer struct {
	log *callLog
	err error
	fn  func(ctx context.Context)
}

func (m *mockIndexer) EnsureMissing(ctx context.Context) (*models.EnsureMissingSummary, error) {
	m.log.add("index")
	if m.fn != nil {
		m.fn(ctx)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &models.EnsureMissingSummary{}, nil
}

type mockDrafter struct {
	log *callLog
}

func (m *mockDrafter) GenerateDraftsForPendingComments(ctx context.Context) (*models.GenerationResult, error) {
	m.log.add("draft")
	return &models.GenerationResult{}, nil
}

func TestScheduler_RunOnce_IndexesBeforeDrafting(t *testing.T) {
	log := &callLog{}
	s := NewScheduler(&mockIndexer{log: log}, &mockDrafter{log: log}, time.Minute, time.Second)

	s.RunOnce(context.Background())

	got := log.snapshot()
	if len(got) != 2 || got[0] != "index" || got[1] != "draft" {
		t.Errorf("expected [index draft], got %v", got)
	}
}

func TestScheduler_RunOnce_IndexErrorStillDrafts(t *testing.T) {
	log := &callLog{}
	s := NewScheduler(&mockIndexer{log: log, err: errors.New("db down")}, &mockDrafter{log: log}, time.Minute, time.Second)

	s.RunOnce(context.Background())

	if got := log.snapshot(); len(got) != 2 {
		t.Errorf("expected drafting to run after an index error, got %v", got)
	}
}

func TestScheduler_RunOnce_TimeoutSkipsDrafting(t *testing.T) {
	log := &callLog{}
	indexer := &mockIndexer{log: log, fn: func(ctx context.Context) { <-ctx.Done() }}
	s := NewScheduler(indexer, &mockDrafter{log: log}, time.Minute, 20*time.Millisecond)

	s.RunOnce(context.Background())

	if got := log.snapshot(); len(got) != 1 || got[0] != "index" {
		t.Errorf("expected only indexing to run, got %v", got)
	}
}

func TestScheduler_Start_StopsOnCancel(t *testing.T) {
	log := &callLog{}
	s := NewScheduler(&mockIndexer{log: log}, nil, 10*time.Millisecond, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()

	if err := s.Start(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if n := len(log.snapshot()); n < 2 {
		t.Errorf("expected an immediate run plus ticks, got %d runs", n)
	}
}
