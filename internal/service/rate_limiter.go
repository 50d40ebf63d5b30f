package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"nbs-ytbot/internal/config"
	"nbs-ytbot/internal/metrics"
)

// Limiter keys used for the external calls the bot makes
const (
	LimitCaptions     = "captions"
	LimitAITranscribe = "ai_transcribe"
	LimitEmbeddings   = "embeddings"
	LimitCompletions  = "completions"
	LimitYouTubeWrite = "youtube_write"
)

const waitPollInterval = 50 * time.Millisecond

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a keyed token bucket. Each key starts with a full bucket of
// capacity tokens and regains refillRate tokens per millisecond.
type RateLimiter struct {
	mu sync.Mutex

	name       string
	capacity   int
	refillRate float64
	buckets    map[string]*bucket

	now     func() time.Time
	metrics *metrics.Metrics

	stopOnce sync.Once
	stopped  chan struct{}
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(capacity int, refillRate float64) *RateLimiter {
	return &RateLimiter{
		capacity:   capacity,
		refillRate: refillRate,
		buckets:    make(map[string]*bucket),
		now:        time.Now,
		stopped:    make(chan struct{}),
	}
}

// WithClock replaces the time source. Intended for tests.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	rl.now = now
	return rl
}

// WithMetrics records admissions and rejections under name
func (rl *RateLimiter) WithMetrics(name string, m *metrics.Metrics) *RateLimiter {
	rl.name = name
	rl.metrics = m
	return rl
}

// Capacity returns the bucket size
func (rl *RateLimiter) Capacity() int {
	return rl.capacity
}

// Attempt admits cost tokens for key if the bucket holds them. A denied
// attempt leaves the balance untouched.
func (rl *RateLimiter) Attempt(key string, cost int) bool {
	if cost < 0 || cost > rl.capacity {
		rl.observe(key, false)
		return false
	}

	rl.mu.Lock()
	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rl.newLimiter(now)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	allowed := b.limiter.AllowN(now, cost)
	rl.mu.Unlock()

	rl.observe(key, allowed)
	return allowed
}

// newLimiter returns a full bucket anchored at now. The limiter is filled at a
// positive rate first so a zero refill rate still starts with capacity tokens.
func (rl *RateLimiter) newLimiter(now time.Time) *rate.Limiter {
	l := rate.NewLimiter(1, rl.capacity)
	l.AllowN(now, 0)
	l.SetLimitAt(now, rate.Limit(rl.refillRate*1000))
	return l
}

// Check is Attempt with the two denial reasons told apart
func (rl *RateLimiter) Check(key string, cost int) error {
	if cost > rl.capacity {
		return ErrCostExceedsCapacity
	}
	if !rl.Attempt(key, cost) {
		return ErrRateLimitExceeded
	}
	return nil
}

// Wait polls Attempt until it succeeds or ctx is done
func (rl *RateLimiter) Wait(ctx context.Context, key string, cost int) error {
	if cost > rl.capacity {
		return ErrCostExceedsCapacity
	}

	ticker := time.NewTicker(waitPollInterval)
	defer ticker.Stop()

	for {
		if rl.Attempt(key, cost) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tokens reports the current balance of key without consuming anything
func (rl *RateLimiter) Tokens(key string) float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		return float64(rl.capacity)
	}
	return b.limiter.TokensAt(rl.now())
}

// Len returns the number of tracked keys
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// StartEviction removes buckets idle for longer than idleTTL until ctx is
// done or Stop is called. A bucket idle that long has refilled, so dropping
// it does not change what Attempt returns.
func (rl *RateLimiter) StartEviction(ctx context.Context, idleTTL time.Duration) {
	if idleTTL <= 0 || rl.refillRate <= 0 {
		return
	}

	interval := idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-rl.stopped:
				return
			case <-ticker.C:
				if n := rl.evictIdle(idleTTL); n > 0 {
					logrus.WithFields(logrus.Fields{"limiter": rl.name, "evicted": n}).Debug("evicted idle rate limit buckets")
				}
			}
		}
	}()
}

func (rl *RateLimiter) evictIdle(idleTTL time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-idleTTL)
	evicted := 0
	for key, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) && b.limiter.TokensAt(rl.now()) >= float64(rl.capacity) {
			delete(rl.buckets, key)
			evicted++
		}
	}
	return evicted
}

// Stop ends the eviction goroutine. Safe to call multiple times.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopped) })
}

func (rl *RateLimiter) observe(key string, allowed bool) {
	label := rl.name
	if label == "" {
		label = key
	}
	rl.metrics.ObserveRateLimit(label, allowed)
}

// RateLimiters holds one limiter per external API
type RateLimiters struct {
	Captions     *RateLimiter
	AITranscribe *RateLimiter
	Embeddings   *RateLimiter
	Completions  *RateLimiter
	YouTubeWrite *RateLimiter
}

// NewRateLimiters builds the limiters from configuration
func NewRateLimiters(cfg config.RateLimitsConfig, m *metrics.Metrics) *RateLimiters {
	build := func(name string, b config.BucketConfig) *RateLimiter {
		return NewRateLimiter(b.Capacity, b.RefillPerMilli()).WithMetrics(name, m)
	}
	return &RateLimiters{
		Captions:     build(LimitCaptions, cfg.Captions),
		AITranscribe: build(LimitAITranscribe, cfg.AITranscribe),
		Embeddings:   build(LimitEmbeddings, cfg.Embeddings),
		Completions:  build(LimitCompletions, cfg.Completions),
		YouTubeWrite: build(LimitYouTubeWrite, cfg.YouTubeWrite),
	}
}

func (r *RateLimiters) all() []*RateLimiter {
	return []*RateLimiter{r.Captions, r.AITranscribe, r.Embeddings, r.Completions, r.YouTubeWrite}
}

// StartEviction starts idle bucket eviction on every limiter
func (r *RateLimiters) StartEviction(ctx context.Context, idleTTL time.Duration) {
	for _, l := range r.all() {
		l.StartEviction(ctx, idleTTL)
	}
}

// Stop stops every limiter
func (r *RateLimiters) Stop() {
	for _, l := range r.all() {
		l.Stop()
	}
}

// Get returns the limiter registered under name
func (r *RateLimiters) Get(name string) (*RateLimiter, bool) {
	switch name {
	case LimitCaptions:
		return r.Captions, true
	case LimitAITranscribe:
		return r.AITranscribe, true
	case LimitEmbeddings:
		return r.Embeddings, true
	case LimitCompletions:
		return r.Completions, true
	case LimitYouTubeWrite:
		return r.YouTubeWrite, true
	}
	return nil, false
}

// Attempt routes to the limiter named by key. Keys with no limiter are admitted.
func (r *RateLimiters) Attempt(key string, cost int) bool {
	l, ok := r.Get(key)
	if !ok {
		return true
	}
	return l.Attempt(key, cost)
}

// Wait routes to the limiter named by key. Keys with no limiter return at once.
func (r *RateLimiters) Wait(ctx context.Context, key string, cost int) error {
	l, ok := r.Get(key)
	if !ok {
		return ctx.Err()
	}
	return l.Wait(ctx, key, cost)
}
