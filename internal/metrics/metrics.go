package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ytbot"

const (
	TotalJobs       = "total_jobs"
	CompletedJobs   = "completed_jobs"
	FailedJobs      = "failed_jobs"
	RetriedJobs     = "retried_jobs"
	VideosIndexed   = "videos_indexed"
	VideosFailed    = "videos_failed"
	DraftsGenerated = "drafts_generated"
	DraftsFailed    = "drafts_failed"
	RepliesPosted   = "replies_posted"
)

var counterHelp = map[string]string{
	TotalJobs:       "Total number of jobs enqueued",
	CompletedJobs:   "Total number of jobs that succeeded",
	FailedJobs:      "Total number of jobs that failed",
	RetriedJobs:     "Total number of finished jobs re-enqueued under the same id",
	VideosIndexed:   "Total number of videos that reached INDEXED",
	VideosFailed:    "Total number of video index attempts that ended FAILED",
	DraftsGenerated: "Total number of draft replies generated",
	DraftsFailed:    "Total number of comments for which draft generation failed",
	RepliesPosted:   "Total number of replies posted to YouTube",
}

// Metrics tracks system metrics
type Metrics struct {
	mu sync.RWMutex

	counts   map[string]int64
	counters map[string]prometheus.Counter

	queueDepth       prometheus.Gauge
	rateLimitAllowed *prometheus.CounterVec
	rateLimitDenied  *prometheus.CounterVec
}

// NewMetrics creates a new metrics instance. Collectors are registered on reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		counts:   make(map[string]int64, len(counterHelp)),
		counters: make(map[string]prometheus.Counter, len(counterHelp)),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "jobs",
			Name:      "queue_depth",
			Help:      "Number of jobs waiting to run",
		}),
		rateLimitAllowed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ratelimit",
			Name:      "allowed_total",
			Help:      "Total number of attempts admitted by the rate limiter",
		}, []string{"key"}),
		rateLimitDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ratelimit",
			Name:      "rejected_total",
			Help:      "Total number of attempts rejected by the rate limiter",
		}, []string{"key"}),
	}

	for name, help := range counterHelp {
		m.counts[name] = 0
		m.counters[name] = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
	}

	if reg != nil {
		for _, c := range m.counters {
			reg.MustRegister(c)
		}
		reg.MustRegister(m.queueDepth, m.rateLimitAllowed, m.rateLimitDenied)
	}

	return m
}

func (m *Metrics) inc(name string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.counts[name]++
	m.mu.Unlock()
	m.counters[name].Inc()
}

// IncrementTotalJobs increments the total jobs counter
func (m *Metrics) IncrementTotalJobs() { m.inc(TotalJobs) }

// IncrementCompletedJobs increments the completed jobs counter
func (m *Metrics) IncrementCompletedJobs() { m.inc(CompletedJobs) }

// IncrementFailedJobs increments the failed jobs counter
func (m *Metrics) IncrementFailedJobs() { m.inc(FailedJobs) }

// IncrementRetriedJobs increments the retried jobs counter
func (m *Metrics) IncrementRetriedJobs() { m.inc(RetriedJobs) }

func (m *Metrics) IncrementVideosIndexed() { m.inc(VideosIndexed) }

func (m *Metrics) IncrementVideosFailed() { m.inc(VideosFailed) }

func (m *Metrics) IncrementDraftsGenerated() { m.inc(DraftsGenerated) }

func (m *Metrics) IncrementDraftsFailed() { m.inc(DraftsFailed) }

func (m *Metrics) IncrementRepliesPosted() { m.inc(RepliesPosted) }

// SetQueueDepth records how many jobs are waiting
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}

// ObserveRateLimit records the outcome of a rate limiter attempt
func (m *Metrics) ObserveRateLimit(key string, allowed bool) {
	if m == nil {
		return
	}
	if allowed {
		m.rateLimitAllowed.WithLabelValues(key).Inc()
		return
	}
	m.rateLimitDenied.WithLabelValues(key).Inc()
}

// RateLimitCounter returns the admitted or rejected counter for key
func (m *Metrics) RateLimitCounter(key string, allowed bool) prometheus.Counter {
	if allowed {
		return m.rateLimitAllowed.WithLabelValues(key)
	}
	return m.rateLimitDenied.WithLabelValues(key)
}

// GetSnapshot returns a snapshot of all metrics
func (m *Metrics) GetSnapshot() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make(map[string]int64, len(m.counts))
	for name, v := range m.counts {
		snapshot[name] = v
	}
	return snapshot
}
