package transcript

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"nbs-ytbot/internal/models"
)

// ErrRateLimited is returned by a source whose limiter denied the call
var ErrRateLimited = errors.New("transcript source rate limited")

// Status is the outcome of a single source lookup
type Status int

const (
	StatusUnavailable Status = iota
	StatusFound
)

func (s Status) String() string {
	if s == StatusFound {
		return "found"
	}
	return "unavailable"
}

// Result is what a source returns when it did not fail
type Result struct {
	Status   Status
	Text     string
	Language string
}

// Found builds a successful result
func Found(text, language string) Result {
	return Result{Status: StatusFound, Text: text, Language: language}
}

// Unavailable builds a result for a source that has nothing for the video
func Unavailable() Result {
	return Result{Status: StatusUnavailable}
}

// Source is one place a transcript may come from. Missing data is reported
// as StatusUnavailable; errors are reserved for transport failures.
type Source interface {
	Name() string
	TryFetch(ctx context.Context, videoID string) (Result, error)
}

// Limiter admits calls to quota-limited sources
type Limiter interface {
	Attempt(key string, cost int) bool
}

// Attempt records what one source returned during a resolution
type Attempt struct {
	Source string `json:"source"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Resolution is the outcome of Resolve. Found is false when every source was unavailable.
type Resolution struct {
	Found      bool
	Transcript *models.Transcript
	Attempts   []Attempt
}

// Resolver tries sources in order until one has the transcript
type Resolver struct {
	sources []Source
	now     func() time.Time
}

// NewResolver creates a resolver over sources in priority order
func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources, now: time.Now}
}

// Sources returns the source names in the order they are tried
func (r *Resolver) Sources() []string {
	names := make([]string, 0, len(r.sources))
	for _, s := range r.sources {
		names = append(names, s.Name())
	}
	return names
}

// Resolve returns the first transcript found. A transport failure stops the
// search and is returned along with the attempts made so far.
func (r *Resolver) Resolve(ctx context.Context, videoID string) (Resolution, error) {
	var res Resolution
	log := logrus.WithField("video_id", videoID)

	for _, src := range r.sources {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		result, err := src.TryFetch(ctx, videoID)
		if err != nil {
			res.Attempts = append(res.Attempts, Attempt{Source: src.Name(), Status: "error", Error: err.Error()})
			log.WithField("source", src.Name()).WithError(err).Warn("transcript source failed")
			return res, fmt.Errorf("%s: %w", src.Name(), err)
		}

		res.Attempts = append(res.Attempts, Attempt{Source: src.Name(), Status: result.Status.String()})
		if result.Status != StatusFound {
			log.WithField("source", src.Name()).Debug("transcript unavailable, trying next source")
			continue
		}

		res.Found = true
		res.Transcript = &models.Transcript{
			VideoID:   videoID,
			Source:    src.Name(),
			Language:  result.Language,
			Text:      result.Text,
			FetchedAt: r.now().UTC(),
		}
		log.WithFields(logrus.Fields{"source": src.Name(), "chars": len(result.Text)}).Info("transcript resolved")
		return res, nil
	}

	log.Info("no transcript source had the video")
	return res, nil
}
