package transcript

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	SourceCaptions = "captions"

	captionsLimitKey = "captions"
)

// CaptionsSource reads the platform's timedtext captions
type CaptionsSource struct {
	client   *http.Client
	baseURL  string
	language string
	limiter  Limiter
}

var _ Source = (*CaptionsSource)(nil)

func NewCaptionsSource(client *http.Client, baseURL, language string, limiter Limiter) *CaptionsSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &CaptionsSource{client: client, baseURL: baseURL, language: language, limiter: limiter}
}

func (c *CaptionsSource) Name() string {
	return SourceCaptions
}

// TryFetch asks for the caption track in the configured language. An empty
// or missing track is unavailable.
func (c *CaptionsSource) TryFetch(ctx context.Context, videoID string) (Result, error) {
	if c.limiter != nil && !c.limiter.Attempt(captionsLimitKey, 1) {
		return Result{}, ErrRateLimited
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Result{}, fmt.Errorf("parse captions url: %w", err)
	}
	q := u.Query()
	q.Set("v", videoID)
	if c.language != "" {
		q.Set("lang", c.language)
	}
	u.RawQuery = q.Encode()

	req, err := newRequest(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Result{}, err
	}

	body, _, notFound, err := fetch(c.client, req, http.StatusNotFound)
	if err != nil {
		return Result{}, err
	}
	if notFound {
		return Unavailable(), nil
	}

	text, err := parseTimedText(body)
	if err != nil {
		return Result{}, err
	}
	if text == "" {
		return Unavailable(), nil
	}
	return Found(text, c.language), nil
}

// parseTimedText joins the <text> cues of a timedtext document
func parseTimedText(body []byte) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse captions: %w", err)
	}

	var parts []string
	doc.Find("text").Each(func(_ int, s *goquery.Selection) {
		// cues arrive entity-encoded twice
		cue := normalizeSpace(html.UnescapeString(s.Text()))
		if cue != "" {
			parts = append(parts, cue)
		}
	})
	return strings.Join(parts, " "), nil
}
