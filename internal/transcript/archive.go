package transcript

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

const SourceArchive = "archive"

// ArchiveSource reads previously fetched captions from a mirror. The URL
// pattern may reference {year} and {videoId}.
type ArchiveSource struct {
	client  *http.Client
	pattern string
	now     func() time.Time
}

var _ Source = (*ArchiveSource)(nil)

func NewArchiveSource(client *http.Client, pattern string) *ArchiveSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &ArchiveSource{client: client, pattern: pattern, now: time.Now}
}

// WithClock replaces the time source used for {year}
func (a *ArchiveSource) WithClock(now func() time.Time) *ArchiveSource {
	a.now = now
	return a
}

func (a *ArchiveSource) Name() string {
	return SourceArchive
}

// URL returns the mirror address for videoID
func (a *ArchiveSource) URL(videoID string) string {
	return strings.NewReplacer(
		"{year}", strconv.Itoa(currentYear(a.now)),
		"{videoId}", url.PathEscape(videoID),
	).Replace(a.pattern)
}

func (a *ArchiveSource) TryFetch(ctx context.Context, videoID string) (Result, error) {
	if a.pattern == "" {
		return Unavailable(), nil
	}

	req, err := newRequest(ctx, http.MethodGet, a.URL(videoID), nil)
	if err != nil {
		return Result{}, err
	}

	body, contentType, notFound, err := fetch(a.client, req, http.StatusNotFound, http.StatusGone)
	if err != nil {
		return Result{}, err
	}
	if notFound {
		return Unavailable(), nil
	}

	text, lang, err := decodeArchiveBody(body, contentType)
	if err != nil {
		return Result{}, err
	}
	if text == "" {
		return Unavailable(), nil
	}
	return Found(text, lang), nil
}

func decodeArchiveBody(body []byte, contentType string) (text, language string, err error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)

	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		if !gjson.ValidBytes(body) {
			return "", "", fmt.Errorf("archive returned invalid json")
		}
		doc := gjson.ParseBytes(body)
		language = doc.Get("language").String()

		for _, path := range []string{"text", "transcript"} {
			if v := doc.Get(path); v.Type == gjson.String {
				return normalizeSpace(v.String()), language, nil
			}
		}

		var parts []string
		doc.Get("segments.#.text").ForEach(func(_, v gjson.Result) bool {
			if s := normalizeSpace(v.String()); s != "" {
				parts = append(parts, s)
			}
			return true
		})
		return strings.Join(parts, " "), language, nil

	case mediaType == "text/html":
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return "", "", fmt.Errorf("parse archive page: %w", err)
		}
		doc.Find("script, style, noscript").Remove()
		language, _ = doc.Find("html").Attr("lang")
		return normalizeSpace(doc.Find("body").Text()), language, nil

	case mediaType == "text/xml" || mediaType == "application/xml":
		text, err := parseTimedText(body)
		return text, "", err

	default:
		return normalizeSpace(string(body)), "", nil
	}
}
