package transcript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nbs-ytbot/internal/config"
)

const (
	userAgent    = "nbs-ytbot/1.0"
	maxBodyBytes = 16 << 20
)

// ErrBodyTooLarge is returned when a transcript response exceeds maxBodyBytes
var ErrBodyTooLarge = errors.New("transcript body too large")

// NewSources builds the source chain from configuration: captions, the
// archive mirror, and the AI fallback when it is enabled.
func NewSources(cfg config.TranscriptConfig, limiter Limiter) []Source {
	client := &http.Client{Timeout: cfg.Timeout}

	sources := []Source{
		NewCaptionsSource(client, cfg.CaptionsURL, cfg.Language, limiter),
		NewArchiveSource(client, cfg.ArchivePattern),
	}

	if cfg.AIFallback.Enabled {
		aiClient := &http.Client{Timeout: cfg.AIFallback.Timeout}
		sources = append(sources, NewAIFallbackSource(aiClient, cfg.AIFallback.Endpoint, cfg.AIFallback.APIKey, cfg.AIFallback.Model, limiter))
	}

	return sources
}

// fetch issues req and returns the body of a 2xx response. notFound reports
// whether the status means the source has nothing for the video.
func fetch(client *http.Client, req *http.Request, unavailable ...int) (body []byte, contentType string, notFound bool, err error) {
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, "", false, fmt.Errorf("request transcript: %w", err)
	}
	defer resp.Body.Close()

	for _, code := range unavailable {
		if resp.StatusCode == code {
			io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return nil, "", true, nil
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, "", false, fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, "", false, fmt.Errorf("read transcript body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return nil, "", false, fmt.Errorf("%w: more than %d bytes from %s", ErrBodyTooLarge, maxBodyBytes, req.URL.Host)
	}
	return body, resp.Header.Get("Content-Type"), false, nil
}

func newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	return req, nil
}

// normalizeSpace collapses runs of whitespace into single spaces
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func currentYear(now func() time.Time) int {
	return now().UTC().Year()
}
