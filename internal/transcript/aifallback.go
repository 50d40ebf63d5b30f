package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
)

const (
	SourceAIFallback = "ai"

	aiLimitKey = "ai_transcribe"
)

// AIFallbackSource asks a transcription service to transcribe the video audio.
// It is slow and costly so it runs last.
type AIFallbackSource struct {
	client   *http.Client
	endpoint string
	apiKey   string
	model    string
	limiter  Limiter
}

var _ Source = (*AIFallbackSource)(nil)

func NewAIFallbackSource(client *http.Client, endpoint, apiKey, model string, limiter Limiter) *AIFallbackSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &AIFallbackSource{client: client, endpoint: endpoint, apiKey: apiKey, model: model, limiter: limiter}
}

func (a *AIFallbackSource) Name() string {
	return SourceAIFallback
}

func (a *AIFallbackSource) TryFetch(ctx context.Context, videoID string) (Result, error) {
	if a.limiter != nil && !a.limiter.Attempt(aiLimitKey, 1) {
		return Result{}, ErrRateLimited
	}

	payload, err := json.Marshal(map[string]any{
		"video_id": videoID,
		"url":      "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID),
		"model":    a.model,
	})
	if err != nil {
		return Result{}, fmt.Errorf("marshal transcription request: %w", err)
	}

	req, err := newRequest(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	body, _, notFound, err := fetch(a.client, req, http.StatusNotFound, http.StatusUnprocessableEntity)
	if err != nil {
		return Result{}, err
	}
	if notFound {
		return Unavailable(), nil
	}

	text := normalizeSpace(gjson.GetBytes(body, "text").String())
	if text == "" {
		return Unavailable(), nil
	}
	return Found(text, gjson.GetBytes(body, "language").String()), nil
}
