package llm

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"nbs-ytbot/internal/config"
)

const (
	embeddingsLimitKey  = "embeddings"
	completionsLimitKey = "completions"
)

var (
	ErrEmptyResponse = errors.New("provider returned an empty response")
	ErrMisconfigured = errors.New("llm client misconfigured")
)

// APIError is a non-2xx response from the provider
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("llm provider returned %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed if repeated
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Message is one chat turn
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionOptions tune a single completion request
type CompletionOptions struct {
	Model     string
	MaxTokens int
	JSONMode  bool
}

// Waiter blocks until a rate limiter admits the call
type Waiter interface {
	Wait(ctx context.Context, key string, cost int) error
}

// Client talks to an OpenAI-compatible embeddings and chat completions API
type Client struct {
	http           *http.Client
	baseURL        string
	apiKey         string
	embeddingModel string
	retry          config.RetryConfig

	embeddings  Waiter
	completions Waiter
	cache       *ristretto.Cache

	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient builds a client from configuration. Nil waiters disable rate limiting.
func NewClient(cfg config.LLMConfig, embeddings, completions Waiter) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: base_url is required", ErrMisconfigured)
	}

	c := &Client{
		http:           &http.Client{Timeout: cfg.Timeout},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		embeddingModel: cfg.EmbeddingModel,
		retry:          cfg.Retry,
		embeddings:     embeddings,
		completions:    completions,
		sleep:          sleepContext,
	}

	if cfg.CacheEntries > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config{
			NumCounters: cfg.CacheEntries * 10,
			MaxCost:     cfg.CacheEntries,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("create embedding cache: %w", err)
		}
		c.cache = cache
	}

	return c, nil
}

// Close releases the embedding cache
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// Embed returns the embedding vector of text
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.cacheKey(text)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			return v.([]float32), nil
		}
	}

	if c.embeddings != nil {
		if err := c.embeddings.Wait(ctx, embeddingsLimitKey, 1); err != nil {
			return nil, fmt.Errorf("wait for embeddings quota: %w", err)
		}
	}

	body, err := c.post(ctx, "/embeddings", map[string]any{
		"model": c.embeddingModel,
		"input": text,
	})
	if err != nil {
		return nil, err
	}

	raw := gjson.GetBytes(body, "data.0.embedding")
	if !raw.IsArray() {
		return nil, fmt.Errorf("embedding missing from response: %w", ErrEmptyResponse)
	}
	values := raw.Array()
	if len(values) == 0 {
		return nil, ErrEmptyResponse
	}

	vec := make([]float32, len(values))
	for i, v := range values {
		vec[i] = float32(v.Float())
	}

	if c.cache != nil {
		c.cache.Set(key, vec, 1)
	}
	return vec, nil
}

// Complete runs a chat completion and returns the assistant message text
func (c *Client) Complete(ctx context.Context, messages []Message, opts CompletionOptions) (string, error) {
	if opts.Model == "" {
		return "", fmt.Errorf("%w: completion model is required", ErrMisconfigured)
	}

	if c.completions != nil {
		if err := c.completions.Wait(ctx, completionsLimitKey, 1); err != nil {
			return "", fmt.Errorf("wait for completions quota: %w", err)
		}
	}

	payload := map[string]any{
		"model":    opts.Model,
		"messages": messages,
	}
	if opts.MaxTokens > 0 {
		payload["max_tokens"] = opts.MaxTokens
	}
	if opts.JSONMode {
		payload["response_format"] = map[string]string{"type": "json_object"}
	}

	body, err := c.post(ctx, "/chat/completions", payload)
	if err != nil {
		return "", err
	}

	content := strings.TrimSpace(gjson.GetBytes(body, "choices.0.message.content").String())
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// post sends payload, retrying throttled and server errors with exponential backoff
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	attempts := c.retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	backoff := c.retry.InitialBackoff

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		body, retryAfter, err := c.do(ctx, path, data)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return nil, err
		}
		if ctx.Err() != nil || attempt == attempts {
			break
		}

		wait := backoff
		if retryAfter > wait {
			wait = retryAfter
		}
		logrus.WithFields(logrus.Fields{
			"path":    path,
			"attempt": attempt,
			"wait":    wait,
		}).WithError(err).Warn("llm request failed, retrying")

		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
		backoff *= 2
		if c.retry.MaxBackoff > 0 && backoff > c.retry.MaxBackoff {
			backoff = c.retry.MaxBackoff
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, path string, data []byte) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, retryAfter(resp.Header.Get("Retry-After")), &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return body, 0, nil
}

func (c *Client) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(c.embeddingModel + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
