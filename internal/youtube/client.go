package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"nbs-ytbot/internal/config"
)

const defaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"

var ErrNoToken = errors.New("no YouTube access token available")

// TokenSource returns an OAuth access token for the acting user
type TokenSource interface {
	Token(ctx context.Context, userID string) (string, error)
}

// StaticToken uses one channel token for every user
type StaticToken string

func (s StaticToken) Token(ctx context.Context, userID string) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}

// Client posts replies through the YouTube Data API
type Client struct {
	http    *http.Client
	baseURL string
	tokens  TokenSource
}

func NewClient(cfg config.YouTubeConfig, tokens TokenSource) *Client {
	base := cfg.APIBaseURL
	if base == "" {
		base = defaultAPIBaseURL
	}
	if tokens == nil {
		tokens = StaticToken(cfg.AccessToken)
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(base, "/"),
		tokens:  tokens,
	}
}

// PostReply publishes text as a reply to parentCommentID and returns the new comment ID
func (c *Client) PostReply(ctx context.Context, parentCommentID, text, actingUserID string) (string, error) {
	token, err := c.tokens.Token(ctx, actingUserID)
	if err != nil {
		return "", fmt.Errorf("get access token: %w", err)
	}

	body, err := json.Marshal(map[string]any{
		"snippet": map[string]string{
			"parentId":     parentCommentID,
			"textOriginal": text,
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/comments?part=snippet", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post reply: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := gjson.GetBytes(payload, "error.message").String()
		if msg == "" {
			msg = strings.TrimSpace(string(payload))
		}
		return "", fmt.Errorf("youtube returned %s: %s", resp.Status, msg)
	}

	id := gjson.GetBytes(payload, "id").String()
	if id == "" {
		// the reply is live; failing here would post it again on retry
		logrus.WithFields(logrus.Fields{
			"parent_comment_id": parentCommentID,
			"user_id":           actingUserID,
			"status":            resp.StatusCode,
		}).Warn("youtube accepted the reply but returned no comment id")
		return "", nil
	}

	logrus.WithFields(logrus.Fields{
		"parent_comment_id": parentCommentID,
		"posted_comment_id": id,
		"user_id":           actingUserID,
	}).Info("reply posted")
	return id, nil
}
