// Package sources holds one fetch adapter per external provider. An
// adapter turns a provider payload into typed records and nothing
// else: no store access, no skip decisions. The importer layer owns
// reconciliation.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ncwatch/ncwatch-backend/internal/pkg/httpx"
	"github.com/ncwatch/ncwatch-backend/internal/pkg/logger"
)

const (
	maxBodyBytes   = 32 << 20
	maxAttempts    = 3
	retryBaseSleep = 500 * time.Millisecond
	retryMaxSleep  = 30 * time.Second
)

// Client is the shared outbound HTTP client. Every adapter goes
// through it so the User-Agent, timeout, and retry policy are set in
// one place.
type Client struct {
	http      *http.Client
	userAgent string
	log       *logger.Logger
}

func NewClient(timeout time.Duration, userAgent string, baseLog *logger.Logger) *Client {
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
		log:       baseLog.With("component", "sources.Client"),
	}
}

// get fetches url, retrying transient failures with jittered backoff.
// A Retry-After header from the provider overrides the backoff.
func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	sleep := retryBaseSleep
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		body, retryAfter, err := c.doOnce(ctx, url, accept)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if attempt == maxAttempts || !httpx.IsRetryableError(err) {
			break
		}
		if retryAfter > sleep {
			sleep = retryAfter
		}
		c.log.Warn("Retrying fetch", "url", url, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(httpx.JitterSleep(sleep)):
		}
		sleep *= 2
	}
	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, url, accept string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retryAfter := httpx.RetryAfterDuration(resp, 0, retryMaxSleep)
		return nil, retryAfter, &httpx.StatusError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("read body %s: %w", url, err)
	}
	return body, 0, nil
}

// GetJSON fetches url and decodes the response into v.
func (c *Client) GetJSON(ctx context.Context, url string, v interface{}) error {
	body, err := c.get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// GetText fetches url and returns the raw body.
func (c *Client) GetText(ctx context.Context, url, accept string) (string, error) {
	body, err := c.get(ctx, url, accept)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
