// Package slack posts batch notifications to an incoming-webhook URL.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// ErrNotConfigured is returned when no webhook URL is set. Callers treat it
// as "not configured", not a failure.
var ErrNotConfigured = eris.New("slack: webhook not configured")

// Notifier posts freeform messages to a chat channel.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Option configures the Slack client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	webhookURL string
	http       *http.Client
}

// NewClient creates a webhook notifier. webhookURL may be empty; Notify then
// reports ErrNotConfigured.
func NewClient(webhookURL string, opts ...Option) Notifier {
	c := &httpClient{
		webhookURL: webhookURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// payload is the incoming-webhook message body.
type payload struct {
	Text string `json:"text"`
}

func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

func (c *httpClient) Notify(ctx context.Context, text string) error {
	if c.webhookURL == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload{Text: text})
	if err != nil {
		return eris.Wrap(err, "slack: marshal payload")
	}

	const maxAttempts = 3
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
		if reqErr != nil {
			return eris.Wrap(reqErr, "slack: create request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, doErr := c.http.Do(req)
		if doErr != nil {
			lastErr = doErr
		} else {
			code := resp.StatusCode
			_ = resp.Body.Close()
			if code == http.StatusOK {
				return nil
			}
			lastErr = eris.Errorf("slack: status %d", code)
			if !retryableStatusCode(code) {
				return lastErr
			}
		}

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	return eris.Wrap(lastErr, "slack: notify failed")
}
