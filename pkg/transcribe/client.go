// Package transcribe converts candidate audio into text via an
// OpenAI-compatible transcription endpoint.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the transcription capability.
type Client interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// Option configures the transcription client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithModel sets the transcription model.
func WithModel(model string) Option {
	return func(c *httpClient) {
		c.model = model
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// NewClient creates a transcription client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "https://api.openai.com/v1",
		model:   "whisper-1",
		http: &http.Client{
			// Transcription round-trips are slow for long recordings.
			Timeout: 5 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// transcriptionResponse is the endpoint's JSON body.
type transcriptionResponse struct {
	Text string `json:"text"`
}

func (c *httpClient) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", eris.Wrap(err, "transcribe: create form file")
	}
	if _, err := part.Write(audio); err != nil {
		return "", eris.Wrap(err, "transcribe: write audio")
	}
	if err := writer.WriteField("model", c.model); err != nil {
		return "", eris.Wrap(err, "transcribe: write model field")
	}
	if err := writer.Close(); err != nil {
		return "", eris.Wrap(err, "transcribe: close multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", eris.Wrap(err, "transcribe: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "transcribe: request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "transcribe: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("transcribe: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result transcriptionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", eris.Wrap(err, "transcribe: unmarshal response")
	}

	return result.Text, nil
}
