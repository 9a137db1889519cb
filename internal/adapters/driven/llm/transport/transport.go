// Package transport holds the JSON-over-HTTP plumbing shared by the LLM
// and NER adapters: request encoding, status handling and retry of
// rate-limited or failing calls.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Default retry settings.
const (
	DefaultRetries = 2
	DefaultBackoff = 500 * time.Millisecond

	// maxErrorBody caps how much of an error body is kept.
	maxErrorBody = 512
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Provider string
	Code     int
	Body     string

	// RetryAfter is the server's requested delay, if any.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.Code, e.Body)
}

// Retryable reports whether the call may succeed if repeated.
func (e *StatusError) Retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// Client sends JSON requests for one provider.
type Client struct {
	http     *http.Client
	provider string
	header   http.Header
	retries  int
	backoff  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHeader sets a header on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

// WithRetries sets how often a retryable failure is repeated.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// WithBackoff sets the base delay between attempts.
func WithBackoff(d time.Duration) Option {
	return func(c *Client) { c.backoff = d }
}

// New creates a client. provider names the service in errors.
func New(provider string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: timeout},
		provider: provider,
		header:   http.Header{},
		retries:  DefaultRetries,
		backoff:  DefaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PostJSON encodes in, posts it to url and decodes the reply into out.
// Retryable failures are repeated with linear backoff.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	for attempt := 0; ; attempt++ {
		err = c.do(ctx, http.MethodPost, url, body, out)
		var status *StatusError
		if err == nil || !errors.As(err, &status) || !status.Retryable() || attempt >= c.retries {
			return err
		}

		wait := c.backoff * time.Duration(attempt+1)
		if status.RetryAfter > 0 {
			wait = status.RetryAfter
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Get issues a GET and checks for a 2xx status. The body is discarded.
func (c *Client) Get(ctx context.Context, url string) error {
	return c.do(ctx, http.MethodGet, url, nil, nil)
}

func (c *Client) do(ctx context.Context, method, url string, body []byte, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(data)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return &StatusError{
			Provider:   c.provider,
			Code:       resp.StatusCode,
			Body:       msg,
			RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// retryAfter parses a delay in seconds; HTTP dates are ignored.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
