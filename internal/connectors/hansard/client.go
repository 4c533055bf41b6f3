package hansard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/hansard-cli/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the number of additional attempts for retryable statuses.
	MaxRetries = 3

	// RetryDelay is the base delay between retries.
	RetryDelay = time.Second

	// MaxBodyBytes caps the size of a response body.
	MaxBodyBytes = 32 << 20

	userAgent = "hansard-cli/1.0"
)

// Client performs GET requests against the upstream service.
type Client struct {
	http        *http.Client
	rateLimiter *RateLimiter
	retryDelay  time.Duration
	observer    Observer
}

// Observer is notified of every completed response and every scheduled retry.
// Transport failures are reported with status 0.
type Observer interface {
	ObserveResponse(status int)
	ObserveRetry(status int)
}

type nopObserver struct{}

func (nopObserver) ObserveResponse(int) {}
func (nopObserver) ObserveRetry(int)    {}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithRetryDelay sets the base retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) { c.retryDelay = d }
}

// WithRateLimit sets the proactive throttle.
func WithRateLimit(cfg RateLimitConfig) ClientOption {
	return func(c *Client) { c.rateLimiter = NewRateLimiter(cfg) }
}

// WithObserver reports request outcomes to o.
func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// NewClient creates a client with default timeout, retry delay and rate limit.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:        &http.Client{Timeout: DefaultTimeout},
		rateLimiter: NewRateLimiter(DefaultRateLimit),
		retryDelay:  RetryDelay,
		observer:    nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get fetches url and returns the response body.
// Statuses 429 and 400 are retried; see MaxRetries and RetryDelay.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		status, body, err := c.do(ctx, url)
		c.observer.ObserveResponse(status)
		if err != nil {
			return nil, err
		}
		if status >= 200 && status < 300 {
			return body, nil
		}

		apiErr := &APIError{StatusCode: status, URL: url, Attempts: attempt + 1}
		if !IsRetryable(apiErr) {
			return nil, apiErr
		}
		if attempt >= MaxRetries {
			apiErr.Exhausted = true
			return nil, apiErr
		}

		c.observer.ObserveRetry(status)
		delay := c.retryDelay * time.Duration(attempt+1)
		logger.Debug("GET %s: status %d, retrying in %s", url, status, delay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// GetJSON fetches url and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes+1))
	if err != nil {
		return 0, nil, fmt.Errorf("read %s: %w", url, err)
	}
	if len(body) > MaxBodyBytes {
		return 0, nil, fmt.Errorf("read %s: %w (limit %d bytes)", url, ErrResponseTooLarge, MaxBodyBytes)
	}
	return resp.StatusCode, body, nil
}
