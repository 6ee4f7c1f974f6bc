package edgar

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultWWWBaseURL  = "https://www.sec.gov"
	defaultDataBaseURL = "https://data.sec.gov"

	defaultUserAgent   = "insider-data/1.0"
	defaultMinInterval = 200 * time.Millisecond
	defaultMaxRetries  = 3
)

// rateBudgetMarker is the literal the SEC serves when the global per-second
// request budget is exceeded. It shows up in the <title> of an HTML error
// page, within the first few lines of the body.
const rateBudgetMarker = "Request Rate Threshold Exceeded"

// markerScanLines bounds how far into a response body the marker is searched.
const markerScanLines = 10

// Client fetches EDGAR resources under a process-wide request throttle, with
// bounded exponential-backoff retries on transient failures.
type Client struct {
	httpClient *http.Client
	userAgent  string
	limiter    *RateLimiter
	maxRetries int

	wwwBase  string
	dataBase string

	// sleep is used for retry backoff; injectable for tests.
	sleep func(time.Duration)
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithUserAgent sets the client identifier sent with every request. The SEC
// expects a contact string here.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMinInterval sets the minimum time between any two requests.
func WithMinInterval(d time.Duration) ClientOption {
	return func(c *Client) { c.limiter = NewRateLimiter(d) }
}

// WithMaxRetries sets how many times a transient failure is retried.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURLs points the client at alternative endpoint roots. Used by
// tests to target a local server.
func WithBaseURLs(www, data string) ClientOption {
	return func(c *Client) {
		c.wwwBase = strings.TrimSuffix(www, "/")
		c.dataBase = strings.TrimSuffix(data, "/")
	}
}

// NewClient creates an EDGAR client with default throttling and retries.
func NewClient(options ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
				MaxIdleConnsPerHost:   4,
			},
		},
		userAgent:  defaultUserAgent,
		limiter:    NewRateLimiter(defaultMinInterval),
		maxRetries: defaultMaxRetries,
		wwwBase:    defaultWWWBaseURL,
		dataBase:   defaultDataBaseURL,
		sleep:      time.Sleep,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Get fetches url, waiting on the shared rate limiter first. Transport
// errors and 5xx responses are retried up to the configured maximum with
// 2^attempt seconds of backoff. Client errors are returned as *StatusError
// without retrying. A body carrying the rate-budget marker returns
// ErrRateBudgetExhausted immediately, regardless of status code.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<(attempt-1)) * time.Second
			slog.Debug("retrying request", "url", url, "attempt", attempt, "backoff", backoff)
			c.sleep(backoff)
		}

		body, retryable, err := c.do(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("request failed after %d retries: %w", c.maxRetries, lastErr)
}

// do performs one attempt. The bool reports whether the failure is
// transient and worth retrying.
func (c *Client) do(ctx context.Context, url string) ([]byte, bool, error) {
	c.limiter.Wait()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("reading response body: %w", err)
	}

	// The throttle page can arrive with any status code. Check it before
	// the status so exhaustion is never misread as a retryable 5xx.
	if containsRateBudgetMarker(body) {
		return nil, false, fmt.Errorf("fetching %s: %w", url, ErrRateBudgetExhausted)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, false, nil
	case resp.StatusCode >= 500:
		return nil, true, &StatusError{URL: url, Code: resp.StatusCode}
	default:
		return nil, false, &StatusError{URL: url, Code: resp.StatusCode}
	}
}

func containsRateBudgetMarker(body []byte) bool {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for i := 0; i < markerScanLines && scanner.Scan(); i++ {
		if strings.Contains(scanner.Text(), rateBudgetMarker) {
			return true
		}
	}
	return false
}
