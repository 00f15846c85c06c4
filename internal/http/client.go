package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultTimeout is used when NewClient is given a non-positive timeout.
const DefaultTimeout = 90 * time.Second

// DefaultUserAgent identifies the client to the API.
const DefaultUserAgent = "slavart"

// APIError is returned when the server answers with a status other than 200.
type APIError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %s", e.URL, e.Status)
}

// TimeoutError is returned when a request does not complete within the
// client timeout, including while the body is being read.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("GET %s: timed out after %s", e.URL, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// Client wraps HTTP operations with the timeout and User-Agent of a run.
//
// Bodies are read fully into memory. There are no retries: the first
// failure is returned to the caller.
//
// Example usage:
//
//	client := NewClient(90*time.Second, "")
//
//	body, err := client.Get(ctx, "https://slavart.gamesdrive.net/api/search?q=daft+punk")
//	var apiErr *APIError
//	if errors.As(err, &apiErr) {
//	    fmt.Println("server said", apiErr.StatusCode)
//	}
type Client struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

// NewClient creates a new HTTP client.
//
// The timeout bounds each request from dial to the last body byte. An
// empty userAgent uses DefaultUserAgent.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
		timeout:   timeout,
	}
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Get performs a GET request and returns the response body as bytes.
//
// The request includes the configured User-Agent header.
//
// Returns:
//   - *APIError when the response status is not 200 OK
//   - *TimeoutError when the deadline passes before the body is read
//   - the transport error otherwise, wrapped with the URL
//
// Example:
//
//	data, err := client.Get(ctx, "https://example.com/image.jpg")
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.wrap(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &APIError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.wrap(url, err)
	}

	return body, nil
}

// GetString performs a GET request and returns the response body as a string.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) wrap(url string, err error) error {
	if isTimeout(err) {
		return &TimeoutError{URL: url, Timeout: c.timeout, Err: err}
	}
	return fmt.Errorf("GET %s: %w", url, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
