// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

const defaultUserAgent = "duck/dev"

type (
	// Client fetches and measures resources over HTTP.
	Client struct {
		httpClient *http.Client
		userAgent  string
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// NewClient creates a Client. Defaults: httpClient=http.DefaultClient,
// userAgent="duck/dev".
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads url into dest. The file is written in place, so a failed
// transfer can leave a short file behind; size verification on the next run
// schedules it again.
func (c *Client) Fetch(ctx context.Context, url, dest string) (err error) {
	resp, err := c.doRequest(ctx, http.MethodGet, url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Method: http.MethodGet, URL: url, Code: resp.StatusCode}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating parent directory for %s: %w", dest, err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}

// ContentLength issues a HEAD request and returns the reported Content-Length.
func (c *Client) ContentLength(ctx context.Context, url string) (int64, error) {
	resp, err := c.doRequest(ctx, http.MethodHead, url)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, &StatusError{Method: http.MethodHead, URL: url, Code: resp.StatusCode}
	}
	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("HEAD %s: %w", redactURL(url), ErrUnknownLength)
	}
	return resp.ContentLength, nil
}

// Get downloads url and returns its body. Bodies longer than limit bytes fail
// with ErrTooLarge.
func (c *Client) Get(ctx context.Context, url string, limit int64) ([]byte, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Method: http.MethodGet, URL: url, Code: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", redactURL(url), err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("GET %s: %w (%d bytes)", redactURL(url), ErrTooLarge, limit)
	}
	return data, nil
}

func (c *Client) doRequest(ctx context.Context, method, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	return resp, nil
}
