package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// StatusError is returned when a remote document responds with a
// non-success status. It distinguishes unreachable or rejected documents
// from successful-but-empty responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.StatusCode, e.URL)
}

// Client downloads remote documents for ingestion.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new fetch client. A nil http.Client falls back to
// http.DefaultClient.
func NewClient(c *http.Client) *Client {
	if c == nil {
		c = http.DefaultClient
	}
	return &Client{httpClient: c}
}

// Fetch downloads url and returns the body bytes together with the
// Content-Type header as extraction hint.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("error reading response: %w", err)
	}

	return body, resp.Header.Get("Content-Type"), nil
}
