// Package tvmaze is the HTTP client for the TVmaze public API.
package tvmaze

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// PageWidth is the fixed number of show ids TVmaze groups into one index
// page.
const PageWidth = 250

// ErrEndOfPages is returned by ListShows when the requested page does not
// exist, which is how TVmaze signals the end of the index.
var ErrEndOfPages = errors.New("end of pages")

// StatusError is returned for any non-200 response that is not mapped to a
// sentinel.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	maxRetries int
}

func NewClient(baseURL, userAgent string, timeout time.Duration, maxRetries int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent:  userAgent,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxRetries: maxRetries,
	}
}

// ListShows fetches one page of the show index.
func (c *Client) ListShows(ctx context.Context, page int) ([]ShowRecord, error) {
	u := fmt.Sprintf("%s/shows?page=%d", c.baseURL, page)

	var res []ShowRecord
	if err := c.get(ctx, u, &res); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, ErrEndOfPages
		}
		return nil, err
	}
	if err := validateRecords(res); err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}
	return res, nil
}

// GetCast fetches the cast of a single show.
func (c *Client) GetCast(ctx context.Context, showID int) ([]CastRecord, error) {
	u := fmt.Sprintf("%s/shows/%d/cast", c.baseURL, showID)

	var res []CastRecord
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	if err := validateRecords(res); err != nil {
		return nil, fmt.Errorf("cast of show %d: %w", showID, err)
	}
	return res, nil
}

func (c *Client) get(ctx context.Context, url string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		retry, err := c.do(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	if c.maxRetries == 0 {
		return lastErr
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

// do performs a single request. The bool reports whether the failure is
// worth retrying.
func (c *Client) do(ctx context.Context, url string, target any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		se := &StatusError{StatusCode: resp.StatusCode, URL: url}
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, se
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return false, fmt.Errorf("decode %s: %w", url, err)
	}
	return false, nil
}
