// Package fetch issues the outbound GETs shared by every scraper: a
// browser-like user agent, a per-call timeout and a typed error for
// unsuccessful statuses.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultUserAgent mimics a desktop browser; several record portals reject bot agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	acceptHeader     = "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.8,*/*;q=0.7"

	maxBodyBytes = 32 << 20
)

// ErrBodyTooLarge is returned when a response exceeds the client's body limit.
var ErrBodyTooLarge = errors.New("response body exceeds limit")

// FetchError reports a response whose status was not 2xx.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %s", e.URL, e.Status)
}

// Client wraps an http.Client with the headers record sources expect.
type Client struct {
	http      *http.Client
	userAgent string
	maxBody   int64
}

// New builds a Client; a nil http.Client gets a default transport.
func New(client *http.Client, userAgent string) *Client {
	if client == nil {
		client = &http.Client{}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{http: client, userAgent: userAgent, maxBody: maxBodyBytes}
}

// WithMaxBody overrides the response size limit when n is positive.
func (c *Client) WithMaxBody(n int64) *Client {
	if n > 0 {
		c.maxBody = n
	}
	return c
}

// Response is a fully read body with its content type.
type Response struct {
	URL         string
	ContentType string
	Body        []byte
}

// Get downloads rawURL, bounding the whole exchange by timeout when positive.
func (c *Client) Get(ctx context.Context, rawURL string, timeout time.Duration) (Response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Response{}, &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return Response{}, fmt.Errorf("read %s: %w", rawURL, err)
	}
	if int64(len(body)) > c.maxBody {
		return Response{}, fmt.Errorf("read %s: %w (%d bytes)", rawURL, ErrBodyTooLarge, c.maxBody)
	}

	return Response{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Document fetches rawURL and parses it as HTML.
func (c *Client) Document(ctx context.Context, rawURL string, timeout time.Duration) (*goquery.Document, error) {
	resp, err := c.Get(ctx, rawURL, timeout)
	if err != nil {
		return nil, err
	}
	return resp.HTML()
}
