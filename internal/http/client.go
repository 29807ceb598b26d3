package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/handiism/musichelper/internal/model"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Client wraps HTTP operations for one backend.
//
// Client provides:
//   - A browser User-Agent accepted by every backend
//   - Timeout handling
//   - Conversion of non-200 responses to *model.TransportError
//   - JSON decoding of response bodies
//
// Example usage:
//
//	client := NewClient("soundcloud", WithTimeout(30*time.Second))
//
//	var track trackDTO
//	err := client.GetJSON(ctx, apiURL, url.Values{"client_id": {id}}, nil, &track)
//	if model.IsNotFound(err) {
//	    // the track does not exist
//	}
type Client struct {
	httpClient *http.Client
	userAgent  string
	service    string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithCookieJar keeps cookies between requests.
func WithCookieJar() Option {
	return func(c *Client) {
		jar, _ := cookiejar.New(nil)
		c.httpClient.Jar = jar
	}
}

// NewClient creates a Client whose errors are attributed to service.
//
// The client is configured with:
//   - 60 second timeout
//   - a desktop browser User-Agent header
func NewClient(service string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		userAgent:  defaultUserAgent,
		service:    service,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HTTPClient returns the underlying client, for SDKs that take one.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// SetCookies stores cookies for u. It is a no-op without a cookie jar.
func (c *Client) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if c.httpClient.Jar != nil {
		c.httpClient.Jar.SetCookies(u, cookies)
	}
}

// Cookies returns the cookies the jar would send to u.
func (c *Client) Cookies(u *url.URL) []*http.Cookie {
	if c.httpClient.Jar == nil {
		return nil
	}
	return c.httpClient.Jar.Cookies(u)
}

// Get performs a GET request and returns the response body as bytes.
//
// query is merged into the URL's query string and header is added to
// the request; both may be nil.
//
// Returns a *model.TransportError if:
//   - The request fails
//   - The response status is not 200 OK
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values, header http.Header) ([]byte, error) {
	return c.do(ctx, http.MethodGet, rawURL, query, header, nil)
}

// GetJSON performs a GET request and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, header http.Header, v any) error {
	body, err := c.Get(ctx, rawURL, query, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s response: %w", c.service, err)
	}
	return nil
}

// PostJSON sends payload as a JSON body and returns the response body.
func (c *Client) PostJSON(ctx context.Context, rawURL string, query url.Values, header http.Header, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if header == nil {
		header = http.Header{}
	}
	header.Set("Content-Type", "application/json")
	return c.do(ctx, http.MethodPost, rawURL, query, header, bytes.NewReader(data))
}

// GetString performs a GET request and returns the body as a string.
//
// This is a convenience wrapper around Get for fetching HTML pages.
func (c *Client) GetString(ctx context.Context, rawURL string) (string, error) {
	body, err := c.Get(ctx, rawURL, nil, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DownloadBytes downloads a small resource, such as cover art, into memory.
func (c *Client) DownloadBytes(ctx context.Context, rawURL string) ([]byte, error) {
	return c.Get(ctx, rawURL, nil, nil)
}

func (c *Client) do(ctx context.Context, method, rawURL string, query url.Values, header http.Header, body io.Reader) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, c.transportErr(rawURL, 0, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, c.transportErr(rawURL, 0, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, c.transportErr(rawURL, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, c.transportErr(rawURL, resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportErr(rawURL, 0, err)
	}
	return data, nil
}

func (c *Client) transportErr(rawURL string, status int, err error) error {
	return &model.TransportError{Service: c.service, URL: redact(rawURL), StatusCode: status, Err: err}
}

// redact drops the query string, which may carry client IDs or tokens.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	return u.String()
}
