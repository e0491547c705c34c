package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// ClientType represents the type of HTTP client configuration
type ClientType string

const (
	// DefaultClient sends requests with Go's default headers only
	DefaultClient ClientType = "default"

	// BrowserClient uses browser-like headers for hosts that reject non-browser User-Agents
	BrowserClient ClientType = "browser"
)

const (
	// DefaultTimeout bounds a whole request, redirects and body read included
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRedirects is how many redirects are followed before giving up
	DefaultMaxRedirects = 10

	// DefaultMaxBodyBytes caps how much of a response body is read
	DefaultMaxBodyBytes int64 = 8 << 20
)

// ErrFetch marks every failure returned by Fetch: transport errors, timeouts,
// non-2xx responses and unreadable or oversized bodies
var ErrFetch = errors.New("fetch failed")

// Fetcher retrieves the body of a URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Config holds the knobs for NewClient. Zero values fall back to the defaults
type Config struct {
	Type         ClientType
	Timeout      time.Duration
	MaxRedirects int
	MaxBodyBytes int64
	Logger       logrus.FieldLogger
}

// HTTPClient wraps an http.Client with configuration
type HTTPClient struct {
	client       *http.Client
	clientType   ClientType
	maxBodyBytes int64
	log          logrus.FieldLogger
}

// NewClient creates a new HTTP client with the specified type and the default limits
func NewClient(clientType ClientType) *HTTPClient {
	return NewClientWithConfig(Config{Type: clientType})
}

// NewClientWithConfig creates a new HTTP client from cfg
func NewClientWithConfig(cfg Config) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Type == "" {
		cfg.Type = DefaultClient
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	maxRedirects := cfg.MaxRedirects
	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	return &HTTPClient{
		client:       client,
		clientType:   cfg.Type,
		maxBodyBytes: cfg.MaxBodyBytes,
		log:          cfg.Logger,
	}
}

// Do executes an HTTP request with the appropriate headers for the client type
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)
	return c.client.Do(req)
}

// Get is a convenience method for GET requests
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// Fetch performs a single GET and returns the body. There are no retries: any
// failure is reported once, wrapped in ErrFetch, and logged at warn level
func (c *HTTPClient) Fetch(ctx context.Context, url string) (string, error) {
	body, err := c.fetch(ctx, url)
	if err != nil {
		c.log.WithFields(logrus.Fields{"url": url, "err": err}).Warn("fetch failed")
		return "", errors.Join(ErrFetch, err)
	}
	return body, nil
}

func (c *HTTPClient) fetch(ctx context.Context, url string) (string, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.maxBodyBytes {
		return "", fmt.Errorf("response body exceeds %d bytes", c.maxBodyBytes)
	}

	return string(body), nil
}

// setHeaders sets the appropriate headers based on client type
func (c *HTTPClient) setHeaders(req *http.Request) {
	switch c.clientType {
	case BrowserClient:
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	default:
		// Default: use Go's default User-Agent
	}
}

func drainAndClose(rc io.ReadCloser) {
	if rc == nil {
		return
	}
	_, _ = io.CopyN(io.Discard, rc, 64<<10)
	_ = rc.Close()
}
