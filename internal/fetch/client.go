package fetch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Default client settings.
const (
	// DefaultTimeout is the per-request timeout for full content
	// fetches. Twenty seconds matches the tolerance of the audit:
	// a page slower than that is itself an audit finding.
	DefaultTimeout = 20 * time.Second

	// DefaultPrecheckTimeout is the short timeout used for HEAD
	// reachability and resource-size checks issued by analyzers.
	DefaultPrecheckTimeout = 5 * time.Second

	// DefaultMaxBodySize limits response bodies to 5MB. Larger pages
	// are truncated; enough for markup analysis while bounding memory.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultUserAgent identifies the auditor in outbound requests.
	DefaultUserAgent = "SEO-Audit/1.0 (+https://github.com/Baillie11/seo)"
)

// Client performs HTTP fetches with consistent timeout, redirect,
// and body-limit policy.
//
// Design decision: We keep one shared http.Client inside rather than
// building a client per request because:
//  1. Connection pooling works across analyzer sub-requests
//  2. Timeout and transport configuration stay in one place
//  3. Tests can swap the transport with httptest servers
type Client struct {
	// httpClient is the underlying client for full fetches.
	httpClient *http.Client

	// headClient is a shorter-timeout client for HEAD pre-checks.
	headClient *http.Client

	// userAgent is sent on every outbound request.
	userAgent string

	// maxBodySize bounds how much of a response body is read.
	maxBodySize int64
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the full-fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithPrecheckTimeout sets the HEAD pre-check timeout.
func WithPrecheckTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.headClient.Timeout = d
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		c.maxBodySize = size
	}
}

// WithTransport replaces the underlying transport on both clients.
// Intended for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
		c.headClient.Transport = rt
	}
}

// NewClient creates a Client with the given options applied over the
// defaults.
func NewClient(opts ...Option) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
		headClient: &http.Client{
			Timeout:   DefaultPrecheckTimeout,
			Transport: transport,
		},
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NormalizeURL prepends https:// when no scheme is present and
// validates the result. Reports always carry scheme-qualified URLs.
func NormalizeURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty url", ErrInvalidURL)
	}

	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	return u.String(), nil
}

// Fetch performs a GET request against the given URL and returns the
// fetch result. The returned error is classified with the package
// sentinel errors; callers match with errors.Is.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, pageURL)
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response body

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, classify(err)
	}
	elapsed := time.Since(start)

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[name] = resp.Header.Get(name)
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Result{
		RequestedURL: pageURL,
		FinalURL:     finalURL,
		StatusCode:   resp.StatusCode,
		Headers:      headers,
		Elapsed:      elapsed,
		Body:         body,
	}, nil
}

// FetchMobile performs a GET request with a mobile browser User-Agent.
// Mobile-friendliness checks need the markup a phone would receive.
func (c *Client) FetchMobile(ctx context.Context, pageURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, pageURL)
	}
	req.Header.Set("User-Agent",
		"Mozilla/5.0 (iPhone; CPU iPhone OS 14_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0 Mobile/15E148 Safari/604.1")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only response body

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, classify(err)
	}

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[name] = resp.Header.Get(name)
	}

	return &Result{
		RequestedURL: pageURL,
		FinalURL:     pageURL,
		StatusCode:   resp.StatusCode,
		Headers:      headers,
		Elapsed:      time.Since(start),
		Body:         body,
	}, nil
}

// Head issues a HEAD request with the short pre-check timeout.
// Used by analyzers for broken-link and resource-size checks; failures
// are returned for the caller to absorb, never to propagate past the
// analyzer boundary.
func (c *Client) Head(ctx context.Context, resourceURL string) (*HeadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, resourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, resourceURL)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.headClient.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close() //nolint:errcheck // HEAD responses carry no body

	headers := make(map[string]string, len(resp.Header))
	for name := range resp.Header {
		headers[name] = resp.Header.Get(name)
	}

	return &HeadResult{
		StatusCode:    resp.StatusCode,
		Headers:       headers,
		ContentLength: resp.ContentLength,
	}, nil
}

// HeadResult is the outcome of a HEAD pre-check.
type HeadResult struct {
	// StatusCode is the HTTP response status.
	StatusCode int

	// Headers holds the response headers, first value per name.
	Headers map[string]string

	// ContentLength is the Content-Length header value, -1 if absent.
	ContentLength int64
}

// classify maps transport errors onto the package sentinel errors.
//
// Design decision: classification happens here, at the lowest layer,
// so every caller sees the same taxonomy. url.Error unwrapping order
// matters: a timeout inside a TLS handshake should read as a timeout,
// so the deadline checks come first.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return fmt.Errorf("%w: %v", ErrTLSFailed, err)
	}
	var unknownAuthErr x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthErr) {
		return fmt.Errorf("%w: %v", ErrTLSFailed, err)
	}
	var hostErr x509.HostnameError
	if errors.As(err, &hostErr) {
		return fmt.Errorf("%w: %v", ErrTLSFailed, err)
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return fmt.Errorf("%w: %v", ErrTLSFailed, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	return err
}
