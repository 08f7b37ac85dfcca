// Package http provides net/http implementations of docvault.Fetcher and
// docvault.SitemapService for static documentation sites.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/docvault"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = docvault.DefaultTimeout

// maxBodySize caps the bytes read from a single response.
const maxBodySize = 32 << 20

var _ docvault.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: docvault.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the body of the page at url. Responses outside the
// 2xx range are reported as ETRANSPORT errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", docvault.Errorf(docvault.EINVALID, "invalid URL %q: %v", url, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", docvault.Errorf(docvault.ETRANSPORT, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", docvault.Errorf(docvault.ETRANSPORT, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", docvault.Errorf(docvault.ETRANSPORT, "read %s: %v", url, err)
	}

	return string(body), nil
}

// Close is a no-op; http.Client needs no explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
