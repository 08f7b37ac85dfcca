// Package rod implements docvault.Fetcher with a headless Chrome browser
// for documentation sites that render their content with JavaScript.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/docvault"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = docvault.DefaultTimeout

var _ docvault.Fetcher = (*Fetcher)(nil)

// serializeJS inlines open shadow roots into the light DOM so that links
// rendered by web components survive serialization.
const serializeJS = `() => {
  const expand = (root) => {
    root.querySelectorAll('*').forEach((el) => {
      if (!el.shadowRoot) return;
      expand(el.shadowRoot);
      const holder = document.createElement('div');
      holder.setAttribute('data-shadow-root', '');
      holder.innerHTML = el.shadowRoot.innerHTML;
      el.appendChild(holder);
    });
  };
  expand(document);
  return '<!DOCTYPE html>' + document.documentElement.outerHTML;
}`

// Fetcher retrieves rendered HTML using a managed headless browser.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager   *BrowserManager
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds how long a single page may take to render.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the browser's User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher launches a browser and returns a Fetcher that renders pages
// with it. Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: docvault.DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager()
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to url, waits for the load event, and returns the
// serialized DOM including open shadow roots.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.manager.Browser()
	if err != nil {
		return "", docvault.Errorf(docvault.EINVALID, "fetcher is closed")
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", docvault.Errorf(docvault.ETRANSPORT, "open page: %v", err)
	}
	defer page.Close()
	defer f.manager.PageDone()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", f.fetchError(ctx, url, err)
		}
	}
	if err := page.Navigate(url); err != nil {
		return "", f.fetchError(ctx, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", f.fetchError(ctx, url, err)
	}

	res, err := page.Eval(serializeJS)
	if err != nil {
		return "", f.fetchError(ctx, url, err)
	}
	return res.Value.Str(), nil
}

// fetchError prefers the context error so callers can detect timeouts
// and cancellation with errors.Is.
func (f *Fetcher) fetchError(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return docvault.Errorf(docvault.ETRANSPORT, "render %s: %v", url, err)
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}
