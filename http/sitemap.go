package http

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/docvault"
)

var _ docvault.SitemapService = (*SitemapService)(nil)

// SitemapService discovers URLs from website sitemaps via HTTP.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, userAgent: docvault.DefaultUserAgent}
}

// DiscoverURLs finds all URLs from a site's sitemap that fall under
// baseURL. Returns an empty slice (not nil) if no sitemaps are found.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, docvault.Errorf(docvault.EINVALID, "invalid base URL %q", baseURL)
	}

	pathPrefix := base.Path
	if pathPrefix == "/" {
		pathPrefix = ""
	}

	// Sitemaps live at the root of the domain.
	root := *base
	root.Path = ""
	root.RawQuery = ""
	root.Fragment = ""

	sitemapURLs, err := s.findSitemapURLs(ctx, &root)
	if err != nil {
		return nil, err
	}

	urls := []string{}
	seenSitemaps := make(map[string]bool)
	seenURLs := make(map[string]bool)

	for _, sitemapURL := range sitemapURLs {
		found, err := s.processSitemap(ctx, sitemapURL, seenSitemaps)
		if err != nil {
			return nil, err
		}
		for _, u := range found {
			if seenURLs[u] || (pathPrefix != "" && !matchesPathPrefix(u, pathPrefix)) {
				continue
			}
			seenURLs[u] = true
			urls = append(urls, u)
		}
	}

	return urls, nil
}

// matchesPathPrefix checks if a URL's path starts with prefix on a path
// segment boundary: /docs matches /docs/ and /docs/intro, not /documentation.
func matchesPathPrefix(rawURL, prefix string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(parsed.Path, prefix) || parsed.Path+"/" == prefix
}

// findSitemapURLs reads Sitemap directives from robots.txt and falls back
// to /sitemap.xml.
func (s *SitemapService) findSitemapURLs(ctx context.Context, base *url.URL) ([]string, error) {
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})
	sitemaps, err := s.parseSitemapsFromRobots(ctx, robotsURL.String())
	if err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}

	sitemapURL := base.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	exists, err := s.urlExists(ctx, sitemapURL.String())
	if err != nil {
		// Anything but cancellation means there is no sitemap.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if exists {
		return []string{sitemapURL.String()}, nil
	}

	return nil, nil
}

func (s *SitemapService) parseSitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.fetchURL(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			if u := strings.TrimSpace(line[len("sitemap:"):]); u != "" {
				sitemaps = append(sitemaps, u)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, docvault.Errorf(docvault.ETRANSPORT, "reading robots.txt: %v", err)
	}

	return sitemaps, nil
}

// processSitemap fetches and parses a sitemap, handling both urlset and
// sitemapindex documents.
func (s *SitemapService) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, docvault.Errorf(docvault.EINVALID, "parsing sitemap %s: %v", sitemapURL, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, docvault.Errorf(docvault.EINVALID, "empty sitemap %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		return s.processSitemapIndex(ctx, root, seen)
	}
	return locs(root, "url"), nil
}

func (s *SitemapService) processSitemapIndex(ctx context.Context, root *etree.Element, seen map[string]bool) ([]string, error) {
	var all []string
	for _, sitemapURL := range locs(root, "sitemap") {
		urls, err := s.processSitemap(ctx, sitemapURL, seen)
		if err != nil {
			return nil, err
		}
		all = append(all, urls...)
	}
	return all, nil
}

// locs returns the non-empty <loc> values of root's children named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func (s *SitemapService) newRequest(ctx context.Context, method, target string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, docvault.Errorf(docvault.EINVALID, "invalid URL %q: %v", target, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	return req, nil
}

func (s *SitemapService) fetchURL(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := s.newRequest(ctx, http.MethodGet, target)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, docvault.Errorf(docvault.ETRANSPORT, "fetch %s: %v", target, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, docvault.Errorf(docvault.ETRANSPORT, "HTTP %d for %s", resp.StatusCode, target)
	}

	return resp.Body, nil
}

func (s *SitemapService) urlExists(ctx context.Context, target string) (bool, error) {
	req, err := s.newRequest(ctx, http.MethodHead, target)
	if err != nil {
		return false, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
