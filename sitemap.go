package docvault

import "context"

// SitemapService discovers page locations from website sitemaps.
type SitemapService interface {
	// DiscoverURLs lists the sitemap locations that fall under baseURL.
	// robots.txt Sitemap directives are checked first, then /sitemap.xml.
	// Sitemap indexes are resolved recursively. A site without a sitemap
	// yields an empty slice.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
