package docvault

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Traversal defaults applied by DefaultTraversalOptions.
const (
	DefaultMaxDepth    = 3
	DefaultMaxPages    = 500
	DefaultConcurrency = 4
	DefaultDelay       = 200 * time.Millisecond
	DefaultTimeout     = 30 * time.Second
	DefaultUserAgent   = "DevVault/1.0 (Documentation Scraper)"
)

// SourceDefinition describes one documentation web site that can be crawled.
type SourceDefinition struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Version     string `json:"version"`
	BaseURL     string `json:"baseUrl"`
	Description string `json:"description"`
	Attribution string `json:"attribution"`

	Options   TraversalOptions `json:"options"`
	Selectors ContentSelectors `json:"selectors"`

	// Render selects a browser-backed fetcher for sites that
	// build their content with JavaScript.
	Render bool `json:"render"`
}

// Validate returns an error if the definition contains invalid fields.
func (d *SourceDefinition) Validate() error {
	if d.Name == "" {
		return Errorf(EINVALID, "source name required")
	}
	if d.BaseURL == "" {
		return Errorf(EINVALID, "source %q: base URL required", d.Name)
	}
	u, err := url.Parse(d.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Errorf(EINVALID, "source %q: invalid base URL %q", d.Name, d.BaseURL)
	}
	return nil
}

// PageURL resolves a crawl-relative path into the absolute location to fetch.
func (d *SourceDefinition) PageURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(d.BaseURL, "/")
	if strings.HasPrefix(path, "/") {
		if u, err := url.Parse(base); err == nil {
			return u.Scheme + "://" + u.Host + path
		}
	}
	path = strings.TrimPrefix(path, "./")
	if path == "" {
		return base + "/"
	}
	return base + "/" + path
}

// TraversalOptions governs crawl scope and politeness.
// Zero MaxDepth and MaxPages mean unlimited.
type TraversalOptions struct {
	SeedPaths    []string            `json:"seedPaths"`
	SkipPatterns []*regexp.Regexp    `json:"-"`
	SkipPaths    map[string]struct{} `json:"-"`

	// OnlyPatterns restricts scope when non-nil.
	OnlyPatterns []*regexp.Regexp `json:"-"`

	MaxDepth    int           `json:"maxDepth"`
	MaxPages    int           `json:"maxPages"`
	FollowLinks bool          `json:"followLinks"`
	Concurrency int           `json:"concurrency"`
	Delay       time.Duration `json:"delay"`
	Timeout     time.Duration `json:"timeout"`
	UserAgent   string        `json:"userAgent"`

	// UseSitemap adds sitemap locations under the base URL as extra seeds.
	UseSitemap bool `json:"useSitemap"`
}

// DefaultTraversalOptions returns the options used when a definition
// does not override them.
func DefaultTraversalOptions() TraversalOptions {
	return TraversalOptions{
		SeedPaths:   []string{""},
		MaxDepth:    DefaultMaxDepth,
		MaxPages:    DefaultMaxPages,
		FollowLinks: true,
		Concurrency: DefaultConcurrency,
		Delay:       DefaultDelay,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
	}
}

// ShouldSkip reports whether path falls outside the crawl scope.
// Skip rules always win over only rules.
func (o *TraversalOptions) ShouldSkip(path string) bool {
	if _, ok := o.SkipPaths[path]; ok {
		return true
	}
	for _, re := range o.SkipPatterns {
		if re.MatchString(path) {
			return true
		}
	}
	if o.OnlyPatterns == nil {
		return false
	}
	for _, re := range o.OnlyPatterns {
		if re.MatchString(path) {
			return false
		}
	}
	return true
}

// ContentSelectors locate title, body, and links within a fetched page.
// Title and Content hold comma-separated alternatives tried in order.
type ContentSelectors struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Links   string `json:"links"`

	// EntryTypeAttr names the attribute read from the first [data-type]
	// element. Empty means entry types come from the path.
	EntryTypeAttr string `json:"entryTypeAttr"`

	// Remove lists elements discarded before title and content extraction.
	Remove []string `json:"remove"`
}

// DefaultContentSelectors returns selectors that fit most documentation sites.
func DefaultContentSelectors() ContentSelectors {
	return ContentSelectors{
		Title:   "h1, .page-title, title",
		Content: "main, article, .content, .documentation, #content, body",
		Links:   "a[href]",
		Remove: []string{
			"nav", "header", "footer", ".sidebar", ".navigation", ".toc",
			"script", "style", ".ads", ".advertisement",
		},
	}
}

// SplitSelectors splits a comma-separated selector list into its trimmed,
// non-empty alternatives.
func SplitSelectors(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// RepoConfig describes documentation stored as Markdown in a GitHub repository.
type RepoConfig struct {
	Name              string   `json:"name"`
	DisplayName       string   `json:"displayName"`
	Version           string   `json:"version"`
	BaseURL           string   `json:"baseUrl"`
	AvailableVersions []string `json:"availableVersions"`
	IgnoreFiles       []string `json:"ignoreFiles"`
	IgnoreDirs        []string `json:"ignoreDirs"`
}

// Validate returns an error if the config contains invalid fields.
func (c *RepoConfig) Validate() error {
	if c.Name == "" {
		return Errorf(EINVALID, "repository name required")
	}
	if c.BaseURL == "" {
		return Errorf(EINVALID, "repository %q: base URL required", c.Name)
	}
	return nil
}

// SourceKind distinguishes web sites from repositories.
type SourceKind string

// Source kinds.
const (
	SourceKindWeb  SourceKind = "web"
	SourceKindRepo SourceKind = "repo"
)

// AvailableSource summarizes one ingestible source for listings.
type AvailableSource struct {
	Name        string     `json:"name"`
	DisplayName string     `json:"displayName"`
	Version     string     `json:"version"`
	Description string     `json:"description"`
	SourceURL   string     `json:"sourceUrl"`
	Kind        SourceKind `json:"kind"`
}

// SourceRegistry resolves source definitions by name.
type SourceRegistry interface {
	// Definition returns the web source with the given name.
	// Returns ENOTFOUND if no such source exists.
	Definition(name string) (*SourceDefinition, error)

	// Repository returns the repository source with the given name.
	// Returns ENOTFOUND if no such source exists.
	Repository(name string) (*RepoConfig, error)

	// Available lists every registered source.
	Available() []AvailableSource
}
