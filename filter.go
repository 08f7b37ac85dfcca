package docvault

import (
	"net/url"
	"regexp"
	"strings"
)

// FilterContext describes the page being filtered.
type FilterContext struct {
	URL     string
	Path    string
	BaseURL string
}

// Filter transforms raw HTML before it is parsed. Filters must be pure:
// the same input always yields the same output, and input a filter cannot
// handle is returned unchanged.
type Filter func(html string, fc FilterContext) string

// Pipeline applies filters in order.
type Pipeline []Filter

// Process runs html through every filter in the pipeline.
func (p Pipeline) Process(html string, fc FilterContext) string {
	for _, f := range p {
		html = f(html, fc)
	}
	return html
}

// DefaultPipeline returns the filters applied to every crawled page.
func DefaultPipeline() Pipeline {
	return Pipeline{CleanHTML, AbsoluteLinks}
}

var (
	scriptRe  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	styleRe   = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)
	commentRe = regexp.MustCompile(`(?s)<!--.*?-->`)
	hrefRe    = regexp.MustCompile(`href=(["'])([^"']*)["']`)
)

// CleanHTML removes script and style elements and HTML comments.
// Whitespace is left alone so preformatted code keeps its layout.
func CleanHTML(html string, _ FilterContext) string {
	html = scriptRe.ReplaceAllString(html, "")
	html = styleRe.ReplaceAllString(html, "")
	return commentRe.ReplaceAllString(html, "")
}

// AbsoluteLinks rewrites root-relative href attributes into absolute URLs
// on the host of the base URL. Absolute, protocol-relative, and
// document-relative hrefs are left untouched.
func AbsoluteLinks(html string, fc FilterContext) string {
	base, err := url.Parse(fc.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return html
	}
	origin := base.Scheme + "://" + base.Host

	return hrefRe.ReplaceAllStringFunc(html, func(m string) string {
		sub := hrefRe.FindStringSubmatch(m)
		quote, href := sub[1], sub[2]
		if !strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//") {
			return m
		}
		return "href=" + quote + origin + href + quote
	})
}
