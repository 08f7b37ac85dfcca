// Package readability recovers page content with go-readability when
// selector-driven extraction comes back empty.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/docvault"
	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

// Ensure Extractor implements docvault.Extractor at compile time.
var _ docvault.Extractor = (*Extractor)(nil)

// Extractor wraps another extractor. Pages of sources without a
// configured content selector that yield no content are run through
// readability instead. Configured selectors are trusted as is.
type Extractor struct {
	next      docvault.Extractor
	converter docvault.Converter
	policy    *bluemonday.Policy
}

// NewExtractor creates an Extractor that falls back from next and
// converts the recovered article with conv.
func NewExtractor(next docvault.Extractor, conv docvault.Converter) *Extractor {
	return &Extractor{
		next:      next,
		converter: conv,
		policy:    bluemonday.UGCPolicy(),
	}
}

// Extract delegates to the wrapped extractor and fills in empty content.
// Links and entry type always come from the wrapped extractor.
func (e *Extractor) Extract(rawHTML string, src *docvault.SourceDefinition, path string) (*docvault.Extraction, error) {
	ex, err := e.next.Extract(rawHTML, src, path)
	if err != nil || ex.Content != "" || src.Selectors.Content != "" {
		return ex, err
	}

	pageURL, _ := url.Parse(src.PageURL(path))
	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		return ex, nil
	}

	// Readability keeps whatever markup the article carried.
	md, err := e.converter.Convert(e.policy.Sanitize(article.Content))
	if err != nil {
		return ex, nil
	}
	ex.Content = strings.TrimSpace(md)
	if (ex.Title == "" || ex.Title == "Untitled") && article.Title != "" {
		ex.Title = article.Title
	}
	return ex, nil
}
