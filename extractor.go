package docvault

// Extraction holds what the extractor found on one page.
type Extraction struct {
	// Title is the first non-empty title match, or "Untitled".
	Title string

	// Content is the page body as Markdown. Empty content is valid.
	Content string

	// Links holds crawl-relative paths in document order.
	// Duplicates are kept.
	Links []string

	EntryType string
}

// Extractor pulls structured content out of a crawled page.
type Extractor interface {
	// Extract parses filtered HTML found at the crawl-relative path and
	// applies the source's selectors to it.
	// Returns EINVALID if the HTML cannot be parsed.
	Extract(html string, src *SourceDefinition, path string) (*Extraction, error)
}
