// Package goquery implements selector-driven content extraction for
// crawled documentation pages using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docvault"
	"golang.org/x/net/html"
)

var _ docvault.Extractor = (*Extractor)(nil)

// maxAncestorDepth bounds the upward walk used for code language detection.
const maxAncestorDepth = 64

// Extractor implements docvault.Extractor using CSS selectors.
// Sources without a content selector get selectors picked by framework
// detection. Extractor is safe for concurrent use.
type Extractor struct {
	converter docvault.Converter
	detector  *Detector
}

// NewExtractor creates an Extractor that converts non-code blocks with conv.
func NewExtractor(conv docvault.Converter) *Extractor {
	return &Extractor{
		converter: conv,
		detector:  NewDetector(),
	}
}

// Extract parses html found at the crawl-relative path and applies the
// source's selectors. Links are gathered before the remove selectors run,
// so navigation that is stripped from the content still feeds the crawl.
func (e *Extractor) Extract(htmlStr string, src *docvault.SourceDefinition, path string) (*docvault.Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, docvault.Errorf(docvault.EINVALID, "failed to parse HTML for %q: %v", path, err)
	}

	sel := e.selectors(doc, src.Selectors)

	result := &docvault.Extraction{
		Links: extractLinks(doc, sel.Links, path, src.BaseURL),
	}

	for _, r := range sel.Remove {
		doc.Find(r).Remove()
	}

	result.Title = extractTitle(doc, sel.Title)
	result.Content = e.extractContent(doc, sel.Content)
	result.EntryType = extractEntryType(doc, sel.EntryTypeAttr, path)
	return result, nil
}

// selectors fills unset fields of configured from the preset of the
// detected framework.
func (e *Extractor) selectors(doc *goquery.Document, configured docvault.ContentSelectors) docvault.ContentSelectors {
	if configured.Content != "" && configured.Title != "" && configured.Links != "" {
		return configured
	}
	preset := Preset(e.detector.DetectDocument(doc))
	sel := configured
	if sel.Title == "" {
		sel.Title = preset.Title
	}
	if sel.Links == "" {
		sel.Links = preset.Links
	}
	if sel.Content == "" {
		sel.Content = preset.Content
		sel.Remove = append(append([]string(nil), sel.Remove...), preset.Remove...)
	}
	return sel
}

func extractTitle(doc *goquery.Document, selectors string) string {
	var title string
	for _, alt := range docvault.SplitSelectors(selectors) {
		doc.Find(alt).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			title = collapseSpace(s.Text())
			return title == ""
		})
		if title != "" {
			return title
		}
	}
	return "Untitled"
}

func extractLinks(doc *goquery.Document, selector, path, baseURL string) []string {
	if selector == "" {
		return nil
	}
	var links []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
			return
		}
		if link, ok := docvault.NormalizeLink(href, path, baseURL); ok {
			links = append(links, link)
		}
	})
	return links
}

// isNonHTTPLink checks if a href uses a scheme the crawler cannot follow.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

func extractEntryType(doc *goquery.Document, attr, path string) string {
	if attr != "" {
		if v, ok := doc.Find("[data-type]").First().Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return docvault.ClassifyPath(path)
}

// extractContent converts the direct children of the first element
// matching the content selector into Markdown blocks.
func (e *Extractor) extractContent(doc *goquery.Document, selectors string) string {
	var root *goquery.Selection
	for _, alt := range docvault.SplitSelectors(selectors) {
		if s := doc.Find(alt).First(); s.Length() > 0 {
			root = s
			break
		}
	}
	if root == nil {
		return ""
	}

	var blocks []string
	root.Contents().Each(func(_ int, child *goquery.Selection) {
		if block := strings.TrimSpace(e.block(child)); block != "" {
			blocks = append(blocks, block)
		}
	})
	return strings.Join(blocks, "\n\n")
}

func (e *Extractor) block(s *goquery.Selection) string {
	n := s.Get(0)
	switch n.Type {
	case html.TextNode:
		return n.Data
	case html.ElementNode:
	default:
		return ""
	}

	switch {
	case isCodeContainer(n):
		return fence(detectLanguage(s), s.Text())
	case n.Data == "dl":
		return e.definitionList(s)
	}

	outer, err := goquery.OuterHtml(s)
	if err != nil {
		return collapseSpace(s.Text())
	}
	return e.convert(outer, s)
}

// definitionList renders dt/dd pairs as a bold term followed by
// colon-prefixed descriptions.
func (e *Extractor) definitionList(s *goquery.Selection) string {
	var b strings.Builder
	s.Children().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "dt":
			if term := collapseSpace(c.Text()); term != "" {
				if b.Len() > 0 {
					b.WriteString("\n")
				}
				b.WriteString("**" + term + "**\n")
			}
		case "dd":
			inner, err := c.Html()
			if err != nil {
				inner = c.Text()
			}
			b.WriteString(": " + e.convert(inner, c) + "\n")
		}
	})
	return b.String()
}

// convert runs fragment through the converter, falling back to the
// plain text of s when conversion fails.
func (e *Extractor) convert(fragment string, s *goquery.Selection) string {
	md, err := e.converter.Convert(fragment)
	if err != nil {
		return collapseSpace(s.Text())
	}
	return strings.TrimSpace(md)
}

func isCodeContainer(n *html.Node) bool {
	switch n.Data {
	case "pre":
		return true
	case "code", "div":
		for _, class := range strings.Fields(attr(n, "class")) {
			if strings.HasPrefix(class, "language-") || strings.HasPrefix(class, "highlight-") {
				return true
			}
		}
	}
	return false
}

// detectLanguage looks for a language class on the element, then on its
// first code descendant, then on its ancestors up to the document root.
func detectLanguage(s *goquery.Selection) string {
	n := s.Get(0)
	if lang := classLanguage(attr(n, "class")); lang != "" {
		return lang
	}
	if code := s.Find("code").First(); code.Length() > 0 {
		if lang := classLanguage(attr(code.Get(0), "class")); lang != "" {
			return lang
		}
	}
	p := n.Parent
	for depth := 0; p != nil && depth < maxAncestorDepth; depth++ {
		if p.Type == html.ElementNode {
			if lang := classLanguage(attr(p, "class")); lang != "" {
				return lang
			}
		}
		p = p.Parent
	}
	return ""
}

func classLanguage(class string) string {
	for _, c := range strings.Fields(class) {
		for _, prefix := range []string{"language-", "lang-", "highlight-"} {
			if lang, ok := strings.CutPrefix(c, prefix); ok {
				if lang == "default" || lang == "none" || lang == "text" {
					return ""
				}
				return lang
			}
		}
	}
	return ""
}

func fence(lang, code string) string {
	code = strings.TrimLeft(code, "\n")
	code = strings.TrimRight(code, " \t\n")
	return "```" + lang + "\n" + code + "\n```"
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
