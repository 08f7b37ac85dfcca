package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/docvault"
)

var _ docvault.FrameworkDetector = (*Detector)(nil)

// signature holds the markers of one documentation generator. Any matching
// selector, or a true match func, identifies the framework.
type signature struct {
	framework docvault.Framework
	generator string
	selectors []string
	match     func(doc *goquery.Document) bool
}

// signatures are checked in order. VitePress must precede VuePress.
var signatures = []signature{
	{
		framework: docvault.FrameworkDocusaurus,
		generator: "docusaurus",
		selectors: []string{"#__docusaurus_skipToContent_fallback", ".theme-doc-sidebar-container"},
		match: func(doc *goquery.Document) bool {
			return has(doc, "[data-rh]") && has(doc, "[data-theme]")
		},
	},
	{
		framework: docvault.FrameworkMkDocs,
		generator: "mkdocs",
		selectors: []string{"[data-md-color-scheme]", "[data-md-component]", ".md-nav--primary"},
	},
	{
		// Includes the ReadTheDocs theme.
		framework: docvault.FrameworkSphinx,
		generator: "sphinx",
		selectors: []string{".toctree-wrapper", ".wy-nav-side", ".wy-menu-vertical", ".sphinxsidebar"},
	},
	{
		framework: docvault.FrameworkVitePress,
		generator: "vitepress",
		selectors: []string{"#VPContent", ".VPDoc", ".VPDocAsideOutline"},
	},
	{
		framework: docvault.FrameworkVuePress,
		generator: "vuepress",
		selectors: []string{".theme-default-content", ".sidebar-links", ".vuepress-navbar"},
	},
	{
		framework: docvault.FrameworkGitBook,
		generator: "gitbook",
		selectors: []string{"[data-testid='space.sidebar']", "[data-testid='page.desktopTableOfContents']"},
		match:     hasGitBookClasses,
	},
	{
		framework: docvault.FrameworkNextra,
		generator: "nextra",
		selectors: []string{".nextra-navbar", ".nextra-sidebar", ".nextra-toc"},
	},
}

// Detector identifies documentation frameworks from generator meta tags
// and structural markers unique to each generator.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified framework.
// Returns FrameworkUnknown if the framework cannot be determined.
func (d *Detector) Detect(html string) docvault.Framework {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return docvault.FrameworkUnknown
	}
	return d.DetectDocument(doc)
}

// DetectDocument is like Detect for an already parsed document.
// The generator meta tag wins over structural markers.
func (d *Detector) DetectDocument(doc *goquery.Document) docvault.Framework {
	content, _ := doc.Find("meta[name='generator']").Last().Attr("content")
	if generator := strings.ToLower(content); generator != "" {
		for _, sig := range signatures {
			if strings.Contains(generator, sig.generator) {
				return sig.framework
			}
		}
	}

	for _, sig := range signatures {
		if sig.matches(doc) {
			return sig.framework
		}
	}
	return docvault.FrameworkUnknown
}

func (s signature) matches(doc *goquery.Document) bool {
	for _, sel := range s.selectors {
		if has(doc, sel) {
			return true
		}
	}
	return s.match != nil && s.match(doc)
}

func has(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

// hasGitBookClasses reports whether the html element carries at least two
// of GitBook's theme classes.
func hasGitBookClasses(doc *goquery.Document) bool {
	class, _ := doc.Find("html").First().Attr("class")
	if class == "" {
		return false
	}
	count := 0
	for _, c := range []string{"circular-corners", "theme-clean", "tint"} {
		if strings.Contains(class, c) {
			count++
		}
	}
	return count >= 2
}
