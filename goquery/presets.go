package goquery

import "github.com/fwojciec/docvault"

// presets holds content selectors tuned to each framework's page layout.
var presets = map[docvault.Framework]docvault.ContentSelectors{
	docvault.FrameworkSphinx: {
		Title:   "h1",
		Content: ".body, [role='main'], .document, article",
		Links:   ".toctree-wrapper a[href], #localtoc a[href], .sphinxsidebar a[href], .wy-menu-vertical a[href], .body a[href]",
		Remove:  []string{".headerlink", ".sphinxsidebar", ".related", ".wy-nav-side", "footer"},
	},
	docvault.FrameworkDocusaurus: {
		Title:   "article h1, h1",
		Content: ".theme-doc-markdown, article, main",
		Links:   ".theme-doc-sidebar-container a[href], .table-of-contents a[href], article a[href]",
		Remove:  []string{".hash-link", ".theme-doc-toc-desktop", ".theme-edit-this-page", "nav.navbar"},
	},
	docvault.FrameworkMkDocs: {
		Title:   ".md-content h1, h1",
		Content: ".md-content__inner, .md-content, article",
		Links:   "[data-md-component='navigation'] a[href], .md-nav--primary a[href], .md-content a[href]",
		Remove:  []string{".headerlink", ".md-source-file", ".md-content__button", "[data-md-component='toc']"},
	},
	docvault.FrameworkVitePress: {
		Title:   ".vp-doc h1, h1",
		Content: ".vp-doc, .VPDoc, main",
		Links:   ".VPSidebar a[href], .VPDoc a[href]",
		Remove:  []string{".header-anchor", ".VPDocAsideOutline", ".VPNav", ".edit-link"},
	},
	docvault.FrameworkVuePress: {
		Title:   ".theme-default-content h1, h1",
		Content: ".theme-default-content, main",
		Links:   ".sidebar-links a[href], .theme-default-content a[href]",
		Remove:  []string{".header-anchor", ".page-edit", ".sidebar"},
	},
	docvault.FrameworkGitBook: {
		Title:   "main h1, h1",
		Content: "[data-testid='page.contentEditor'], main, article",
		Links:   "[data-testid='space.sidebar'] a[href], main a[href]",
		Remove:  []string{"[data-testid='page.desktopTableOfContents']", "[data-testid='space.header']"},
	},
	docvault.FrameworkNextra: {
		Title:   "article h1, main h1, h1",
		Content: "article, main",
		Links:   ".nextra-sidebar a[href], article a[href]",
		Remove:  []string{".nextra-toc", ".nextra-navbar", ".nextra-breadcrumb"},
	},
}

// Preset returns the selectors for framework, falling back to the
// generic defaults for unknown frameworks.
func Preset(framework docvault.Framework) docvault.ContentSelectors {
	if sel, ok := presets[framework]; ok {
		return sel
	}
	return docvault.DefaultContentSelectors()
}
