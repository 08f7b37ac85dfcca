package sources

import (
	"regexp"
	"time"

	"github.com/fwojciec/docvault"
)

// Builtin returns a registry of the documentation sources docvault ships with.
func Builtin() *Registry {
	r, err := NewRegistry(WebSources(), Repositories())
	if err != nil {
		panic(err)
	}
	return r
}

// WebSources returns fresh copies of the built-in web definitions.
func WebSources() []*docvault.SourceDefinition {
	return []*docvault.SourceDefinition{
		rust(),
		pythonWeb(),
		react(),
		nodejs(),
		typescriptWeb(),
		mdnJavaScript(),
	}
}

// Repositories returns fresh copies of the built-in repository configs.
func Repositories() []*docvault.RepoConfig {
	return []*docvault.RepoConfig{
		{
			Name:              "python",
			DisplayName:       "Python",
			Version:           "main",
			BaseURL:           "https://github.com/python/cpython/tree/main/Doc",
			AvailableVersions: []string{"main", "3.13", "3.12", "3.11"},
			IgnoreFiles:       []string{"README.md", "LICENSE", "CHANGELOG.md"},
			IgnoreDirs:        []string{"_sources", ".git"},
		},
		{
			Name:              "nextjs",
			DisplayName:       "Next.js",
			Version:           "v16.1.2",
			BaseURL:           "https://github.com/vercel/next.js/tree/v16.1.2/docs",
			AvailableVersions: []string{"v16.1.2", "canary", "v15.1.0", "v14.2.0"},
			IgnoreFiles:       []string{"README.md", "CHANGELOG.md"},
			IgnoreDirs:        []string{".git", "node_modules"},
		},
		{
			Name:              "nuxtjs",
			DisplayName:       "Nuxt.js",
			Version:           "v4.2.2",
			BaseURL:           "https://github.com/nuxt/nuxt/tree/v4.2.2/docs",
			AvailableVersions: []string{"v4.2.2", "main", "v3.13.0"},
			IgnoreFiles:       []string{"README.md", "CHANGELOG.md"},
			IgnoreDirs:        []string{".git", "node_modules"},
		},
		{
			Name:              "bun",
			DisplayName:       "Bun",
			Version:           "bun-v1.3.6",
			BaseURL:           "https://github.com/oven-sh/bun/tree/bun-v1.3.6/docs",
			AvailableVersions: []string{"bun-v1.3.6", "main", "bun-v1.2.0"},
			IgnoreFiles:       []string{"README.md", "CHANGELOG.md"},
			IgnoreDirs:        []string{".git"},
		},
		{
			// MDN keeps every page in an index.md, so only README.md is ignored.
			Name:              "mdn",
			DisplayName:       "MDN Web Docs",
			Version:           "main",
			BaseURL:           "https://github.com/mdn/content/tree/main/files/en-us/web",
			AvailableVersions: []string{"main"},
			IgnoreFiles:       []string{"README.md"},
			IgnoreDirs:        []string{".git", "_redirects.txt"},
		},
		{
			Name:              "typescript",
			DisplayName:       "TypeScript",
			Version:           "v2",
			BaseURL:           "https://github.com/microsoft/TypeScript-Website/tree/v2/packages/documentation/copy/en",
			AvailableVersions: []string{"v2", "main"},
			IgnoreFiles:       []string{"README.md", "CHANGELOG.md"},
			IgnoreDirs:        []string{".git", "node_modules"},
		},
		{
			Name:              "hono",
			DisplayName:       "Hono",
			Version:           "main",
			BaseURL:           "https://github.com/honojs/website/tree/main/docs",
			AvailableVersions: []string{"main"},
			IgnoreFiles:       []string{"README.md", "CHANGELOG.md"},
			IgnoreDirs:        []string{".git", "node_modules"},
		},
		{
			Name:              "elysiajs",
			DisplayName:       "ElysiaJS",
			Version:           "main",
			BaseURL:           "https://github.com/elysiajs/documentation/tree/main/docs",
			AvailableVersions: []string{"main"},
			IgnoreFiles:       []string{"README.md", "CHANGELOG.md"},
			IgnoreDirs:        []string{".git", "node_modules"},
		},
	}
}

func rust() *docvault.SourceDefinition {
	opts := docvault.DefaultTraversalOptions()
	opts.SeedPaths = []string{"index.html"}
	opts.SkipPatterns = patterns(`src/`, `\.rs\.html$`)
	opts.MaxDepth = 2
	opts.MaxPages = 50
	opts.Concurrency = 4
	opts.Delay = 100 * time.Millisecond

	return &docvault.SourceDefinition{
		Name:        "rust",
		DisplayName: "Rust",
		Version:     "1.84.0",
		BaseURL:     "https://doc.rust-lang.org/std/",
		Description: "Rust standard library documentation",
		Attribution: "© The Rust Project Developers. Licensed under Apache 2.0 or MIT.",
		Options:     opts,
		Selectors: docvault.ContentSelectors{
			Title:   "h1.fqn, h1",
			Content: "#main-content, .docblock, .content",
			Links:   ".item-table a, .sidebar-elems a, .content a",
			Remove:  []string{".sidebar", ".source", "nav"},
		},
	}
}

func pythonWeb() *docvault.SourceDefinition {
	opts := docvault.DefaultTraversalOptions()
	opts.SeedPaths = []string{"library/index.html", "reference/index.html"}
	opts.SkipPatterns = patterns(`whatsnew`, `_sources`, `genindex`, `search\.html`)
	opts.SkipPaths = set(
		"library/2to3.html",
		"library/formatter.html",
		"library/intro.html",
		"library/undoc.html",
		"bugs.html",
		"about.html",
		"copyright.html",
		"license.html",
	)
	opts.OnlyPatterns = patterns(`^library/`, `^reference/`)
	opts.MaxDepth = 2
	opts.MaxPages = 50
	opts.Concurrency = 4
	opts.Delay = 150 * time.Millisecond

	return &docvault.SourceDefinition{
		Name:        "python-web",
		DisplayName: "Python",
		Version:     "3.13",
		BaseURL:     "https://docs.python.org/3.13/",
		Description: "Official Python documentation",
		Attribution: "© 2001–2024 Python Software Foundation. Licensed under the PSF License.",
		Options:     opts,
		Selectors: docvault.ContentSelectors{
			Title:   "h1",
			Content: ".body, article, main",
			Links:   "a.reference.internal, .toctree-l1 a, .toctree-l2 a",
			Remove:  []string{".headerlink", ".sphinxsidebar", ".related"},
		},
	}
}

func react() *docvault.SourceDefinition {
	opts := docvault.DefaultTraversalOptions()
	opts.SeedPaths = []string{"learn", "reference/react", "reference/react-dom"}
	opts.SkipPatterns = patterns(`^blog`, `^community`, `^versions`)
	opts.OnlyPatterns = patterns(`^learn`, `^reference`)
	opts.MaxDepth = 3
	opts.MaxPages = 200
	opts.Concurrency = 2
	opts.Delay = 300 * time.Millisecond

	return &docvault.SourceDefinition{
		Name:        "react",
		DisplayName: "React",
		Version:     "19",
		BaseURL:     "https://react.dev/",
		Description: "Official React documentation",
		Attribution: "© Meta Platforms, Inc. Licensed under CC BY 4.0.",
		Options:     opts,
		Selectors: docvault.ContentSelectors{
			Title:   "h1, article h1",
			Content: "article, main, .markdown",
			Links:   "nav a, article a",
			Remove:  []string{"nav", "footer", ".sandpack"},
		},
	}
}

func nodejs() *docvault.SourceDefinition {
	opts := docvault.DefaultTraversalOptions()
	opts.SeedPaths = []string{"index.html"}
	opts.SkipPatterns = patterns(`^api/all\.html`, `^download`)
	opts.MaxDepth = 2
	opts.MaxPages = 150
	opts.Concurrency = 4
	opts.Delay = 150 * time.Millisecond

	return &docvault.SourceDefinition{
		Name:        "nodejs",
		DisplayName: "Node.js",
		Version:     "22",
		BaseURL:     "https://nodejs.org/docs/latest-v22.x/api/",
		Description: "Node.js API documentation",
		Attribution: "© OpenJS Foundation. Licensed under MIT.",
		Options:     opts,
		Selectors: docvault.ContentSelectors{
			Title:   "h1, #apicontent h1",
			Content: "#apicontent, article",
			Links:   "#apicontent a, .toc a",
			Remove:  []string{"#column2", "nav"},
		},
	}
}

func typescriptWeb() *docvault.SourceDefinition {
	opts := docvault.DefaultTraversalOptions()
	opts.SeedPaths = []string{"handbook/intro.html"}
	opts.SkipPatterns = patterns(`^play`, `^community`)
	opts.OnlyPatterns = patterns(`^handbook`)
	opts.MaxDepth = 3
	opts.MaxPages = 100
	opts.Concurrency = 2
	opts.Delay = 200 * time.Millisecond

	return &docvault.SourceDefinition{
		Name:        "typescript-web",
		DisplayName: "TypeScript",
		Version:     "5.7",
		BaseURL:     "https://www.typescriptlang.org/docs/",
		Description: "Official TypeScript handbook",
		Attribution: "© Microsoft. Licensed under Apache 2.0.",
		Options:     opts,
		Selectors: docvault.ContentSelectors{
			Title:   "h1, .article-heading",
			Content: "article, .markdown, #handbook-content",
			Links:   "nav a, .toc a",
			Remove:  []string{"nav", ".playground"},
		},
	}
}

func mdnJavaScript() *docvault.SourceDefinition {
	opts := docvault.DefaultTraversalOptions()
	opts.SeedPaths = []string{"Reference", "Guide"}
	opts.SkipPatterns = patterns(`/.*/.*/.*/.*/`)
	opts.OnlyPatterns = patterns(`^Reference`, `^Guide`)
	opts.MaxDepth = 3
	opts.MaxPages = 400
	opts.Concurrency = 2
	opts.Delay = 300 * time.Millisecond

	return &docvault.SourceDefinition{
		Name:        "mdn-javascript",
		DisplayName: "MDN JavaScript",
		Version:     "latest",
		BaseURL:     "https://developer.mozilla.org/en-US/docs/Web/JavaScript/",
		Description: "MDN Web Docs - JavaScript Reference",
		Attribution: "© Mozilla Contributors. Licensed under CC-BY-SA 2.5.",
		Options:     opts,
		Selectors: docvault.ContentSelectors{
			Title:   "h1, .main-page-content h1",
			Content: ".main-page-content, article",
			Links:   ".sidebar a, article a",
			Remove:  []string{".sidebar", ".on-github", ".bc-table"},
		},
	}
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}

func set(items ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		out[item] = struct{}{}
	}
	return out
}
