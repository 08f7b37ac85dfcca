package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docvault"
	"github.com/fwojciec/docvault/crawl"
	"github.com/fwojciec/docvault/goquery"
	"github.com/fwojciec/docvault/htmltomarkdown"
	dvhttp "github.com/fwojciec/docvault/http"
	"github.com/fwojciec/docvault/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "https://docs.test/"

// site serves canned pages keyed by crawl-relative path and records the
// order in which they were fetched.
type site struct {
	pages map[string]string

	mu      sync.Mutex
	fetched []string
}

func (s *site) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, u string) (string, error) {
			path := strings.TrimPrefix(u, testBase)
			s.mu.Lock()
			s.fetched = append(s.fetched, path)
			s.mu.Unlock()
			html, ok := s.pages[path]
			if !ok {
				return "", docvault.Errorf(docvault.ETRANSPORT, "HTTP 404 for %s", u)
			}
			return html, nil
		},
		CloseFn: func() error { return nil },
	}
}

func (s *site) fetchedPaths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fetched...)
}

func htmlPage(title, body string, links ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><h1>" + title + "</h1><nav>")
	for _, l := range links {
		b.WriteString(`<a href="` + l + `">` + l + `</a>`)
	}
	b.WriteString("</nav><main>")
	if body != "" {
		b.WriteString("<p>" + body + "</p>")
	}
	b.WriteString("</main></body></html>")
	return b.String()
}

func testSource(mod func(*docvault.TraversalOptions)) *docvault.SourceDefinition {
	opts := docvault.DefaultTraversalOptions()
	opts.Delay = 0
	if mod != nil {
		mod(&opts)
	}
	return &docvault.SourceDefinition{
		Name:    "test",
		BaseURL: testBase,
		Options: opts,
		Selectors: docvault.ContentSelectors{
			Title:   "h1",
			Content: "main",
			Links:   "a[href]",
		},
	}
}

func newCrawler(s *site) *crawl.Crawler {
	return &crawl.Crawler{
		NewFetcher: func(*docvault.SourceDefinition) (docvault.Fetcher, error) {
			return s.fetcher(), nil
		},
		Extractor: goquery.NewExtractor(htmltomarkdown.NewConverter()),
	}
}

func entryPaths(entries []docvault.Entry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("walks in breadth-first order within scope", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"library/index.html":   htmlPage("Library", "The library.", "os.html", "../reference/index.html", "sys.html", "../about.html"),
			"library/os.html":      htmlPage("os", "Miscellaneous OS interfaces.", "index.html"),
			"library/sys.html":     htmlPage("sys", "System parameters."),
			"reference/index.html": htmlPage("Reference", "The language reference."),
			"about.html":           htmlPage("About", "About these docs."),
		}}
		src := testSource(func(o *docvault.TraversalOptions) {
			o.SeedPaths = []string{"library/index.html"}
			o.OnlyPatterns = []*regexp.Regexp{regexp.MustCompile(`^library/`), regexp.MustCompile(`^reference/`)}
		})

		entries, err := newCrawler(s).Crawl(context.Background(), src, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{
			"library/index.html",
			"library/os.html",
			"reference/index.html",
			"library/sys.html",
		}, s.fetchedPaths())
		assert.Equal(t, []string{
			"library",
			"library/index",
			"library/os",
			"reference",
			"reference/index",
			"library/sys",
		}, entryPaths(entries))
	})

	t.Run("fills entry fields from the extraction", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"std/vec/struct.Vec.html": htmlPage("Struct Vec", "A contiguous growable array type."),
		}}
		src := testSource(func(o *docvault.TraversalOptions) {
			o.SeedPaths = []string{"std/vec/struct.Vec.html"}
		})

		entries, err := newCrawler(s).Crawl(context.Background(), src, nil)

		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, docvault.Entry{Path: "std", Title: "Std", EntryType: docvault.EntryTypeSection}, entries[0])
		assert.Equal(t, docvault.Entry{Path: "std/vec", Title: "Vec", EntryType: docvault.EntryTypeSection, ParentPath: "std"}, entries[1])
		assert.Equal(t, "std/vec/struct.Vec", entries[2].Path)
		assert.Equal(t, "Struct Vec", entries[2].Title)
		assert.Equal(t, "A contiguous growable array type.", entries[2].Content)
		assert.Equal(t, docvault.EntryTypeClass, entries[2].EntryType)
		assert.Equal(t, "std/vec", entries[2].ParentPath)
	})

	t.Run("synthesizes ancestors for deep pages", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"a/b/c.html": htmlPage("C", "Leaf content."),
		}}
		src := testSource(func(o *docvault.TraversalOptions) {
			o.SeedPaths = []string{"a/b/c.html"}
		})

		entries, err := newCrawler(s).Crawl(context.Background(), src, nil)

		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "a", entries[0].Path)
		assert.Empty(t, entries[0].ParentPath)
		assert.Equal(t, "a/b", entries[1].Path)
		assert.Equal(t, "a", entries[1].ParentPath)
		assert.Equal(t, "a/b/c", entries[2].Path)
		assert.Equal(t, "a/b", entries[2].ParentPath)
	})

	t.Run("omits pages without content but keeps their ancestors", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"guide/empty.html": htmlPage("Empty", "", "intro.html"),
			"guide/intro.html": htmlPage("Intro", "Start here."),
		}}
		src := testSource(func(o *docvault.TraversalOptions) {
			o.SeedPaths = []string{"guide/empty.html"}
		})

		entries, err := newCrawler(s).Crawl(context.Background(), src, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"guide", "guide/intro"}, entryPaths(entries))
	})

	t.Run("never fetches more than max pages", func(t *testing.T) {
		t.Parallel()

		pages := map[string]string{}
		var links []string
		for i := range 10 {
			p := fmt.Sprintf("p%d.html", i)
			links = append(links, p)
			pages[p] = htmlPage(p, "Page "+p)
		}
		pages[""] = htmlPage("Home", "Welcome.", links...)
		s := &site{pages: pages}
		src := testSource(func(o *docvault.TraversalOptions) {
			o.MaxPages = 3
		})

		entries, err := newCrawler(s).Crawl(context.Background(), src, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"", "p0.html", "p1.html"}, s.fetchedPaths())
		assert.Equal(t, []string{"index", "p0", "p1"}, entryPaths(entries))
	})

	t.Run("never fetches pages beyond max depth", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"":       htmlPage("Home", "Welcome.", "a.html"),
			"a.html": htmlPage("A", "Depth one.", "b.html"),
			"b.html": htmlPage("B", "Depth two.", "c.html"),
			"c.html": htmlPage("C", "Depth three."),
		}}
		src := testSource(func(o *docvault.TraversalOptions) {
			o.MaxDepth = 2
		})

		_, err := newCrawler(s).Crawl(context.Background(), src, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"", "a.html", "b.html"}, s.fetchedPaths())
	})

	t.Run("does not follow links when disabled", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"":       htmlPage("Home", "Welcome.", "a.html"),
			"a.html": htmlPage("A", "Depth one."),
		}}
		src := testSource(func(o *docvault.TraversalOptions) {
			o.FollowLinks = false
		})

		_, err := newCrawler(s).Crawl(context.Background(), src, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{""}, s.fetchedPaths())
	})

	t.Run("never enqueues links outside the only patterns", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"library/index.html": htmlPage("Library", "Index.", "/about.html", "os.html"),
			"library/os.html":    htmlPage("os", "OS."),
			"about.html":         htmlPage("About", "About."),
		}}
		src := testSource(func(o *docvault.TraversalOptions) {
			o.SeedPaths = []string{"library/index.html"}
			o.OnlyPatterns = []*regexp.Regexp{regexp.MustCompile(`^library/`)}
		})

		_, err := newCrawler(s).Crawl(context.Background(), src, nil)

		require.NoError(t, err)
		assert.NotContains(t, s.fetchedPaths(), "about.html")
	})

	t.Run("skips paths and patterns from the skip rules", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"":                   htmlPage("Home", "Welcome.", "bugs.html", "whatsnew/3.13.html", "library/os.html"),
			"library/os.html":    htmlPage("os", "OS."),
			"bugs.html":          htmlPage("Bugs", "Bugs."),
			"whatsnew/3.13.html": htmlPage("New", "New."),
		}}
		src := testSource(func(o *docvault.TraversalOptions) {
			o.SkipPaths = map[string]struct{}{"bugs.html": {}}
			o.SkipPatterns = []*regexp.Regexp{regexp.MustCompile(`whatsnew`)}
		})

		_, err := newCrawler(s).Crawl(context.Background(), src, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"", "library/os.html"}, s.fetchedPaths())
	})

	t.Run("fetches each path once", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"":       htmlPage("Home", "Welcome.", "a.html", "b.html", "a.html#top"),
			"a.html": htmlPage("A", "A.", "b.html", "index.html"),
			"b.html": htmlPage("B", "B.", "a.html"),
		}}
		src := testSource(nil)

		_, err := newCrawler(s).Crawl(context.Background(), src, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"", "a.html", "b.html", "index.html"}, s.fetchedPaths())
	})

	t.Run("skips failed pages and continues", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"":        htmlPage("Home", "Welcome.", "missing.html", "ok.html"),
			"ok.html": htmlPage("OK", "Fine."),
		}}
		progress := make(chan docvault.ProgressEvent, 100)

		entries, err := newCrawler(s).Crawl(context.Background(), testSource(nil), progress)
		close(progress)

		require.NoError(t, err)
		assert.Equal(t, []string{"", "missing.html", "ok.html"}, s.fetchedPaths())
		assert.Equal(t, []string{"index", "ok"}, entryPaths(entries))
		for ev := range progress {
			assert.NotEqual(t, docvault.PhaseFailed, ev.Phase)
		}
	})

	t.Run("skips pages the extractor rejects", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{"": "<html></html>"}}
		c := newCrawler(s)
		c.Extractor = &mock.Extractor{
			ExtractFn: func(string, *docvault.SourceDefinition, string) (*docvault.Extraction, error) {
				return nil, docvault.Errorf(docvault.EINVALID, "bad html")
			},
		}

		entries, err := c.Crawl(context.Background(), testSource(nil), nil)

		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("reports progress", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"":       htmlPage("Home", "Welcome.", "a.html"),
			"a.html": htmlPage("A", "A."),
		}}
		progress := make(chan docvault.ProgressEvent, 100)

		_, err := newCrawler(s).Crawl(context.Background(), testSource(nil), progress)
		close(progress)
		require.NoError(t, err)

		var events []docvault.ProgressEvent
		for ev := range progress {
			events = append(events, ev)
		}
		require.Len(t, events, 4)
		assert.Equal(t, docvault.PhaseStarting, events[0].Phase)
		assert.Equal(t, docvault.PhaseScraping, events[1].Phase)
		assert.Equal(t, "", events[1].Path)
		assert.Equal(t, 1, events[1].Current)
		assert.Equal(t, docvault.PhaseScraping, events[2].Phase)
		assert.Equal(t, "a.html", events[2].Path)
		assert.Equal(t, 2, events[2].Current)
		assert.Equal(t, docvault.PhaseCompleted, events[3].Phase)
		assert.Equal(t, 2, events[3].Current)
		assert.Equal(t, 2, events[3].Entries)
	})

	t.Run("does not block on a progress channel nobody reads", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{"": htmlPage("Home", "Welcome.")}}
		progress := make(chan docvault.ProgressEvent)

		entries, err := newCrawler(s).Crawl(context.Background(), testSource(nil), progress)

		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("applies the source timeout to every fetch", func(t *testing.T) {
		t.Parallel()

		var sawDeadline bool
		c := &crawl.Crawler{
			NewFetcher: func(*docvault.SourceDefinition) (docvault.Fetcher, error) {
				return &mock.Fetcher{
					FetchFn: func(ctx context.Context, _ string) (string, error) {
						_, sawDeadline = ctx.Deadline()
						return htmlPage("Home", "Welcome."), nil
					},
					CloseFn: func() error { return nil },
				}, nil
			},
			Extractor: goquery.NewExtractor(htmltomarkdown.NewConverter()),
		}
		src := testSource(func(o *docvault.TraversalOptions) {
			o.Timeout = time.Second
		})

		_, err := c.Crawl(context.Background(), src, nil)

		require.NoError(t, err)
		assert.True(t, sawDeadline)
	})

	t.Run("waits on the rate limiter with the page host", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{"": htmlPage("Home", "Welcome.")}}
		var domains []string
		c := newCrawler(s)
		c.RateLimiter = &mock.DomainLimiter{
			WaitFn: func(_ context.Context, domain string) error {
				domains = append(domains, domain)
				return nil
			},
		}

		_, err := c.Crawl(context.Background(), testSource(nil), nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"docs.test"}, domains)
	})

	t.Run("adds sitemap locations as seeds", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{
			"":                 htmlPage("Home", "Welcome."),
			"guide/intro.html": htmlPage("Intro", "Start."),
		}}
		c := newCrawler(s)
		c.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(_ context.Context, baseURL string) ([]string, error) {
				assert.Equal(t, testBase, baseURL)
				return []string{testBase + "guide/intro.html", "https://elsewhere.test/x.html"}, nil
			},
		}
		src := testSource(func(o *docvault.TraversalOptions) {
			o.UseSitemap = true
		})

		_, err := c.Crawl(context.Background(), src, nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"", "guide/intro.html"}, s.fetchedPaths())
	})

	t.Run("ignores sitemap failures", func(t *testing.T) {
		t.Parallel()

		s := &site{pages: map[string]string{"": htmlPage("Home", "Welcome.")}}
		c := newCrawler(s)
		c.Sitemaps = &mock.SitemapService{
			DiscoverURLsFn: func(context.Context, string) ([]string, error) {
				return nil, errors.New("no sitemap")
			},
		}
		src := testSource(func(o *docvault.TraversalOptions) {
			o.UseSitemap = true
		})

		entries, err := c.Crawl(context.Background(), src, nil)

		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("returns folded entries when cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		c := &crawl.Crawler{
			NewFetcher: func(*docvault.SourceDefinition) (docvault.Fetcher, error) {
				return &mock.Fetcher{
					FetchFn: func(context.Context, string) (string, error) {
						cancel()
						return htmlPage("Home", "Welcome.", "a.html"), nil
					},
					CloseFn: func() error { return nil },
				}, nil
			},
			Extractor: goquery.NewExtractor(htmltomarkdown.NewConverter()),
		}

		entries, err := c.Crawl(ctx, testSource(nil), nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []string{"index"}, entryPaths(entries))
	})

	t.Run("closes the fetcher", func(t *testing.T) {
		t.Parallel()

		var closed bool
		c := &crawl.Crawler{
			NewFetcher: func(*docvault.SourceDefinition) (docvault.Fetcher, error) {
				return &mock.Fetcher{
					FetchFn: func(context.Context, string) (string, error) { return "", errors.New("down") },
					CloseFn: func() error { closed = true; return nil },
				}, nil
			},
			Extractor: &mock.Extractor{},
		}

		_, err := c.Crawl(context.Background(), testSource(nil), nil)

		require.NoError(t, err)
		assert.True(t, closed)
	})
}

func TestCrawler_Crawl_SetupErrors(t *testing.T) {
	t.Parallel()

	t.Run("reports failure when the fetcher cannot be built", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			NewFetcher: func(*docvault.SourceDefinition) (docvault.Fetcher, error) {
				return nil, docvault.Errorf(docvault.ETRANSPORT, "no browser")
			},
			Extractor: &mock.Extractor{},
		}
		progress := make(chan docvault.ProgressEvent, 10)

		entries, err := c.Crawl(context.Background(), testSource(nil), progress)
		close(progress)

		require.Error(t, err)
		assert.Equal(t, docvault.ETRANSPORT, docvault.ErrorCode(err))
		assert.Nil(t, entries)
		ev := <-progress
		assert.Equal(t, docvault.PhaseFailed, ev.Phase)
		assert.Equal(t, "no browser", ev.Message)
	})

	t.Run("rejects an invalid base URL", func(t *testing.T) {
		t.Parallel()

		c := newCrawler(&site{})
		src := testSource(nil)
		src.BaseURL = "ftp://docs.test/"

		_, err := c.Crawl(context.Background(), src, nil)

		assert.Equal(t, docvault.EINVALID, docvault.ErrorCode(err))
	})

	t.Run("rejects a crawler without an extractor", func(t *testing.T) {
		t.Parallel()

		c := newCrawler(&site{})
		c.Extractor = nil

		_, err := c.Crawl(context.Background(), testSource(nil), nil)

		assert.Equal(t, docvault.EINTERNAL, docvault.ErrorCode(err))
	})
}

func TestCrawler_Crawl_HTTP(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/docs/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/docs/":
			_, _ = w.Write([]byte(htmlPage("Docs", "Welcome.", "guide.html", "/docs/api/index.html", "/blog/post.html")))
		case "/docs/guide.html":
			_, _ = w.Write([]byte(`<html><body><h1>Guide</h1><main><pre class="language-sh">make install</pre></main></body></html>`))
		case "/docs/api/index.html":
			_, _ = w.Write([]byte(htmlPage("API", "Reference.", "../guide.html")))
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/blog/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("crawled outside the base path: %s", r.URL.Path)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := &crawl.Crawler{
		NewFetcher: func(src *docvault.SourceDefinition) (docvault.Fetcher, error) {
			return dvhttp.NewFetcher(
				dvhttp.WithTimeout(src.Options.Timeout),
				dvhttp.WithUserAgent(src.Options.UserAgent),
			), nil
		},
		Extractor:   goquery.NewExtractor(htmltomarkdown.NewConverter()),
		RateLimiter: crawl.NewDomainLimiter(0),
	}
	src := testSource(nil)
	src.BaseURL = srv.URL + "/docs/"

	entries, err := c.Crawl(context.Background(), src, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"index", "guide", "api", "api/index"}, entryPaths(entries))
	assert.Equal(t, "```sh\nmake install\n```", entries[1].Content)
}

func TestCrawler_Crawl_DomainLimiter(t *testing.T) {
	t.Parallel()

	pages := func() *site {
		return &site{pages: map[string]string{
			"":           htmlPage("Home", "Welcome.", "guide.html", "api.html"),
			"guide.html": htmlPage("Guide", "Getting started."),
			"api.html":   htmlPage("API", "Reference."),
		}}
	}

	t.Run("paces fetches to the configured rate per host", func(t *testing.T) {
		t.Parallel()

		s := pages()
		c := newCrawler(s)
		c.RateLimiter = crawl.NewDomainLimiter(20) // one fetch every 50ms

		start := time.Now()
		entries, err := c.Crawl(context.Background(), testSource(nil), nil)
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Len(t, entries, 3)
		assert.Len(t, s.fetchedPaths(), 3)
		assert.GreaterOrEqual(t, elapsed, 90*time.Millisecond)
	})

	t.Run("returns the folded entries when cancelled while waiting", func(t *testing.T) {
		t.Parallel()

		s := pages()
		c := newCrawler(s)
		c.RateLimiter = crawl.NewDomainLimiter(0.5) // one fetch every 2s

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		time.AfterFunc(100*time.Millisecond, cancel)

		entries, err := c.Crawl(ctx, testSource(nil), nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []string{"index"}, entryPaths(entries))
		assert.Equal(t, []string{""}, s.fetchedPaths())
	})
}
