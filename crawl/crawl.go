// Package crawl implements the breadth-first documentation crawler.
// A single driver owns the frontier and the visited set; fetches run
// under a counting semaphore and are folded back in dequeue order.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/docvault"
	"golang.org/x/sync/semaphore"
)

var _ docvault.Crawler = (*Crawler)(nil)

// FetcherFunc builds the fetcher used for one crawl of src, typically
// configured with the source's timeout and user agent.
type FetcherFunc func(src *docvault.SourceDefinition) (docvault.Fetcher, error)

// Crawler crawls documentation web sites.
type Crawler struct {
	// NewFetcher is called once per crawl. Required.
	NewFetcher FetcherFunc

	// Extractor turns filtered HTML into entries and links. Required.
	Extractor docvault.Extractor

	// Pipeline filters raw HTML before extraction.
	// Defaults to docvault.DefaultPipeline.
	Pipeline docvault.Pipeline

	// RateLimiter, when set, is waited on before every fetch.
	RateLimiter docvault.DomainLimiter

	// Sitemaps supplies extra seeds for sources with UseSitemap set.
	Sitemaps docvault.SitemapService

	Logger *slog.Logger
}

// page is the outcome of fetching and extracting one frontier item.
type page struct {
	extraction *docvault.Extraction
	err        error
}

// Crawl walks src breadth-first from its seed paths and returns the
// collected entries in fold order, ancestors before descendants. Per-page
// failures are logged and skipped. When ctx is cancelled the entries
// folded so far are returned along with the context error.
func (c *Crawler) Crawl(ctx context.Context, src *docvault.SourceDefinition, progress chan<- docvault.ProgressEvent) ([]docvault.Entry, error) {
	logger := c.logger()

	fetcher, err := c.setup(src)
	if err != nil {
		docvault.SendProgress(progress, docvault.ProgressEvent{
			Phase:   docvault.PhaseFailed,
			Message: docvault.ErrorMessage(err),
		})
		return nil, err
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("close fetcher", "source", src.Name, "err", err)
		}
	}()

	opts := src.Options
	concurrency := max(opts.Concurrency, 1)
	sem := semaphore.NewWeighted(int64(concurrency))
	pipeline := c.Pipeline
	if pipeline == nil {
		pipeline = docvault.DefaultPipeline()
	}

	var queue frontier
	for _, seed := range opts.SeedPaths {
		queue.push(item{path: seed})
	}
	for _, seed := range c.sitemapSeeds(ctx, src) {
		queue.push(item{path: seed})
	}

	docvault.SendProgress(progress, docvault.ProgressEvent{
		Phase:   docvault.PhaseStarting,
		Total:   queue.len(),
		Message: "Starting crawl of " + src.BaseURL,
	})

	visited := newVisitedSet()
	tree := docvault.NewHierarchy()
	var pages, failed int

	for ctx.Err() == nil {
		it, ok := queue.pop()
		if !ok {
			break
		}
		if visited.has(it.path) {
			continue
		}
		if opts.MaxPages > 0 && pages >= opts.MaxPages {
			break
		}
		if opts.MaxDepth > 0 && it.depth > opts.MaxDepth {
			continue
		}
		if opts.ShouldSkip(it.path) {
			continue
		}
		visited.add(it.path)

		docvault.SendProgress(progress, docvault.ProgressEvent{
			Phase:   docvault.PhaseScraping,
			Current: pages + 1,
			Total:   opts.MaxPages,
			Path:    it.path,
			Entries: tree.Len(),
		})

		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		pages++
		done := make(chan page, 1)
		go func(it item) {
			defer sem.Release(1)
			done <- c.fetchPage(ctx, fetcher, pipeline, src, it.path)
		}(it)
		res := <-done

		if res.err != nil {
			failed++
			logger.Warn("page failed", "source", src.Name, "path", it.path, "err", res.err)
		} else {
			c.fold(tree, &queue, visited, src, it, res.extraction)
		}

		if !sleep(ctx, opts.Delay) {
			break
		}
	}

	entries := tree.Entries()
	logger.Info("crawl",
		"source", src.Name,
		"pages", pages,
		"failed", failed,
		"entries", len(entries),
		"err", ctx.Err(),
	)
	if err := ctx.Err(); err != nil {
		return entries, err
	}

	docvault.SendProgress(progress, docvault.ProgressEvent{
		Phase:   docvault.PhaseCompleted,
		Current: pages,
		Total:   pages,
		Entries: len(entries),
		Message: "Crawl completed",
	})
	return entries, nil
}

func (c *Crawler) setup(src *docvault.SourceDefinition) (docvault.Fetcher, error) {
	if src == nil {
		return nil, docvault.Errorf(docvault.EINVALID, "source definition required")
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	if c.NewFetcher == nil || c.Extractor == nil {
		return nil, docvault.Errorf(docvault.EINTERNAL, "crawler is missing a fetcher or extractor")
	}
	fetcher, err := c.NewFetcher(src)
	if err != nil {
		return nil, err
	}
	return fetcher, nil
}

// fold applies one successful page to the crawl state. Ancestors are
// synthesized for every fetched page; the page itself becomes an entry
// only when it has content.
func (c *Crawler) fold(tree *docvault.Hierarchy, queue *frontier, visited *visitedSet, src *docvault.SourceDefinition, it item, ex *docvault.Extraction) {
	entryPath := docvault.EntryPath(it.path)
	tree.EnsureAncestors(entryPath)
	if ex.Content != "" {
		tree.Add(docvault.Entry{
			Path:      entryPath,
			Title:     ex.Title,
			Content:   ex.Content,
			EntryType: ex.EntryType,
		})
	}

	if !src.Options.FollowLinks {
		return
	}
	for _, link := range ex.Links {
		if visited.has(link) || src.Options.ShouldSkip(link) {
			continue
		}
		queue.push(item{path: link, depth: it.depth + 1})
	}
}

// fetchPage fetches one path and runs it through the filter pipeline and
// the extractor. It touches no crawl state.
func (c *Crawler) fetchPage(ctx context.Context, fetcher docvault.Fetcher, pipeline docvault.Pipeline, src *docvault.SourceDefinition, path string) page {
	pageURL := src.PageURL(path)

	if c.RateLimiter != nil {
		if u, err := url.Parse(pageURL); err == nil {
			if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
				return page{err: err}
			}
		}
	}

	fetchCtx := ctx
	if src.Options.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, src.Options.Timeout)
		defer cancel()
	}

	html, err := fetcher.Fetch(fetchCtx, pageURL)
	if err != nil {
		return page{err: err}
	}

	html = pipeline.Process(html, docvault.FilterContext{
		URL:     pageURL,
		Path:    path,
		BaseURL: src.BaseURL,
	})

	ex, err := c.Extractor.Extract(html, src, path)
	if err != nil {
		return page{err: err}
	}
	return page{extraction: ex}
}

// sitemapSeeds lists sitemap locations under the base URL as crawl paths.
// Discovery failures only cost the extra seeds.
func (c *Crawler) sitemapSeeds(ctx context.Context, src *docvault.SourceDefinition) []string {
	if !src.Options.UseSitemap || c.Sitemaps == nil {
		return nil
	}
	urls, err := c.Sitemaps.DiscoverURLs(ctx, src.BaseURL)
	if err != nil {
		c.logger().Warn("sitemap discovery failed", "source", src.Name, "err", err)
		return nil
	}
	seeds := make([]string, 0, len(urls))
	for _, u := range urls {
		if p, ok := docvault.NormalizeLink(u, "", src.BaseURL); ok {
			seeds = append(seeds, p)
		}
	}
	return seeds
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// sleep waits for d or until ctx is done, reporting whether the full
// delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
