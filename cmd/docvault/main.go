package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docvault"
	"github.com/fwojciec/docvault/crawl"
	"github.com/fwojciec/docvault/git"
	"github.com/fwojciec/docvault/goquery"
	"github.com/fwojciec/docvault/htmltomarkdown"
	lochttp "github.com/fwojciec/docvault/http"
	"github.com/fwojciec/docvault/ingest"
	"github.com/fwojciec/docvault/readability"
	"github.com/fwojciec/docvault/rod"
	locslog "github.com/fwojciec/docvault/slog"
	"github.com/fwojciec/docvault/sources"
	"github.com/fwojciec/docvault/sqlite"
	"github.com/fwojciec/docvault/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Ingester overrides the crawler and repository pipeline wired for
	// the ingest command. Used for end-to-end testing.
	Ingester docvault.Ingester

	// Services wired by Run.
	DocumentationService docvault.DocumentationService
	EntryService         docvault.EntryService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docvault"),
		kong.Description("Install documentation sites and repositories for offline search"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docvault --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose)

	registry := sources.Builtin()
	if cli.SourcesFile != "" {
		extra, err := yaml.LoadSources(cli.SourcesFile)
		if err != nil {
			fmt.Fprintf(stderr, "error: %s\n", docvault.ErrorMessage(err))
			return err
		}
		registry = registry.Merge(extra)
	}
	deps.Sources = registry

	// Listing sources needs no database.
	if cmd == "sources" {
		return kongCtx.Run(deps)
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set DOCVAULT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.DocumentationService = sqlite.NewDocumentationService(m.DB)
	m.EntryService = sqlite.NewEntryService(m.DB)
	deps.Documentations = m.DocumentationService
	deps.Entries = m.EntryService

	if cmd == "ingest" {
		ingester := m.Ingester
		if ingester == nil {
			ingester = m.newIngester(deps, cli.Ingest.RPS)
		}
		deps.Ingester = locslog.NewLoggingIngester(ingester, deps.Logger)
	}

	return kongCtx.Run(deps)
}

// newIngester wires the crawler and the repository walker behind the
// ingest service. Browsers are launched per crawl, and only for sources
// that need rendering.
func (m *Main) newIngester(deps *Dependencies, rps float64) docvault.Ingester {
	logger := deps.Logger
	conv := htmltomarkdown.NewConverter()
	crawler := &crawl.Crawler{
		NewFetcher: newFetcher(logger),
		Extractor: locslog.NewLoggingExtractor(
			readability.NewExtractor(goquery.NewExtractor(conv), conv),
			goquery.NewDetector(),
			logger,
		),
		RateLimiter: crawl.NewDomainLimiter(rps),
		Sitemaps:    locslog.NewLoggingSitemapService(lochttp.NewSitemapService(nil), logger),
		Logger:      logger,
	}
	walker := &git.Walker{
		Cloner: locslog.NewLoggingCloner(git.NewCommandCloner(), logger),
		Logger: logger,
	}
	return &ingest.Service{
		Sources:        deps.Sources,
		Crawler:        crawler,
		Walker:         walker,
		Documentations: m.DocumentationService,
		Entries:        m.EntryService,
		Logger:         logger,
	}
}

// newFetcher returns a fetcher factory honouring each source's timeout,
// user agent, and render setting.
func newFetcher(logger *slog.Logger) crawl.FetcherFunc {
	return func(src *docvault.SourceDefinition) (docvault.Fetcher, error) {
		opts := src.Options
		var fetcher docvault.Fetcher
		if src.Render {
			var ropts []rod.Option
			if opts.Timeout > 0 {
				ropts = append(ropts, rod.WithFetchTimeout(opts.Timeout))
			}
			if opts.UserAgent != "" {
				ropts = append(ropts, rod.WithUserAgent(opts.UserAgent))
			}
			f, err := rod.NewFetcher(ropts...)
			if err != nil {
				return nil, docvault.Errorf(docvault.ETRANSPORT, "failed to start browser (Chrome or Chromium must be installed): %v", err)
			}
			fetcher = f
		} else {
			var hopts []lochttp.Option
			if opts.Timeout > 0 {
				hopts = append(hopts, lochttp.WithTimeout(opts.Timeout))
			}
			if opts.UserAgent != "" {
				hopts = append(hopts, lochttp.WithUserAgent(opts.UserAgent))
			}
			fetcher = lochttp.NewFetcher(hopts...)
		}
		return locslog.NewLoggingFetcher(fetcher, logger), nil
	}
}

// newLogger logs warnings to w, or everything down to debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("DOCVAULT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docvault.db"
	}
	dir := filepath.Join(home, ".docvault")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docvault.db")
}
