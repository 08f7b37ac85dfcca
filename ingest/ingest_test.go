package ingest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/docvault"
	"github.com/fwojciec/docvault/ingest"
	"github.com/fwojciec/docvault/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	webDef = &docvault.SourceDefinition{
		Name:        "rust",
		DisplayName: "Rust",
		Version:     "1.84.0",
		BaseURL:     "https://doc.rust-lang.org/std/",
		Attribution: "© The Rust Project Developers.",
	}
	repoCfg = &docvault.RepoConfig{
		Name:        "hono",
		DisplayName: "Hono",
		Version:     "main",
		BaseURL:     "https://github.com/honojs/website/tree/main/docs",
	}
	sampleEntries = []docvault.Entry{
		{Path: "vec", Title: "Vec", EntryType: docvault.EntryTypeSection},
		{Path: "vec/struct.Vec", Title: "Struct Vec", Content: "A growable array.", ParentPath: "vec"},
	}
)

func registry() *mock.SourceRegistry {
	return &mock.SourceRegistry{
		DefinitionFn: func(name string) (*docvault.SourceDefinition, error) {
			if name == webDef.Name {
				cp := *webDef
				return &cp, nil
			}
			return nil, docvault.Errorf(docvault.ENOTFOUND, "unknown source %q", name)
		},
		RepositoryFn: func(name string) (*docvault.RepoConfig, error) {
			if name == repoCfg.Name {
				cp := *repoCfg
				return &cp, nil
			}
			return nil, docvault.Errorf(docvault.ENOTFOUND, "unknown repository %q", name)
		},
		AvailableFn: func() []docvault.AvailableSource {
			return []docvault.AvailableSource{{Name: "rust"}, {Name: "hono"}}
		},
	}
}

// store is an in-memory documentation store backing the mocks.
type store struct {
	docs     map[string]*docvault.Documentation
	entries  map[string][]docvault.Entry
	replaced int
}

func newStore() *store {
	return &store{
		docs:    make(map[string]*docvault.Documentation),
		entries: make(map[string][]docvault.Entry),
	}
}

func (s *store) documentations() *mock.DocumentationService {
	return &mock.DocumentationService{
		CreateDocumentationFn: func(_ context.Context, doc *docvault.Documentation) error {
			doc.ID = "doc-" + doc.Name
			s.docs[doc.ID] = doc
			return nil
		},
		FindDocumentationsFn: func(_ context.Context, filter docvault.DocumentationFilter) ([]*docvault.Documentation, error) {
			var out []*docvault.Documentation
			for _, d := range s.docs {
				if filter.Name == nil || d.Name == *filter.Name {
					out = append(out, d)
				}
			}
			return out, nil
		},
		UpdateDocumentationFn: func(_ context.Context, id string, upd docvault.DocumentationUpdate) (*docvault.Documentation, error) {
			d, ok := s.docs[id]
			if !ok {
				return nil, docvault.Errorf(docvault.ENOTFOUND, "documentation not found")
			}
			d.Version = *upd.Version
			d.Attribution = *upd.Attribution
			return d, nil
		},
		DeleteDocumentationFn: func(_ context.Context, id string) error {
			delete(s.docs, id)
			delete(s.entries, id)
			return nil
		},
	}
}

func (s *store) entryService() *mock.EntryService {
	return &mock.EntryService{
		ReplaceEntriesFn: func(_ context.Context, docID string, entries []docvault.Entry) error {
			s.replaced++
			s.entries[docID] = entries
			return nil
		},
	}
}

func newService(st *store) *ingest.Service {
	return &ingest.Service{
		Sources: registry(),
		Crawler: &mock.Crawler{
			CrawlFn: func(context.Context, *docvault.SourceDefinition, chan<- docvault.ProgressEvent) ([]docvault.Entry, error) {
				return sampleEntries, nil
			},
		},
		Walker: &mock.RepoWalker{
			WalkFn: func(context.Context, *docvault.RepoConfig, chan<- docvault.ProgressEvent) ([]docvault.Entry, error) {
				return sampleEntries, nil
			},
		},
		Documentations: st.documentations(),
		Entries:        st.entryService(),
	}
}

func TestService_Ingest(t *testing.T) {
	t.Parallel()

	t.Run("crawls web sources and stores their entries", func(t *testing.T) {
		t.Parallel()

		st := newStore()
		svc := newService(st)
		var crawled *docvault.SourceDefinition
		svc.Crawler = &mock.Crawler{
			CrawlFn: func(_ context.Context, src *docvault.SourceDefinition, _ chan<- docvault.ProgressEvent) ([]docvault.Entry, error) {
				crawled = src
				return sampleEntries, nil
			},
		}

		doc, err := svc.Ingest(context.Background(), "rust", nil)

		require.NoError(t, err)
		require.NotNil(t, crawled)
		assert.Equal(t, "https://doc.rust-lang.org/std/", crawled.BaseURL)
		assert.Equal(t, "doc-rust", doc.ID)
		assert.Equal(t, docvault.SourceKindWeb, doc.Kind)
		assert.Equal(t, "© The Rust Project Developers.", doc.Attribution)
		assert.Equal(t, sampleEntries, st.entries["doc-rust"])
	})

	t.Run("walks repositories", func(t *testing.T) {
		t.Parallel()

		st := newStore()
		svc := newService(st)
		var walked *docvault.RepoConfig
		svc.Walker = &mock.RepoWalker{
			WalkFn: func(_ context.Context, cfg *docvault.RepoConfig, _ chan<- docvault.ProgressEvent) ([]docvault.Entry, error) {
				walked = cfg
				return sampleEntries, nil
			},
		}

		doc, err := svc.Ingest(context.Background(), "hono", nil)

		require.NoError(t, err)
		require.NotNil(t, walked)
		assert.Equal(t, "hono", walked.Name)
		assert.Equal(t, docvault.SourceKindRepo, doc.Kind)
		assert.Equal(t, "https://github.com/honojs/website/tree/main/docs", doc.SourceURL)
	})

	t.Run("prefers a repository over a web source of the same name", func(t *testing.T) {
		t.Parallel()

		st := newStore()
		svc := newService(st)
		svc.Sources = &mock.SourceRegistry{
			RepositoryFn: func(string) (*docvault.RepoConfig, error) {
				cp := *repoCfg
				return &cp, nil
			},
			DefinitionFn: func(string) (*docvault.SourceDefinition, error) {
				t.Fatal("web definition must not be consulted")
				return nil, nil
			},
		}

		doc, err := svc.Ingest(context.Background(), "hono", nil)

		require.NoError(t, err)
		assert.Equal(t, docvault.SourceKindRepo, doc.Kind)
	})

	t.Run("passes the progress channel through", func(t *testing.T) {
		t.Parallel()

		svc := newService(newStore())
		progress := make(chan docvault.ProgressEvent, 1)
		svc.Crawler = &mock.Crawler{
			CrawlFn: func(_ context.Context, _ *docvault.SourceDefinition, ch chan<- docvault.ProgressEvent) ([]docvault.Entry, error) {
				docvault.SendProgress(ch, docvault.ProgressEvent{Phase: docvault.PhaseCompleted})
				return sampleEntries, nil
			},
		}

		_, err := svc.Ingest(context.Background(), "rust", progress)

		require.NoError(t, err)
		assert.Equal(t, docvault.PhaseCompleted, (<-progress).Phase)
	})

	t.Run("replaces entries of an installed documentation set", func(t *testing.T) {
		t.Parallel()

		st := newStore()
		st.docs["doc-rust"] = &docvault.Documentation{ID: "doc-rust", Name: "rust", Version: "1.80.0"}
		st.entries["doc-rust"] = []docvault.Entry{{Path: "old", Title: "Old"}}
		svc := newService(st)

		doc, err := svc.Ingest(context.Background(), "rust", nil)

		require.NoError(t, err)
		assert.Equal(t, "doc-rust", doc.ID)
		assert.Equal(t, "1.84.0", doc.Version)
		assert.Equal(t, "© The Rust Project Developers.", doc.Attribution)
		assert.Len(t, st.docs, 1)
		assert.Equal(t, sampleEntries, st.entries["doc-rust"])
	})

	t.Run("returns not found for unknown sources", func(t *testing.T) {
		t.Parallel()

		svc := newService(newStore())

		_, err := svc.Ingest(context.Background(), "cobol", nil)

		require.Error(t, err)
		assert.Equal(t, docvault.ENOTFOUND, docvault.ErrorCode(err))
		assert.Equal(t, `unknown documentation source "cobol"`, docvault.ErrorMessage(err))
	})

	t.Run("stores nothing when the crawl fails", func(t *testing.T) {
		t.Parallel()

		st := newStore()
		svc := newService(st)
		svc.Crawler = &mock.Crawler{
			CrawlFn: func(context.Context, *docvault.SourceDefinition, chan<- docvault.ProgressEvent) ([]docvault.Entry, error) {
				return sampleEntries[:1], context.Canceled
			},
		}

		_, err := svc.Ingest(context.Background(), "rust", nil)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, st.docs)
		assert.Zero(t, st.replaced)
	})

	t.Run("propagates clone errors", func(t *testing.T) {
		t.Parallel()

		svc := newService(newStore())
		svc.Walker = &mock.RepoWalker{
			WalkFn: func(context.Context, *docvault.RepoConfig, chan<- docvault.ProgressEvent) ([]docvault.Entry, error) {
				return nil, docvault.Errorf(docvault.ECLONE, "clone failed")
			},
		}

		_, err := svc.Ingest(context.Background(), "hono", nil)

		assert.Equal(t, docvault.ECLONE, docvault.ErrorCode(err))
	})

	t.Run("refuses to store an empty result", func(t *testing.T) {
		t.Parallel()

		st := newStore()
		svc := newService(st)
		svc.Crawler = &mock.Crawler{
			CrawlFn: func(context.Context, *docvault.SourceDefinition, chan<- docvault.ProgressEvent) ([]docvault.Entry, error) {
				return nil, nil
			},
		}

		_, err := svc.Ingest(context.Background(), "rust", nil)

		assert.Equal(t, docvault.ENOTFOUND, docvault.ErrorCode(err))
		assert.Empty(t, st.docs)
	})

	t.Run("removes a new documentation row when storing entries fails", func(t *testing.T) {
		t.Parallel()

		st := newStore()
		svc := newService(st)
		svc.Entries = &mock.EntryService{
			ReplaceEntriesFn: func(context.Context, string, []docvault.Entry) error {
				return errors.New("disk full")
			},
		}

		_, err := svc.Ingest(context.Background(), "rust", nil)

		require.Error(t, err)
		assert.Empty(t, st.docs)
	})

	t.Run("keeps an installed set unchanged when replacing its entries fails", func(t *testing.T) {
		t.Parallel()

		st := newStore()
		st.docs["doc-rust"] = &docvault.Documentation{ID: "doc-rust", Name: "rust", Version: "1.80.0"}
		old := []docvault.Entry{{Path: "old", Title: "Old"}}
		st.entries["doc-rust"] = old
		svc := newService(st)
		svc.Entries = &mock.EntryService{
			ReplaceEntriesFn: func(context.Context, string, []docvault.Entry) error {
				return errors.New("disk full")
			},
		}

		_, err := svc.Ingest(context.Background(), "rust", nil)

		require.Error(t, err)
		assert.Equal(t, "1.80.0", st.docs["doc-rust"].Version)
		assert.Empty(t, st.docs["doc-rust"].Attribution)
		assert.Equal(t, old, st.entries["doc-rust"])
	})

	t.Run("returns registry errors other than not found", func(t *testing.T) {
		t.Parallel()

		svc := newService(newStore())
		svc.Sources = &mock.SourceRegistry{
			RepositoryFn: func(string) (*docvault.RepoConfig, error) {
				return nil, docvault.Errorf(docvault.EINVALID, "broken registry")
			},
		}

		_, err := svc.Ingest(context.Background(), "rust", nil)

		assert.Equal(t, docvault.EINVALID, docvault.ErrorCode(err))
	})
}

func TestService_Available(t *testing.T) {
	t.Parallel()

	svc := newService(newStore())

	assert.Len(t, svc.Available(), 2)
}
