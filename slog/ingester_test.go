package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/docvault"
	"github.com/fwojciec/docvault/mock"
	locslog "github.com/fwojciec/docvault/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingIngester_Ingest(t *testing.T) {
	t.Parallel()

	t.Run("logs the installed documentation", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Ingester{
			IngestFn: func(ctx context.Context, name string, progress chan<- docvault.ProgressEvent) (*docvault.Documentation, error) {
				return &docvault.Documentation{ID: "doc-1", Name: name, Kind: docvault.SourceKindRepo}, nil
			},
		}

		ing := locslog.NewLoggingIngester(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		doc, err := ing.Ingest(context.Background(), "hono", nil)

		require.NoError(t, err)
		assert.Equal(t, "hono", doc.Name)
		output := buf.String()
		assert.Contains(t, output, "msg=ingest")
		assert.Contains(t, output, "name=hono")
		assert.Contains(t, output, "id=doc-1")
		assert.Contains(t, output, "kind=repo")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Ingester{
			IngestFn: func(ctx context.Context, name string, progress chan<- docvault.ProgressEvent) (*docvault.Documentation, error) {
				return nil, docvault.Errorf(docvault.ENOTFOUND, "unknown documentation source %q", name)
			},
		}

		ing := locslog.NewLoggingIngester(inner, slog.New(slog.NewTextHandler(&buf, nil)))
		_, err := ing.Ingest(context.Background(), "nope", nil)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "name=nope")
		assert.NotContains(t, output, "id=")
		assert.Contains(t, output, "err=")
	})
}
