package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docvault"
)

// Ensure LoggingIngester implements docvault.Ingester.
var _ docvault.Ingester = (*LoggingIngester)(nil)

// LoggingIngester wraps an Ingester with logging.
type LoggingIngester struct {
	next   docvault.Ingester
	logger *slog.Logger
}

// NewLoggingIngester creates a new LoggingIngester.
func NewLoggingIngester(next docvault.Ingester, logger *slog.Logger) *LoggingIngester {
	return &LoggingIngester{next: next, logger: logger}
}

// Ingest delegates to the wrapped ingester and logs the operation.
func (i *LoggingIngester) Ingest(ctx context.Context, name string, progress chan<- docvault.ProgressEvent) (doc *docvault.Documentation, err error) {
	defer func(begin time.Time) {
		attrs := []any{"name", name}
		if doc != nil {
			attrs = append(attrs, "id", doc.ID, "kind", string(doc.Kind))
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		i.logger.Info("ingest", attrs...)
	}(time.Now())
	return i.next.Ingest(ctx, name, progress)
}
