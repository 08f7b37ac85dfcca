package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docvault"
)

// Ensure LoggingCloner implements docvault.Cloner.
var _ docvault.Cloner = (*LoggingCloner)(nil)

// LoggingCloner wraps a Cloner with logging.
type LoggingCloner struct {
	next   docvault.Cloner
	logger *slog.Logger
}

// NewLoggingCloner creates a new LoggingCloner.
func NewLoggingCloner(next docvault.Cloner, logger *slog.Logger) *LoggingCloner {
	return &LoggingCloner{next: next, logger: logger}
}

// Clone delegates to the wrapped cloner and logs the operation.
func (c *LoggingCloner) Clone(ctx context.Context, repoURL, branch, dir string) (err error) {
	defer func(begin time.Time) {
		c.logger.Info("clone",
			"repo", repoURL,
			"branch", branch,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Clone(ctx, repoURL, branch, dir)
}
