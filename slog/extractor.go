package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/docvault"
)

// Ensure LoggingExtractor implements docvault.Extractor.
var _ docvault.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging. When a detector
// is set, the detected documentation framework is logged with each page.
type LoggingExtractor struct {
	next     docvault.Extractor
	detector docvault.FrameworkDetector
	logger   *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor. detector may be nil.
func NewLoggingExtractor(next docvault.Extractor, detector docvault.FrameworkDetector, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, detector: detector, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
func (e *LoggingExtractor) Extract(html string, src *docvault.SourceDefinition, path string) (ex *docvault.Extraction, err error) {
	defer func(begin time.Time) {
		attrs := []any{"path", path}
		if src != nil {
			attrs = append(attrs, "source", src.Name)
		}
		if e.detector != nil && src != nil && src.Selectors.Content == "" {
			attrs = append(attrs, "framework", string(e.detector.Detect(html)))
		}
		if ex != nil {
			attrs = append(attrs, "title", ex.Title, "links", len(ex.Links), "bytes", len(ex.Content))
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		e.logger.Debug("extract", attrs...)
	}(time.Now())
	return e.next.Extract(html, src, path)
}
