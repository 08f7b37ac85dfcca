package mock

import "github.com/fwojciec/docvault"

var _ docvault.Converter = (*Converter)(nil)

// Converter is a mock implementation of docvault.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

var _ docvault.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docvault.Extractor.
type Extractor struct {
	ExtractFn func(html string, src *docvault.SourceDefinition, path string) (*docvault.Extraction, error)
}

func (e *Extractor) Extract(html string, src *docvault.SourceDefinition, path string) (*docvault.Extraction, error) {
	return e.ExtractFn(html, src, path)
}

var _ docvault.FrameworkDetector = (*FrameworkDetector)(nil)

// FrameworkDetector is a mock implementation of docvault.FrameworkDetector.
type FrameworkDetector struct {
	DetectFn func(html string) docvault.Framework
}

func (d *FrameworkDetector) Detect(html string) docvault.Framework {
	return d.DetectFn(html)
}
