// Package bloom provides a probabilistic membership filter for crawl paths.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter answers "definitely not seen" cheaply. A positive answer may be
// a false positive and must be confirmed against an exact set.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a Filter sized for n expected keys with the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add records key.
func (f *Filter) Add(key string) {
	f.f.AddString(key)
}

// Test reports whether key may have been added.
func (f *Filter) Test(key string) bool {
	return f.f.TestString(key)
}

// TestAndAdd reports whether key may have been added, then adds it.
func (f *Filter) TestAndAdd(key string) bool {
	return f.f.TestAndAddString(key)
}

// EstimatedCount returns the approximate number of distinct keys added.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
