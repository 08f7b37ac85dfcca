package crawl

import "github.com/fwojciec/docvault/bloom"

// Visited-set sizing for the Bloom front.
const (
	visitedExpected  = 10000
	visitedFalsePosR = 0.01
)

// item is one frontier entry: a crawl-relative path and its link distance
// from a seed.
type item struct {
	path  string
	depth int
}

// frontier is the FIFO queue of paths awaiting a visit. It is owned by
// the crawl driver and is not safe for concurrent use.
type frontier struct {
	queue []item
	head  int
}

func (f *frontier) push(it item) {
	f.queue = append(f.queue, it)
}

func (f *frontier) pop() (item, bool) {
	if f.head >= len(f.queue) {
		return item{}, false
	}
	it := f.queue[f.head]
	f.queue[f.head] = item{}
	f.head++
	// Reclaim the consumed prefix once it dominates the backing array.
	if f.head > 1024 && f.head*2 > len(f.queue) {
		f.queue = append([]item(nil), f.queue[f.head:]...)
		f.head = 0
	}
	return it, true
}

func (f *frontier) len() int {
	return len(f.queue) - f.head
}

// visitedSet is an exact set of visited paths fronted by a Bloom filter,
// so most lookups of never-seen links skip the map.
type visitedSet struct {
	front *bloom.Filter
	exact map[string]struct{}
}

func newVisitedSet() *visitedSet {
	return &visitedSet{
		front: bloom.NewFilter(visitedExpected, visitedFalsePosR),
		exact: make(map[string]struct{}),
	}
}

func (v *visitedSet) has(path string) bool {
	if !v.front.Test(path) {
		return false
	}
	_, ok := v.exact[path]
	return ok
}

func (v *visitedSet) add(path string) {
	v.front.Add(path)
	v.exact[path] = struct{}{}
}

func (v *visitedSet) len() int {
	return len(v.exact)
}
