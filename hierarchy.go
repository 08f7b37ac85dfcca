package docvault

import "strings"

// Hierarchy accumulates entries for one ingestion run and keeps the set
// tree-complete: every entry's parent path names another entry in the set.
// Use NewHierarchy to create one.
type Hierarchy struct {
	entries []Entry
	index   map[string]int
	leaves  map[string]bool
}

// NewHierarchy returns an empty Hierarchy.
func NewHierarchy() *Hierarchy {
	return &Hierarchy{
		index:  make(map[string]int),
		leaves: make(map[string]bool),
	}
}

// EnsureAncestors appends a section entry for every missing proper prefix
// of entryPath, shortest first. It returns the number of sections added.
func (h *Hierarchy) EnsureAncestors(entryPath string) int {
	parts := strings.Split(entryPath, "/")
	var added int
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], "/")
		if h.Has(prefix) {
			continue
		}
		h.index[prefix] = len(h.entries)
		h.entries = append(h.entries, Entry{
			Path:       prefix,
			Title:      Humanize(parts[i-1]),
			EntryType:  EntryTypeSection,
			ParentPath: ParentPath(prefix),
		})
		added++
	}
	return added
}

// Add appends a leaf entry after synthesizing its ancestors. The parent
// path is derived from the entry path. A leaf whose path matches an
// earlier synthesized section replaces that section in place. Add
// returns false, leaving the set unchanged, when a leaf with the same
// path was already added.
func (h *Hierarchy) Add(e Entry) bool {
	if h.leaves[e.Path] {
		return false
	}
	h.EnsureAncestors(e.Path)
	e.ParentPath = ParentPath(e.Path)
	h.leaves[e.Path] = true

	if i, ok := h.index[e.Path]; ok {
		h.entries[i] = e
		return true
	}
	h.index[e.Path] = len(h.entries)
	h.entries = append(h.entries, e)
	return true
}

// Has reports whether an entry with the given path exists.
func (h *Hierarchy) Has(entryPath string) bool {
	_, ok := h.index[entryPath]
	return ok
}

// Len returns the number of entries.
func (h *Hierarchy) Len() int {
	return len(h.entries)
}

// Leaves returns the number of leaf entries added with Add.
func (h *Hierarchy) Leaves() int {
	return len(h.leaves)
}

// Entries returns a copy of the entries in insertion order.
func (h *Hierarchy) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}
