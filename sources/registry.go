// Package sources holds the built-in documentation sources and the
// in-memory registry that resolves them by name.
package sources

import (
	"github.com/fwojciec/docvault"
	"github.com/fwojciec/docvault/git"
)

var _ docvault.SourceRegistry = (*Registry)(nil)

// Registry implements docvault.SourceRegistry over a fixed set of
// definitions. It is immutable after construction and safe for
// concurrent use.
type Registry struct {
	defs      map[string]*docvault.SourceDefinition
	repos     map[string]*docvault.RepoConfig
	defOrder  []string
	repoOrder []string
}

// NewRegistry builds a registry from web definitions and repository
// configs. Every item must validate, and names must be unique within
// each kind.
func NewRegistry(defs []*docvault.SourceDefinition, repos []*docvault.RepoConfig) (*Registry, error) {
	r := &Registry{
		defs:  make(map[string]*docvault.SourceDefinition, len(defs)),
		repos: make(map[string]*docvault.RepoConfig, len(repos)),
	}
	for _, d := range defs {
		if d == nil {
			return nil, docvault.Errorf(docvault.EINVALID, "nil source definition")
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, ok := r.defs[d.Name]; ok {
			return nil, docvault.Errorf(docvault.EINVALID, "duplicate source %q", d.Name)
		}
		r.defs[d.Name] = d
		r.defOrder = append(r.defOrder, d.Name)
	}
	for _, c := range repos {
		if c == nil {
			return nil, docvault.Errorf(docvault.EINVALID, "nil repository config")
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, ok := r.repos[c.Name]; ok {
			return nil, docvault.Errorf(docvault.EINVALID, "duplicate repository %q", c.Name)
		}
		r.repos[c.Name] = c
		r.repoOrder = append(r.repoOrder, c.Name)
	}
	return r, nil
}

// Merge returns a registry holding the definitions of r with those of
// other added. A definition in other replaces one of the same name and
// kind in r, keeping its position.
func (r *Registry) Merge(other *Registry) *Registry {
	out := &Registry{
		defs:      make(map[string]*docvault.SourceDefinition, len(r.defs)+len(other.defs)),
		repos:     make(map[string]*docvault.RepoConfig, len(r.repos)+len(other.repos)),
		defOrder:  append([]string(nil), r.defOrder...),
		repoOrder: append([]string(nil), r.repoOrder...),
	}
	for name, d := range r.defs {
		out.defs[name] = d
	}
	for name, c := range r.repos {
		out.repos[name] = c
	}
	for _, name := range other.defOrder {
		if _, ok := out.defs[name]; !ok {
			out.defOrder = append(out.defOrder, name)
		}
		out.defs[name] = other.defs[name]
	}
	for _, name := range other.repoOrder {
		if _, ok := out.repos[name]; !ok {
			out.repoOrder = append(out.repoOrder, name)
		}
		out.repos[name] = other.repos[name]
	}
	return out
}

// Definition returns a copy of the web source with the given name.
func (r *Registry) Definition(name string) (*docvault.SourceDefinition, error) {
	d, ok := r.defs[name]
	if !ok {
		return nil, docvault.Errorf(docvault.ENOTFOUND, "unknown documentation source %q", name)
	}
	cp := *d
	return &cp, nil
}

// Repository returns a copy of the repository source with the given name.
func (r *Registry) Repository(name string) (*docvault.RepoConfig, error) {
	c, ok := r.repos[name]
	if !ok {
		return nil, docvault.Errorf(docvault.ENOTFOUND, "unknown documentation repository %q", name)
	}
	cp := *c
	return &cp, nil
}

// Available lists web sources, then repositories, in registration order.
func (r *Registry) Available() []docvault.AvailableSource {
	out := make([]docvault.AvailableSource, 0, len(r.defOrder)+len(r.repoOrder))
	for _, name := range r.defOrder {
		d := r.defs[name]
		out = append(out, docvault.AvailableSource{
			Name:        d.Name,
			DisplayName: d.DisplayName,
			Version:     d.Version,
			Description: d.Description,
			SourceURL:   d.BaseURL,
			Kind:        docvault.SourceKindWeb,
		})
	}
	for _, name := range r.repoOrder {
		c := r.repos[name]
		out = append(out, docvault.AvailableSource{
			Name:        c.Name,
			DisplayName: c.DisplayName,
			Version:     c.Version,
			Description: "Official documentation " + repoSlug(c.BaseURL),
			SourceURL:   c.BaseURL,
			Kind:        docvault.SourceKindRepo,
		})
	}
	return out
}

// repoSlug extracts owner/repo from a GitHub tree URL.
func repoSlug(baseURL string) string {
	info, err := git.ParseRepoURL(baseURL)
	if err != nil {
		return baseURL
	}
	return info.Slug()
}
