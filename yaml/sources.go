// Package yaml loads additional documentation sources from YAML files.
package yaml

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"time"

	"github.com/fwojciec/docvault"
	"github.com/fwojciec/docvault/sources"
	yaml "gopkg.in/yaml.v3"
)

// File is the document layout read by LoadSources.
type File struct {
	Sources      []Source `yaml:"sources"`
	Repositories []Repo   `yaml:"repositories"`
}

// Source is a web source. Unset traversal fields take the defaults.
type Source struct {
	Name        string    `yaml:"name"`
	DisplayName string    `yaml:"displayName"`
	Version     string    `yaml:"version"`
	BaseURL     string    `yaml:"baseUrl"`
	Description string    `yaml:"description"`
	Attribution string    `yaml:"attribution"`
	Render      bool      `yaml:"render"`
	Options     Options   `yaml:"options"`
	Selectors   Selectors `yaml:"selectors"`
}

// Options mirrors docvault.TraversalOptions with optional fields.
type Options struct {
	SeedPaths    []string       `yaml:"seedPaths"`
	SkipPatterns []string       `yaml:"skipPatterns"`
	SkipPaths    []string       `yaml:"skipPaths"`
	OnlyPatterns []string       `yaml:"onlyPatterns"`
	MaxDepth     *int           `yaml:"maxDepth"`
	MaxPages     *int           `yaml:"maxPages"`
	FollowLinks  *bool          `yaml:"followLinks"`
	Concurrency  *int           `yaml:"concurrency"`
	Delay        *time.Duration `yaml:"delay"`
	Timeout      *time.Duration `yaml:"timeout"`
	UserAgent    string         `yaml:"userAgent"`
	UseSitemap   bool           `yaml:"useSitemap"`
}

// Selectors mirrors docvault.ContentSelectors.
type Selectors struct {
	Title         string   `yaml:"title"`
	Content       string   `yaml:"content"`
	Links         string   `yaml:"links"`
	EntryTypeAttr string   `yaml:"entryTypeAttr"`
	Remove        []string `yaml:"remove"`
}

// Repo is a repository source.
type Repo struct {
	Name              string   `yaml:"name"`
	DisplayName       string   `yaml:"displayName"`
	Version           string   `yaml:"version"`
	BaseURL           string   `yaml:"baseUrl"`
	AvailableVersions []string `yaml:"availableVersions"`
	IgnoreFiles       []string `yaml:"ignoreFiles"`
	IgnoreDirs        []string `yaml:"ignoreDirs"`
}

// LoadSources reads the YAML file at path and returns a registry of the
// sources it defines.
func LoadSources(path string) (*sources.Registry, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, docvault.Errorf(docvault.ENOTFOUND, "sources file %q not found", path)
	} else if err != nil {
		return nil, docvault.Errorf(docvault.EIO, "open sources file %q: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	reg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Decode parses a sources document from r. Unknown keys and invalid
// regular expressions are rejected.
func Decode(r io.Reader) (*sources.Registry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, docvault.Errorf(docvault.EINVALID, "parse sources: %v", err)
	}

	defs := make([]*docvault.SourceDefinition, 0, len(file.Sources))
	for _, s := range file.Sources {
		def, err := s.definition()
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}

	repos := make([]*docvault.RepoConfig, 0, len(file.Repositories))
	for _, r := range file.Repositories {
		repos = append(repos, &docvault.RepoConfig{
			Name:              r.Name,
			DisplayName:       r.DisplayName,
			Version:           r.Version,
			BaseURL:           r.BaseURL,
			AvailableVersions: r.AvailableVersions,
			IgnoreFiles:       r.IgnoreFiles,
			IgnoreDirs:        r.IgnoreDirs,
		})
	}

	return sources.NewRegistry(defs, repos)
}

func (s Source) definition() (*docvault.SourceDefinition, error) {
	opts := docvault.DefaultTraversalOptions()
	o := s.Options

	if len(o.SeedPaths) > 0 {
		opts.SeedPaths = o.SeedPaths
	}
	var err error
	if opts.SkipPatterns, err = compile(s.Name, o.SkipPatterns); err != nil {
		return nil, err
	}
	if len(o.OnlyPatterns) > 0 {
		if opts.OnlyPatterns, err = compile(s.Name, o.OnlyPatterns); err != nil {
			return nil, err
		}
	}
	if len(o.SkipPaths) > 0 {
		opts.SkipPaths = make(map[string]struct{}, len(o.SkipPaths))
		for _, p := range o.SkipPaths {
			opts.SkipPaths[p] = struct{}{}
		}
	}
	if o.MaxDepth != nil {
		opts.MaxDepth = *o.MaxDepth
	}
	if o.MaxPages != nil {
		opts.MaxPages = *o.MaxPages
	}
	if o.FollowLinks != nil {
		opts.FollowLinks = *o.FollowLinks
	}
	if o.Concurrency != nil {
		opts.Concurrency = *o.Concurrency
	}
	if o.Delay != nil {
		opts.Delay = *o.Delay
	}
	if o.Timeout != nil {
		opts.Timeout = *o.Timeout
	}
	if o.UserAgent != "" {
		opts.UserAgent = o.UserAgent
	}
	opts.UseSitemap = o.UseSitemap

	if opts.MaxDepth < 0 || opts.MaxPages < 0 || opts.Concurrency < 0 {
		return nil, docvault.Errorf(docvault.EINVALID, "source %q: limits must not be negative", s.Name)
	}

	return &docvault.SourceDefinition{
		Name:        s.Name,
		DisplayName: s.DisplayName,
		Version:     s.Version,
		BaseURL:     s.BaseURL,
		Description: s.Description,
		Attribution: s.Attribution,
		Render:      s.Render,
		Options:     opts,
		Selectors: docvault.ContentSelectors{
			Title:         s.Selectors.Title,
			Content:       s.Selectors.Content,
			Links:         s.Selectors.Links,
			EntryTypeAttr: s.Selectors.EntryTypeAttr,
			Remove:        s.Selectors.Remove,
		},
	}, nil
}

func compile(name string, exprs []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, docvault.Errorf(docvault.EINVALID, "source %q: invalid pattern %q: %v", name, expr, err)
		}
		out = append(out, re)
	}
	return out, nil
}
