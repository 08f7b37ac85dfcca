package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/docvault"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx            context.Context
	Stdout         io.Writer
	Stderr         io.Writer
	Logger         *slog.Logger
	Sources        docvault.SourceRegistry
	Documentations docvault.DocumentationService
	Entries        docvault.EntryService
	Ingester       docvault.Ingester
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	SourcesFile string `name:"sources-file" type:"path" env:"DOCVAULT_SOURCES" help:"YAML file with additional source definitions"`
	Verbose     bool   `short:"v" help:"Log fetches, clones, and extraction to stderr"`

	Sources SourcesCmd `cmd:"" help:"List documentation sources that can be installed"`
	Ingest  IngestCmd  `cmd:"" help:"Install or refresh a documentation source"`
	List    ListCmd    `cmd:"" help:"List installed documentation"`
	Tree    TreeCmd    `cmd:"" help:"Browse the entry tree of installed documentation"`
	Show    ShowCmd    `cmd:"" help:"Print an entry"`
	Search  SearchCmd  `cmd:"" help:"Full-text search across installed documentation"`
	Export  ExportCmd  `cmd:"" help:"Write installed documentation to Markdown files"`
	Delete  DeleteCmd  `cmd:"" help:"Delete installed documentation"`
}

// SourcesCmd is the "sources" subcommand.
type SourcesCmd struct{}

// IngestCmd is the "ingest" subcommand.
type IngestCmd struct {
	Name string  `arg:"" help:"Source name (see 'docvault sources')"`
	RPS  float64 `name:"rps" default:"2" help:"Requests per second per host (0 disables limiting)"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// TreeCmd is the "tree" subcommand.
type TreeCmd struct {
	Name string `arg:"" help:"Documentation name"`
	Path string `arg:"" optional:"" help:"Parent entry path (default: top level)"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Name string `arg:"" help:"Documentation name"`
	Path string `arg:"" help:"Entry path"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Search terms"`
	Doc   string `short:"d" help:"Restrict results to one documentation set"`
	Limit int    `short:"n" default:"10" help:"Maximum number of results"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Name string `arg:"" help:"Documentation name"`
	Path string `arg:"" optional:"" default:"." help:"Base path for output (default: current directory)"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	Name  string `arg:"" help:"Documentation name"`
	Force bool   `help:"Confirm deletion"`
}
