package main

import (
	"fmt"

	"github.com/fwojciec/docvault"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	doc, err := findDocumentation(deps, c.Name)
	if err != nil {
		return err
	}

	entry, err := deps.Entries.FindEntryByPath(deps.Ctx, doc.ID, docvault.EntryPath(c.Path))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvault.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "# %s\n\n", entry.Title)
	if entry.Content != "" {
		fmt.Fprintln(deps.Stdout, entry.Content)
		return nil
	}

	// Sections without content list their children instead.
	nodes, err := deps.Entries.TreeLevel(deps.Ctx, doc.ID, entry.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvault.ErrorMessage(err))
		return err
	}
	for _, n := range nodes {
		fmt.Fprintf(deps.Stdout, "- %s (%s)\n", n.Title, n.Path)
	}
	return nil
}
