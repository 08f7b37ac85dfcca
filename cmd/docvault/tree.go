package main

import (
	"fmt"

	"github.com/fwojciec/docvault"
)

// Run executes the tree command.
func (c *TreeCmd) Run(deps *Dependencies) error {
	doc, err := findDocumentation(deps, c.Name)
	if err != nil {
		return err
	}

	parent := ""
	if c.Path != "" {
		parent = docvault.EntryPath(c.Path)
	}

	nodes, err := deps.Entries.TreeLevel(deps.Ctx, doc.ID, parent)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvault.ErrorMessage(err))
		return err
	}

	if len(nodes) == 0 {
		fmt.Fprintf(deps.Stdout, "No entries under %q.\n", parent)
		return nil
	}

	for _, n := range nodes {
		marker := " "
		if n.HasChildren {
			marker = "+"
		}
		fmt.Fprintf(deps.Stdout, "%s %s\n    %s\n", marker, n.Title, n.Path)
	}
	return nil
}
