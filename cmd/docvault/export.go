package main

import (
	"fmt"

	"github.com/fwojciec/docvault"
	"github.com/fwojciec/docvault/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	doc, err := findDocumentation(deps, c.Name)
	if err != nil {
		return err
	}

	entries, err := deps.Entries.FindEntries(deps.Ctx, docvault.EntryFilter{DocID: &doc.ID})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvault.ErrorMessage(err))
		return err
	}

	store := fs.NewFileStore(c.Path, doc.Name)
	var written int
	for _, e := range entries {
		if e.Content == "" {
			continue
		}
		if err := store.Save(deps.Ctx, doc, e); err != nil {
			_ = store.Abort()
			fmt.Fprintf(deps.Stderr, "error: %s\n", docvault.ErrorMessage(err))
			return err
		}
		written++
	}
	if err := store.Commit(); err != nil {
		_ = store.Abort()
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvault.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d entries to %s\n", written, store.Dir())
	return nil
}
