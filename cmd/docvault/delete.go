package main

import (
	"fmt"

	"github.com/fwojciec/docvault"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return docvault.Errorf(docvault.EINVALID, "use --force to confirm deletion")
	}

	doc, err := findDocumentation(deps, c.Name)
	if err != nil {
		return err
	}

	if err := deps.Documentations.DeleteDocumentation(deps.Ctx, doc.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvault.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %q\n", doc.Name)
	return nil
}
