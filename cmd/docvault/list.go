package main

import (
	"fmt"

	"github.com/fwojciec/docvault"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	docs, err := deps.Documentations.FindDocumentations(deps.Ctx, docvault.DocumentationFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvault.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documentation installed. Use 'docvault ingest' to install some.")
		return nil
	}

	for _, d := range docs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s %s  %s\n", d.Name, d.Kind, d.DisplayName, d.Version, d.UpdatedAt.Format("2006-01-02"))
	}
	return nil
}

// findDocumentation resolves an installed documentation set by name,
// reporting a missing one on stderr.
func findDocumentation(deps *Dependencies, name string) (*docvault.Documentation, error) {
	docs, err := deps.Documentations.FindDocumentations(deps.Ctx, docvault.DocumentationFilter{Name: &name})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvault.ErrorMessage(err))
		return nil, err
	}
	if len(docs) == 0 {
		fmt.Fprintf(deps.Stderr, "error: documentation %q not installed. Use 'docvault list' to see installed documentation.\n", name)
		return nil, docvault.Errorf(docvault.ENOTFOUND, "documentation %q not installed", name)
	}
	return docs[0], nil
}
