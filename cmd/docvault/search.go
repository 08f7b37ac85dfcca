package main

import (
	"fmt"

	"github.com/fwojciec/docvault"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	filter := docvault.SearchFilter{Limit: c.Limit}
	if c.Doc != "" {
		doc, err := findDocumentation(deps, c.Doc)
		if err != nil {
			return err
		}
		filter.DocID = &doc.ID
	}

	results, err := deps.Entries.SearchEntries(deps.Ctx, c.Query, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvault.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintf(deps.Stdout, "No results for %q.\n", c.Query)
		return nil
	}

	for i, r := range results {
		fmt.Fprintf(deps.Stdout, "%d. %s  [%s] %s\n", i+1, r.Title, r.DocName, r.Path)
		if r.Snippet != "" {
			fmt.Fprintf(deps.Stdout, "   %s\n", r.Snippet)
		}
	}
	return nil
}
