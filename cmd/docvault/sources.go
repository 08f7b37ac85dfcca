package main

import "fmt"

// Run executes the sources command.
func (c *SourcesCmd) Run(deps *Dependencies) error {
	available := deps.Sources.Available()
	if len(available) == 0 {
		fmt.Fprintln(deps.Stdout, "No sources registered.")
		return nil
	}

	for _, s := range available {
		fmt.Fprintf(deps.Stdout, "%-20s %-4s  %s %s\n", s.Name, s.Kind, s.DisplayName, s.Version)
		fmt.Fprintf(deps.Stdout, "%-20s %-4s  %s\n", "", "", s.SourceURL)
	}
	return nil
}
