package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/docvault"
)

// progressBuffer sizes the progress channel; events beyond it are dropped.
const progressBuffer = 64

// Run executes the ingest command.
func (c *IngestCmd) Run(deps *Dependencies) error {
	if deps.Ingester == nil {
		return docvault.Errorf(docvault.EINTERNAL, "ingester not configured")
	}

	progress := make(chan docvault.ProgressEvent, progressBuffer)
	entries := make(chan int, 1)
	go func() {
		entries <- printProgress(deps.Stdout, deps.Stderr, progress)
	}()

	doc, err := deps.Ingester.Ingest(deps.Ctx, c.Name, progress)
	close(progress)
	count := <-entries
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docvault.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Installed %q (%s %s, %d entries)\n", doc.Name, doc.DisplayName, doc.Version, count)
	return nil
}

// printProgress reports ingestion events until progress is closed and
// returns the entry count of the last event seen.
func printProgress(stdout, stderr io.Writer, progress <-chan docvault.ProgressEvent) int {
	var entries int
	for ev := range progress {
		entries = max(entries, ev.Entries)
		switch ev.Phase {
		case docvault.PhaseStarting, docvault.PhaseProcessing:
			fmt.Fprintf(stdout, "  %s\n", ev.Message)
		case docvault.PhaseScraping:
			if ev.Total > 0 {
				fmt.Fprintf(stdout, "  [%d/%d] %s\n", ev.Current, ev.Total, ev.Path)
			} else {
				fmt.Fprintf(stdout, "  [%d] %s\n", ev.Current, ev.Path)
			}
		case docvault.PhaseCompleted:
			fmt.Fprintf(stdout, "  %s\n", ev.Message)
		case docvault.PhaseFailed:
			fmt.Fprintf(stderr, "  failed: %s\n", ev.Message)
		}
	}
	return entries
}
