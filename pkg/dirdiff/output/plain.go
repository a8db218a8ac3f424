package output

import (
	"fmt"
	"io"

	"github.com/zstabile15/dir-diff/pkg/dirdiff/types"
)

// PlainFormatter renders a human-readable text summary.
type PlainFormatter struct {
	// Verbose also lists every classified path, not just the counts.
	Verbose bool
}

// Format writes the summary as plain text.
func (f *PlainFormatter) Format(w io.Writer, s *Summary) error {
	fmt.Fprintf(w, "Scanned %s: %d files, %s\n", s.Source, s.Files, types.FormatSize(s.TotalSize))

	if s.Compared {
		fmt.Fprintf(w, "\nDiff results:\n")
		fmt.Fprintf(w, "  Added:   %d\n", len(s.Diff.Added))
		fmt.Fprintf(w, "  Removed: %d\n", len(s.Diff.Removed))
		fmt.Fprintf(w, "  Changed: %d\n", len(s.Diff.Changed))

		if f.Verbose {
			listPaths(w, "added", s.Diff.Added)
			listPaths(w, "removed", s.Diff.Removed)
			listPaths(w, "changed", s.Diff.Changed)
		}
	}

	if s.OutputDir != "" {
		fmt.Fprintf(w, "\nCopied %d files to %s\n", s.Copied, s.OutputDir)
	}
	if s.ManifestPath != "" {
		fmt.Fprintf(w, "Manifest saved to %s\n", s.ManifestPath)
	}

	for _, warn := range s.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}

	return nil
}

// listPaths prints a labeled path list, skipping empty sets.
func listPaths(w io.Writer, label string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", label)
	for _, p := range paths {
		fmt.Fprintf(w, "  %s\n", p)
	}
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
