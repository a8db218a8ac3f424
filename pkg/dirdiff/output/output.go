// Package output renders pipeline results for non-interactive consumers.
package output

import (
	"io"

	"github.com/zstabile15/dir-diff/pkg/dirdiff/types"
)

// Summary is the presentation-ready view of a pipeline run.
type Summary struct {
	// RunID identifies the pipeline run.
	RunID string

	// Source is the scanned directory.
	Source string

	// Files is the number of files in the new manifest.
	Files int

	// TotalSize is the combined size of the manifest's files in bytes.
	TotalSize int64

	// Diff is the classification against the old manifest, when one was
	// compared.
	Diff types.DiffResult

	// Compared reports whether a diff was performed at all.
	Compared bool

	// Copied is the number of files replicated to OutputDir.
	Copied int

	// OutputDir is where the differential set was copied, if anywhere.
	OutputDir string

	// ManifestPath is where the new manifest was saved, if anywhere.
	ManifestPath string

	// Warnings lists paths the scan could not read.
	Warnings []string

	// Elapsed is the run duration, formatted.
	Elapsed string
}

// Formatter renders a summary to a writer.
type Formatter interface {
	Format(w io.Writer, s *Summary) error
}
