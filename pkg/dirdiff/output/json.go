package output

import (
	"encoding/json"
	"io"

	"github.com/zstabile15/dir-diff/pkg/dirdiff/types"
)

// jsonOutput is the machine-readable output structure.
type jsonOutput struct {
	RunID        string            `json:"run_id"`
	Source       string            `json:"source"`
	Files        int               `json:"files"`
	TotalSize    int64             `json:"total_size"`
	Diff         *types.DiffResult `json:"diff,omitempty"`
	Copied       int               `json:"copied,omitempty"`
	OutputDir    string            `json:"output_dir,omitempty"`
	ManifestPath string            `json:"manifest_path,omitempty"`
	Warnings     []string          `json:"warnings,omitempty"`
	Elapsed      string            `json:"elapsed"`
}

// JSONFormatter renders the summary as a single indented JSON object.
type JSONFormatter struct{}

// Format writes the summary as JSON.
func (f *JSONFormatter) Format(w io.Writer, s *Summary) error {
	out := jsonOutput{
		RunID:        s.RunID,
		Source:       s.Source,
		Files:        s.Files,
		TotalSize:    s.TotalSize,
		Copied:       s.Copied,
		OutputDir:    s.OutputDir,
		ManifestPath: s.ManifestPath,
		Warnings:     s.Warnings,
		Elapsed:      s.Elapsed,
	}
	if s.Compared {
		out.Diff = &s.Diff
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
