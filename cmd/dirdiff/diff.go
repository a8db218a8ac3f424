package main

import (
	"github.com/spf13/cobra"

	"github.com/zstabile15/dir-diff/pkg/dirdiff/differ"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/manifest"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/output"
)

var diffCmd = &cobra.Command{
	Use:   "diff OLD NEW",
	Short: "Compare two saved manifests without scanning",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)
}

// runDiff compares two manifest files directly.
func runDiff(cmd *cobra.Command, args []string) error {
	old, err := manifest.Load(args[0])
	if err != nil {
		return err
	}
	current, err := manifest.Load(args[1])
	if err != nil {
		return err
	}

	s := &output.Summary{
		Source:    args[1],
		Files:     len(current),
		TotalSize: current.TotalSize(),
		Diff:      differ.Diff(old, current),
		Compared:  true,
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	var f output.Formatter
	if asJSON {
		f = &output.JSONFormatter{}
	} else {
		f = &output.PlainFormatter{Verbose: verbose}
	}
	return f.Format(cmd.OutOrStdout(), s)
}
