package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/zstabile15/dir-diff/pkg/dirdiff/config"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/logging"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/output"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/pipeline"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/walker"
)

var rootCmd = &cobra.Command{
	Use:   "dirdiff [directory]",
	Short: "Extract the differential set of a directory against a saved manifest",
	Long: `Dirdiff snapshots a directory tree into a content-addressed manifest,
compares it against a previously saved manifest, and copies the files that
were added or changed to an output directory.

Examples:
  dirdiff build ~/data --save data.json     # Snapshot a directory
  dirdiff ~/data --old data.json            # Report what changed since
  dirdiff ~/data --old data.json --out /backup --save data.json
                                            # Copy the differential set and
                                            # refresh the manifest
  dirdiff diff old.json new.json            # Compare two saved manifests`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "override worker count (0=auto)")
	rootCmd.PersistentFlags().StringSliceP("exclude", "e", nil, "exclude patterns (can be specified multiple times)")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "output JSON format")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "list classified paths and enable debug logging")

	rootCmd.Flags().String("old", "", "old manifest file to diff against (required)")
	rootCmd.Flags().String("out", "", "directory to copy added and changed files into")
	rootCmd.Flags().String("save", "", "where to save the new manifest")
	_ = rootCmd.MarkFlagRequired("old")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig merges the config file and environment with command-line flags.
// Flags win when set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("workers") {
		cfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if extra, _ := cmd.Flags().GetStringSlice("exclude"); len(extra) > 0 {
		cfg.Exclude = append(cfg.Exclude, extra...)
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Logging.Level = "debug"
	}

	return cfg, nil
}

// setupLogging initializes the shared loggers from the merged config.
func setupLogging(cfg *config.Config) error {
	return logging.Init(logging.Config{
		Level:   cfg.Logging.Level,
		Path:    cfg.Logging.Path,
		Console: cfg.Logging.Console,
	})
}

// resolveDir turns the optional positional argument into an absolute,
// verified directory path.
func resolveDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return "", fmt.Errorf("failed to expand path: %w", err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("path does not exist: %s", abs)
		}
		return "", fmt.Errorf("cannot access path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", abs)
	}

	return abs, nil
}

// runExtract is the differential-mode handler on the root command.
func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	defer logging.Close()

	sourceDir, err := resolveDir(args)
	if err != nil {
		return err
	}

	oldPath, _ := cmd.Flags().GetString("old")
	outDir, _ := cmd.Flags().GetString("out")
	savePath, _ := cmd.Flags().GetString("save")
	quiet, _ := cmd.Flags().GetBool("quiet")

	printer := newProgressPrinter(os.Stderr, quiet)
	opts := pipeline.Options{
		SourceDir:        sourceDir,
		OldManifestPath:  oldPath,
		OutputDir:        outDir,
		SaveManifestPath: savePath,
		Workers:          cfg.Workers,
		Exclude:          cfg.Exclude,
		OnProgress:       printer.update,
	}

	res, err := pipeline.Run(cmd.Context(), opts)
	printer.done()
	if err != nil {
		return err
	}

	return render(cmd, res, sourceDir, outDir, savePath, true)
}

// render formats a pipeline result using the flag-selected formatter.
func render(cmd *cobra.Command, res *pipeline.Result, source, outDir, savePath string, compared bool) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	s := &output.Summary{
		RunID:        res.RunID,
		Source:       source,
		Files:        len(res.Manifest),
		TotalSize:    res.Manifest.TotalSize(),
		Diff:         res.Diff,
		Compared:     compared,
		Copied:       res.Copied,
		OutputDir:    outDir,
		ManifestPath: savePath,
		Warnings:     warningStrings(res.Warnings),
		Elapsed:      res.Elapsed.Round(time.Millisecond).String(),
	}

	var f output.Formatter
	if asJSON {
		f = &output.JSONFormatter{}
	} else {
		f = &output.PlainFormatter{Verbose: verbose}
	}
	return f.Format(cmd.OutOrStdout(), s)
}

// warningStrings flattens walker warnings for presentation.
func warningStrings(warns []walker.Warning) []string {
	if len(warns) == 0 {
		return nil
	}
	out := make([]string, len(warns))
	for i, w := range warns {
		out[i] = w.String()
	}
	return out
}
