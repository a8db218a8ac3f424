package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zstabile15/dir-diff/pkg/dirdiff/logging"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build [directory]",
	Short: "Build a manifest of a directory without comparing",
	Long: `Build scans a directory and produces a content-addressed manifest:
every regular file's relative path with its SHA-256 fingerprint and size.
Use --save to persist it for a later differential run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("save", "", "where to save the manifest")
	rootCmd.AddCommand(buildCmd)
}

// runBuild is the build-only mode handler.
func runBuild(cmd *cobra.Command, args []string) error {
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

	savePath, _ := cmd.Flags().GetString("save")
	quiet, _ := cmd.Flags().GetBool("quiet")

	printer := newProgressPrinter(os.Stderr, quiet)
	res, err := pipeline.BuildOnly(cmd.Context(), pipeline.Options{
		SourceDir:        sourceDir,
		SaveManifestPath: savePath,
		Workers:          cfg.Workers,
		Exclude:          cfg.Exclude,
		OnProgress:       printer.update,
	})
	printer.done()
	if err != nil {
		return err
	}

	return render(cmd, res, sourceDir, "", savePath, false)
}
