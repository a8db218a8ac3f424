// Package replicator copies a set of files between directory roots with a
// fixed-size worker pool, preserving relative structure, content, mode, and
// modification time.
package replicator

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zstabile15/dir-diff/pkg/dirdiff/tuner"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/types"
)

// Options configures a copy batch.
type Options struct {
	// Workers is the copy pool size. Zero or negative means auto-tune from
	// the CPU count.
	Workers int

	// OnProgress, if set, receives (completed, total) counts as files
	// finish copying. It is called from a single goroutine.
	OnProgress func(types.Progress)
}

// copyResult is one finished unit of copy work.
type copyResult struct {
	path string
	err  error
}

// Copy copies each slash-separated relative path in paths from srcRoot to
// dstRoot, creating missing intermediate directories and overwriting existing
// output files. Nothing under dstRoot is ever deleted.
//
// Copies run concurrently across the pool. One file's failure does not stop
// the batch: dispatched work finishes, and Copy then fails with a
// *types.BatchError listing every failed path. The batch is idempotent;
// re-running it overwrites the same output harmlessly.
func Copy(ctx context.Context, paths []string, srcRoot, dstRoot string, opts Options) error {
	if len(paths) == 0 {
		return nil
	}

	absSrc, err := filepath.Abs(srcRoot)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", srcRoot, err)
	}
	absDst, err := filepath.Abs(dstRoot)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dstRoot, err)
	}
	if err := os.MkdirAll(absDst, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", absDst, err)
	}

	workers := tuner.Workers(opts.Workers)
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan string)
	results := make(chan copyResult, workers)

	// The errgroup manages worker lifecycle only; per-file errors travel
	// through results so the rest of the batch keeps going.
	g, gctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			for rel := range jobs {
				copyErr := copyFile(absSrc, absDst, rel)
				select {
				case results <- copyResult{path: rel, err: copyErr}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		defer close(jobs)
		for _, rel := range paths {
			select {
			case jobs <- rel:
			case <-gctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = g.Wait()
		close(results)
	}()

	var failed []types.ItemError
	completed := 0
	for res := range results {
		completed++
		if res.err != nil {
			failed = append(failed, types.ItemError{Path: res.path, Err: res.err})
		}
		if opts.OnProgress != nil {
			opts.OnProgress(types.Progress{Phase: types.PhaseCopy, Completed: completed, Total: len(paths)})
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(failed) > 0 {
		sort.Slice(failed, func(i, j int) bool { return failed[i].Path < failed[j].Path })
		return &types.BatchError{Op: "copy", Failed: failed, Total: len(paths)}
	}

	return nil
}

// copyFile copies one relative path from srcRoot to dstRoot, carrying over
// the source's permission bits and modification time.
func copyFile(srcRoot, dstRoot, rel string) error {
	src := filepath.Join(srcRoot, filepath.FromSlash(rel))
	dst := filepath.Join(dstRoot, filepath.FromSlash(rel))

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(dst), err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", rel, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}

	// O_CREATE mode bits only apply to new files; an overwritten file keeps
	// its old mode unless reset here.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod %s: %w", dst, err)
	}
	if err := os.Chtimes(dst, time.Now(), info.ModTime()); err != nil {
		return fmt.Errorf("chtimes %s: %w", dst, err)
	}

	return nil
}
