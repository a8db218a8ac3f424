// Package manifest builds, persists, and loads directory manifests. A
// manifest is a content-addressed snapshot: every regular file under a root,
// keyed by relative path, with its SHA-256 fingerprint and size.
package manifest

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/zstabile15/dir-diff/pkg/dirdiff/hasher"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/tuner"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/types"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/walker"
)

// BuildOptions configures a manifest build.
type BuildOptions struct {
	// Workers is the hashing pool size. Zero or negative means auto-tune
	// from the CPU count.
	Workers int

	// Exclude contains glob patterns for paths to skip during the walk.
	Exclude []string

	// OnProgress, if set, receives (completed, total) counts as files
	// finish hashing. It is called from a single goroutine.
	OnProgress func(types.Progress)
}

// hashResult is one finished unit of hashing work.
type hashResult struct {
	path  string
	entry types.Entry
	err   error
}

// Build scans root and returns a manifest covering every regular file the
// walker yields, plus any walk warnings for subtrees that could not be read.
//
// Files are hashed concurrently across a fixed pool; the resulting map is
// written only by a single collector goroutine draining the pool's results,
// and the worker count never affects the result. A single file's failure does
// not stop the batch: in-flight work finishes, and the build then fails with
// a *types.BatchError listing every failed file. No partial manifest is ever
// returned as success.
func Build(ctx context.Context, root string, opts BuildOptions) (types.Manifest, []walker.Warning, error) {
	files, warns, err := walker.Walk(root, walker.Options{Exclude: opts.Exclude})
	if err != nil {
		return nil, nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, warns, err
	}

	workers := tuner.Workers(opts.Workers)
	if workers > len(files) && len(files) > 0 {
		workers = len(files)
	}

	jobs := make(chan string)
	results := make(chan hashResult, workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rel := range jobs {
				sum, size, hashErr := hasher.Sum(filepath.Join(absRoot, filepath.FromSlash(rel)))
				select {
				case results <- hashResult{path: rel, entry: types.Entry{Hash: sum, Size: size}, err: hashErr}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, rel := range files {
			select {
			case jobs <- rel:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	m := make(types.Manifest, len(files))
	var failed []types.ItemError
	completed := 0
	for res := range results {
		completed++
		if res.err != nil {
			failed = append(failed, types.ItemError{Path: res.path, Err: res.err})
		} else {
			m[res.path] = res.entry
		}
		if opts.OnProgress != nil {
			opts.OnProgress(types.Progress{Phase: types.PhaseHash, Completed: completed, Total: len(files)})
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, warns, err
	}
	if len(failed) > 0 {
		sort.Slice(failed, func(i, j int) bool { return failed[i].Path < failed[j].Path })
		return nil, warns, &types.BatchError{Op: "hash", Failed: failed, Total: len(files)}
	}

	return m, warns, nil
}
