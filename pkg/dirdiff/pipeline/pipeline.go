// Package pipeline sequences the manifest build, diff, copy, and save steps
// and reports their progress to a presentation consumer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/zstabile15/dir-diff/pkg/dirdiff/differ"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/logging"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/manifest"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/replicator"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/types"
	"github.com/zstabile15/dir-diff/pkg/dirdiff/walker"
)

// State identifies a pipeline step. A run moves forward through the states
// in order, skipping the conditional ones its options do not request, and
// ends in StateDone or StateFailed exactly once.
type State int

// Pipeline states.
const (
	StateIdle State = iota
	StateBuildingNew
	StateLoadingOld
	StateDiffing
	StateCopying
	StateSavingManifest
	StateDone
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBuildingNew:
		return "building-new"
	case StateLoadingOld:
		return "loading-old"
	case StateDiffing:
		return "diffing"
	case StateCopying:
		return "copying"
	case StateSavingManifest:
		return "saving-manifest"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options configures a pipeline run.
type Options struct {
	// SourceDir is the directory to scan. Required.
	SourceDir string

	// OldManifestPath is the previously saved manifest to diff against.
	// Required for Run, ignored by BuildOnly.
	OldManifestPath string

	// OutputDir, if non-empty, receives the differential set
	// (Added and Changed files) with relative structure preserved.
	OutputDir string

	// SaveManifestPath, if non-empty, is where the freshly built manifest
	// is persisted.
	SaveManifestPath string

	// Workers overrides the worker-pool size; zero means auto-tune.
	Workers int

	// Exclude contains glob patterns for paths to skip during the scan.
	Exclude []string

	// OnProgress, if set, receives progress events during the hash and
	// copy phases. Events from parallel workers are queued and delivered
	// from a single goroutine, so the consumer needs no locking.
	OnProgress func(types.Progress)

	// OnState, if set, is called on every state transition.
	OnState func(State)
}

// Result is the outcome of a successful run.
type Result struct {
	// RunID uniquely identifies this run in logs and output.
	RunID string

	// Manifest is the freshly built snapshot of SourceDir.
	Manifest types.Manifest

	// Diff is the classification against the old manifest. Empty sets for
	// build-only runs.
	Diff types.DiffResult

	// Copied is the number of files replicated into OutputDir.
	Copied int

	// Warnings lists subtrees the walker could not read.
	Warnings []walker.Warning

	// Elapsed is the total run duration.
	Elapsed time.Duration
}

// run tracks the state of one pipeline invocation.
type run struct {
	opts  Options
	id    string
	log   *charmlog.Logger
	state State

	events chan types.Progress
	drain  sync.WaitGroup
}

// Run executes the full differential pipeline: build a manifest of
// SourceDir, load the old manifest, diff, copy the differential set to
// OutputDir if requested, and save the new manifest if requested.
//
// Structural failures (missing source directory, missing old manifest) abort
// before any worker is dispatched. A run either completes or fails; it holds
// no state across invocations, so a failed run is safe to re-invoke from
// scratch.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.OldManifestPath == "" {
		return nil, errors.New("old manifest path is required for a differential run")
	}

	r := newRun(opts)
	defer r.finish()

	if err := r.precheck(true); err != nil {
		return nil, r.fail(err)
	}

	start := time.Now()
	res := &Result{RunID: r.id}

	r.setState(StateBuildingNew)
	cur, warns, err := manifest.Build(ctx, opts.SourceDir, manifest.BuildOptions{
		Workers:    opts.Workers,
		Exclude:    opts.Exclude,
		OnProgress: r.emit,
	})
	if err != nil {
		return nil, r.fail(err)
	}
	res.Manifest = cur
	res.Warnings = warns
	r.warn(warns)

	r.setState(StateLoadingOld)
	old, err := manifest.Load(opts.OldManifestPath)
	if err != nil {
		return nil, r.fail(err)
	}

	r.setState(StateDiffing)
	res.Diff = differ.Diff(old, cur)
	r.log.Info("diff complete",
		"added", len(res.Diff.Added),
		"removed", len(res.Diff.Removed),
		"changed", len(res.Diff.Changed))

	if opts.OutputDir != "" {
		r.setState(StateCopying)
		toCopy := res.Diff.Differential()
		err := replicator.Copy(ctx, toCopy, opts.SourceDir, opts.OutputDir, replicator.Options{
			Workers:    opts.Workers,
			OnProgress: r.emit,
		})
		if err != nil {
			return nil, r.fail(err)
		}
		res.Copied = len(toCopy)
	}

	if opts.SaveManifestPath != "" {
		r.setState(StateSavingManifest)
		if err := manifest.Save(cur, opts.SaveManifestPath); err != nil {
			return nil, r.fail(err)
		}
	}

	r.setState(StateDone)
	res.Elapsed = time.Since(start)
	return res, nil
}

// BuildOnly builds a manifest of SourceDir and saves it to SaveManifestPath
// if requested, without diffing or copying.
func BuildOnly(ctx context.Context, opts Options) (*Result, error) {
	r := newRun(opts)
	defer r.finish()

	if err := r.precheck(false); err != nil {
		return nil, r.fail(err)
	}

	start := time.Now()
	res := &Result{RunID: r.id}

	r.setState(StateBuildingNew)
	cur, warns, err := manifest.Build(ctx, opts.SourceDir, manifest.BuildOptions{
		Workers:    opts.Workers,
		Exclude:    opts.Exclude,
		OnProgress: r.emit,
	})
	if err != nil {
		return nil, r.fail(err)
	}
	res.Manifest = cur
	res.Warnings = warns
	r.warn(warns)

	if opts.SaveManifestPath != "" {
		r.setState(StateSavingManifest)
		if err := manifest.Save(cur, opts.SaveManifestPath); err != nil {
			return nil, r.fail(err)
		}
	}

	r.setState(StateDone)
	res.Elapsed = time.Since(start)
	return res, nil
}

// newRun allocates a run with its progress drainer started.
func newRun(opts Options) *run {
	r := &run{
		opts:   opts,
		id:     uuid.NewString(),
		log:    logging.Get("pipeline"),
		state:  StateIdle,
		events: make(chan types.Progress, 256),
	}

	r.drain.Add(1)
	go func() {
		defer r.drain.Done()
		for ev := range r.events {
			if r.opts.OnProgress != nil {
				r.opts.OnProgress(ev)
			}
		}
	}()

	return r
}

// emit queues a progress event for the single drainer goroutine. Safe to
// call from worker-pool collectors.
func (r *run) emit(ev types.Progress) {
	r.events <- ev
}

// finish stops the progress drainer and waits for queued events to be
// delivered.
func (r *run) finish() {
	close(r.events)
	r.drain.Wait()
}

// precheck verifies the run's structural inputs before any worker dispatch.
func (r *run) precheck(needOld bool) error {
	info, err := os.Stat(r.opts.SourceDir)
	if err != nil {
		return fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source directory %s: %w", r.opts.SourceDir, walker.ErrNotDirectory)
	}

	if needOld {
		if _, err := os.Stat(r.opts.OldManifestPath); err != nil {
			return fmt.Errorf("old manifest: %w", err)
		}
	}

	return nil
}

// setState records a transition and notifies the consumer.
func (r *run) setState(s State) {
	r.state = s
	r.log.Debug("state change", "run", r.id, "state", s.String())
	if r.opts.OnState != nil {
		r.opts.OnState(s)
	}
}

// fail transitions to StateFailed and returns err for the caller to
// propagate.
func (r *run) fail(err error) error {
	r.setState(StateFailed)
	r.log.Error("pipeline failed", "run", r.id, "error", err)
	return err
}

// warn logs walker warnings; an incomplete walk still produces a manifest,
// but the holes should be visible.
func (r *run) warn(warns []walker.Warning) {
	for _, w := range warns {
		r.log.Info("walk warning", "run", r.id, "path", w.Path, "error", w.Err)
	}
}
