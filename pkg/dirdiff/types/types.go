// Package types provides the core data types for dirdiff: manifest entries,
// diff results, progress events, and the aggregate error reported by the
// hashing and copying worker pools.
package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
)

// Entry is the recorded state of a single file at scan time: its content
// fingerprint and size. Both values come from the same read of the file, so
// they can never describe two different versions of it.
type Entry struct {
	// Hash is the lowercase hex SHA-256 digest of the file contents.
	Hash string `json:"hash"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`
}

// Manifest maps the slash-separated relative path of every scanned file to
// its Entry. A manifest is built fresh per scan and never mutated afterwards.
type Manifest map[string]Entry

// Paths returns the manifest's keys in sorted order.
func (m Manifest) Paths() []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// TotalSize returns the sum of all entry sizes in bytes.
func (m Manifest) TotalSize() int64 {
	var total int64
	for _, e := range m {
		total += e.Size
	}
	return total
}

// DiffResult partitions the paths of two manifests into three disjoint sets.
// A path whose fingerprint is identical in both manifests appears in none.
// All three slices are sorted.
type DiffResult struct {
	// Added contains paths present only in the new manifest.
	Added []string `json:"added"`

	// Removed contains paths present only in the old manifest.
	Removed []string `json:"removed"`

	// Changed contains paths present in both with differing fingerprints.
	Changed []string `json:"changed"`
}

// Empty reports whether no path was classified.
func (d DiffResult) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Differential returns Added followed by Changed, the minimal set of files
// needed to bring a target copy up to date. Removed files are reported only,
// never acted on.
func (d DiffResult) Differential() []string {
	out := make([]string, 0, len(d.Added)+len(d.Changed))
	out = append(out, d.Added...)
	out = append(out, d.Changed...)
	sort.Strings(out)
	return out
}

// Phase identifies which worker-pool stage a progress event belongs to.
type Phase string

// Worker-pool phases that report progress.
const (
	PhaseHash Phase = "hash"
	PhaseCopy Phase = "copy"
)

// Progress is a point-in-time completion count for one phase. Events are
// produced by a single collector goroutine per pool, but consumers must
// tolerate coalesced delivery.
type Progress struct {
	Phase     Phase
	Completed int
	Total     int
}

// ItemError records the failure of one unit of work in a batch.
type ItemError struct {
	// Path is the relative path of the file the work unit was for.
	Path string

	// Err is the underlying failure.
	Err error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ItemError) Unwrap() error {
	return e.Err
}

// BatchError aggregates per-item failures from a worker pool. The pool lets
// dispatched work finish before reporting, so a BatchError always describes
// the complete set of failures for the batch, not just the first.
type BatchError struct {
	// Op names the batch operation, "hash" or "copy".
	Op string

	// Failed lists every item that failed, sorted by path.
	Failed []ItemError

	// Total is the number of items in the batch, failed or not.
	Total int
}

func (e *BatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d of %d files failed", e.Op, len(e.Failed), e.Total)
	for _, item := range e.Failed {
		fmt.Fprintf(&b, "\n  %s", item.Error())
	}
	return b.String()
}

// Unwrap exposes the per-item failures to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failed))
	for i, item := range e.Failed {
		errs[i] = item
	}
	return errs
}

// FormatSize returns a size in bytes as a human-readable string using
// binary (IEC) units.
func FormatSize(size int64) string {
	return humanize.IBytes(uint64(size))
}
