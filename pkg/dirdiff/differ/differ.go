// Package differ classifies the paths of two manifests as added, removed, or
// changed.
package differ

import (
	"sort"

	"github.com/zstabile15/dir-diff/pkg/dirdiff/types"
)

// Diff compares an old manifest against the current one and partitions their
// keys: Added holds paths only in current, Removed paths only in old, and
// Changed paths present in both whose fingerprints differ.
//
// Size is never consulted; the fingerprint alone decides whether a file
// changed, since two versions of a file can share a size but are assumed
// never to share a digest. Diff is a pure function, O(n) in total entries,
// and both arguments are read-only.
func Diff(old, current types.Manifest) types.DiffResult {
	var res types.DiffResult

	for path := range current {
		if _, ok := old[path]; !ok {
			res.Added = append(res.Added, path)
		}
	}

	for path, oldEntry := range old {
		curEntry, ok := current[path]
		switch {
		case !ok:
			res.Removed = append(res.Removed, path)
		case oldEntry.Hash != curEntry.Hash:
			res.Changed = append(res.Changed, path)
		}
	}

	sort.Strings(res.Added)
	sort.Strings(res.Removed)
	sort.Strings(res.Changed)
	return res
}
