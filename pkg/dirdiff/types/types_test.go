package types

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

// TestManifestPaths verifies sorted key enumeration.
func TestManifestPaths(t *testing.T) {
	t.Parallel()

	m := Manifest{
		"b/two": {Hash: "bb", Size: 2},
		"a/one": {Hash: "aa", Size: 1},
		"c":     {Hash: "cc", Size: 3},
	}

	got := m.Paths()
	want := []string{"a/one", "b/two", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Paths()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if total := m.TotalSize(); total != 6 {
		t.Errorf("TotalSize() = %d, want 6", total)
	}
}

// TestDiffResultDifferential verifies the copy set is Added plus Changed,
// sorted, and never includes Removed.
func TestDiffResultDifferential(t *testing.T) {
	t.Parallel()

	d := DiffResult{
		Added:   []string{"z.txt", "a.txt"},
		Removed: []string{"gone.txt"},
		Changed: []string{"m.txt"},
	}

	got := d.Differential()
	want := []string{"a.txt", "m.txt", "z.txt"}
	if len(got) != len(want) {
		t.Fatalf("Differential() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Differential()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if d.Empty() {
		t.Error("Empty() = true, want false")
	}
	if !(DiffResult{}).Empty() {
		t.Error("Empty() on zero value = false, want true")
	}
}

// TestBatchError verifies the aggregate message and error-tree unwrapping.
func TestBatchError(t *testing.T) {
	t.Parallel()

	underlying := fs.ErrPermission
	err := &BatchError{
		Op: "hash",
		Failed: []ItemError{
			{Path: "a.txt", Err: underlying},
			{Path: "b.txt", Err: errors.New("disk gone")},
		},
		Total: 10,
	}

	msg := err.Error()
	if !strings.Contains(msg, "2 of 10 files failed") {
		t.Errorf("Error() = %q, want failed/total counts", msg)
	}
	if !strings.Contains(msg, "a.txt") || !strings.Contains(msg, "b.txt") {
		t.Errorf("Error() = %q, want every failed path listed", msg)
	}

	if !errors.Is(err, fs.ErrPermission) {
		t.Error("errors.Is() cannot see the underlying per-item error")
	}
}

// TestFormatSize spot-checks IEC formatting.
func TestFormatSize(t *testing.T) {
	t.Parallel()

	if got := FormatSize(5); got != "5 B" {
		t.Errorf("FormatSize(5) = %q, want %q", got, "5 B")
	}
	if got := FormatSize(2 * MiB); got != "2.0 MiB" {
		t.Errorf("FormatSize(2MiB) = %q, want %q", got, "2.0 MiB")
	}
}
