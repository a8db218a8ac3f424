package walker

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// writeTree creates a fixture tree and returns its root.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func sortedWalk(t *testing.T, root string, opts Options) []string {
	t.Helper()
	files, warns, err := Walk(root, opts)
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(warns) != 0 {
		t.Fatalf("Walk() warnings = %v, want none", warns)
	}
	sort.Strings(files)
	return files
}

// TestWalkEnumeratesRegularFiles verifies nested files come back as
// slash-separated relative paths.
func TestWalkEnumeratesRegularFiles(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"a.txt":           "a",
		"sub/b.txt":       "b",
		"sub/inner/c.bin": "c",
	})

	got := sortedWalk(t, root, Options{})
	want := []string{"a.txt", "sub/b.txt", "sub/inner/c.bin"}
	if len(got) != len(want) {
		t.Fatalf("Walk() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Walk()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestWalkSkipsSymlinks verifies symlinks are neither followed nor reported.
func TestWalkSkipsSymlinks(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{"real.txt": "x"})
	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	// A directory symlink pointing back at the root would recurse forever
	// if followed.
	if err := os.Symlink(root, filepath.Join(root, "cycle")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got := sortedWalk(t, root, Options{})
	if len(got) != 1 || got[0] != "real.txt" {
		t.Errorf("Walk() = %v, want [real.txt]", got)
	}
}

// TestWalkExclude verifies both directory-name and glob exclusions.
func TestWalkExclude(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"keep.txt":       "k",
		"skip.log":       "s",
		"node_modules/x": "x",
		"src/main.go":    "m",
		"src/notes.log":  "n",
	})

	got := sortedWalk(t, root, Options{Exclude: []string{"node_modules", "*.log"}})
	want := []string{"keep.txt", "src/main.go"}
	if len(got) != len(want) {
		t.Fatalf("Walk() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Walk()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestWalkExcludeRelativePatterns verifies patterns with separators match
// against the root-relative path, and bare names match directories at any
// depth.
func TestWalkExcludeRelativePatterns(t *testing.T) {
	t.Parallel()

	root := writeTree(t, map[string]string{
		"src/main.go":        "m",
		"src/debug.log":      "d",
		"other/debug.log":    "o",
		"lib/node_modules/x": "x",
		"lib/keep.txt":       "k",
		"docs/readme.md":     "r",
	})

	got := sortedWalk(t, root, Options{Exclude: []string{"src/*.log", "node_modules", "docs"}})
	want := []string{"lib/keep.txt", "other/debug.log", "src/main.go"}
	if len(got) != len(want) {
		t.Fatalf("Walk() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Walk()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestWalkMissingRoot verifies a structural failure for an absent root.
func TestWalkMissingRoot(t *testing.T) {
	t.Parallel()

	_, _, err := Walk(filepath.Join(t.TempDir(), "missing"), Options{})
	if err == nil {
		t.Fatal("Walk() error = nil, want error for missing root")
	}
}

// TestWalkRootNotDirectory verifies a file root is rejected.
func TestWalkRootNotDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	_, _, err := Walk(path, Options{})
	if !errors.Is(err, ErrNotDirectory) {
		t.Fatalf("Walk() error = %v, want ErrNotDirectory", err)
	}
}

// TestWalkUnreadableSubdir verifies an unreadable subtree produces a warning
// instead of aborting the walk.
func TestWalkUnreadableSubdir(t *testing.T) {
	t.Parallel()
	if os.Geteuid() == 0 {
		t.Skip("permission bits are ignored when running as root")
	}

	root := writeTree(t, map[string]string{
		"ok.txt":          "x",
		"locked/file.txt": "y",
	})
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	files, warns, err := Walk(root, Options{})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if len(files) != 1 || files[0] != "ok.txt" {
		t.Errorf("Walk() files = %v, want [ok.txt]", files)
	}
	if len(warns) == 0 {
		t.Error("Walk() warnings empty, want one for the unreadable subtree")
	}
}

// TestWalkUnreadableRoot verifies an existing but unreadable root fails the
// walk outright instead of degrading to an empty enumeration with a warning.
func TestWalkUnreadableRoot(t *testing.T) {
	t.Parallel()
	if os.Geteuid() == 0 {
		t.Skip("permission bits are ignored when running as root")
	}

	root := writeTree(t, map[string]string{"hidden.txt": "x"})
	if err := os.Chmod(root, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(root, 0o755) })

	files, _, err := Walk(root, Options{})
	if err == nil {
		t.Fatal("Walk() error = nil, want error for unreadable root")
	}
	if len(files) != 0 {
		t.Errorf("Walk() files = %v, want none alongside an error", files)
	}
}
