// Package walker enumerates the regular files under a directory root using
// parallel traversal via fastwalk.
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// ErrNotDirectory is returned when the walk root exists but is not a
// directory.
var ErrNotDirectory = errors.New("not a directory")

// Warning records a subtree or entry that could not be read. Warnings never
// abort a walk; the caller decides whether an incomplete enumeration is
// acceptable.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

// Options configures a walk.
type Options struct {
	// Exclude contains glob patterns for paths to skip. Patterns are matched
	// against the base name and the slash-separated root-relative path; a
	// matching directory is skipped with its whole subtree.
	Exclude []string
}

// Walk returns the slash-separated relative path of every regular file
// reachable under root. Symbolic links are never followed, so link cycles
// cannot occur; symlinks themselves are not reported. Result order is
// unspecified.
//
// A missing or unreadable root fails immediately. Unreadable subdirectories
// are collected as warnings and the rest of the tree is still enumerated.
func Walk(root string, opts Options) ([]string, []Warning, error) {
	absRoot, err := validateRoot(root)
	if err != nil {
		return nil, nil, err
	}

	var (
		mu    sync.Mutex
		files []string
		warns []Warning
	)

	conf := fastwalk.Config{
		Follow: false, // never follow symlinks
	}

	walkErr := fastwalk.Walk(&conf, absRoot, func(entryPath string, d fs.DirEntry, err error) error {
		if err != nil {
			// A failure on the root itself means the whole enumeration is
			// impossible; that is a structural failure, not a warning.
			if entryPath == absRoot {
				return err
			}
			mu.Lock()
			warns = append(warns, Warning{Path: entryPath, Err: err})
			mu.Unlock()
			return nil
		}

		if entryPath == absRoot {
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, entryPath)
		if relErr != nil {
			mu.Lock()
			warns = append(warns, Warning{Path: entryPath, Err: relErr})
			mu.Unlock()
			return nil
		}
		rel = filepath.ToSlash(rel)

		if isExcluded(rel, opts.Exclude) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		mu.Lock()
		files = append(files, rel)
		mu.Unlock()
		return nil
	})
	if walkErr != nil {
		return nil, warns, fmt.Errorf("walk %s: %w", absRoot, walkErr)
	}

	return files, warns, nil
}

// validateRoot resolves root to an absolute path and verifies it is an
// existing directory.
func validateRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: %w", abs, ErrNotDirectory)
	}

	return abs, nil
}

// isExcluded checks if a slash-separated root-relative path matches any
// exclusion pattern.
func isExcluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		// Prefix match for directory-style exclusions.
		if rel == pattern {
			return true
		}
		if strings.HasPrefix(rel, pattern+"/") {
			return true
		}

		// Glob against base name.
		if matched, err := path.Match(pattern, path.Base(rel)); err == nil && matched {
			return true
		}

		// Glob against the relative path.
		if matched, err := path.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}
