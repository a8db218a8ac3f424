package hasher

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
)

// TestSum verifies the digest and size of a small known file.
func TestSum(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hello.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	sum, size, err := Sum(path)
	if err != nil {
		t.Fatalf("Sum() error = %v", err)
	}

	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if sum != want {
		t.Errorf("Sum() = %q, want %q", sum, want)
	}
	if size != 5 {
		t.Errorf("size = %d, want 5", size)
	}
}

// TestSumEmptyFile verifies an empty file still produces a digest.
func TestSumEmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	sum, size, err := Sum(path)
	if err != nil {
		t.Fatalf("Sum() error = %v", err)
	}
	if size != 0 {
		t.Errorf("size = %d, want 0", size)
	}
	want := hex.EncodeToString(sha256.New().Sum(nil))
	if sum != want {
		t.Errorf("Sum() = %q, want %q", sum, want)
	}
}

// TestSumLargeFile verifies chunked reading matches a one-shot digest for a
// file spanning multiple blocks with a ragged tail.
func TestSumLargeFile(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte("0123456789abcdef"), 3*BlockSize/16)
	data = append(data, []byte("tail")...)

	path := filepath.Join(t.TempDir(), "large.bin")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	sum, size, err := Sum(path)
	if err != nil {
		t.Fatalf("Sum() error = %v", err)
	}

	direct := sha256.Sum256(data)
	if want := hex.EncodeToString(direct[:]); sum != want {
		t.Errorf("Sum() = %q, want %q", sum, want)
	}
	if size != int64(len(data)) {
		t.Errorf("size = %d, want %d", size, len(data))
	}
}

// TestSumBlockBoundaries verifies digests around the exact block size, where
// the read loop's chunk handling matters most.
func TestSumBlockBoundaries(t *testing.T) {
	t.Parallel()

	for _, n := range []int{BlockSize - 1, BlockSize, BlockSize + 1, 2 * BlockSize} {
		data := bytes.Repeat([]byte{0xa7}, n)
		path := filepath.Join(t.TempDir(), "boundary.bin")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}

		sum, size, err := Sum(path)
		if err != nil {
			t.Fatalf("Sum(%d bytes) error = %v", n, err)
		}
		direct := sha256.Sum256(data)
		if want := hex.EncodeToString(direct[:]); sum != want {
			t.Errorf("Sum(%d bytes) = %q, want %q", n, sum, want)
		}
		if size != int64(n) {
			t.Errorf("size = %d, want %d", size, n)
		}
	}
}

// TestSumMissingFile verifies the whole operation fails when the file cannot
// be opened.
func TestSumMissingFile(t *testing.T) {
	t.Parallel()

	sum, size, err := Sum(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("Sum() error = nil, want error for missing file")
	}
	if sum != "" || size != 0 {
		t.Errorf("got partial result (%q, %d), want zero values on error", sum, size)
	}
}
