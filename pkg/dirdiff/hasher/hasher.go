// Package hasher computes content fingerprints for single files.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// BlockSize is the read chunk size. Memory use per worker is one block
// regardless of file size.
const BlockSize = 64 * 1024

// Sum streams the file at path through SHA-256 in BlockSize chunks and
// returns the lowercase hex digest together with the number of bytes hashed.
// The size is counted from the same read that fed the digest, so the pair
// always describes one consistent view of the file even if it is being
// modified concurrently.
//
// If the file cannot be opened or a read fails partway, the whole call fails
// and no partial digest is returned.
func Sum(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	// io.Copy variants would bypass buf via the file's WriteTo, so read
	// explicitly to keep the chunk size honest.
	h := sha256.New()
	buf := make([]byte, BlockSize)
	var size int64
	for {
		n, rerr := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
			size += int64(n)
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return "", 0, fmt.Errorf("read %s: %w", path, rerr)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), size, nil
}
