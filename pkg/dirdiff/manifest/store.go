package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/zstabile15/dir-diff/pkg/dirdiff/types"
)

// ErrMalformed is returned by Load when the manifest file does not conform
// to the expected format.
var ErrMalformed = errors.New("malformed manifest")

// hashLen is the length of a hex-encoded SHA-256 digest.
const hashLen = 64

// Save writes m to path as indented JSON: a top-level object mapping each
// relative path to {"hash": ..., "size": ...}. Keys are emitted in sorted
// order, so identical manifests always serialize identically. The file is
// written atomically via a temp file and rename.
func Save(m types.Manifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}

	return nil
}

// storedEntry decodes one manifest entry. Pointer fields distinguish a
// missing field from a zero value; fields beyond hash and size are ignored
// for forward compatibility.
type storedEntry struct {
	Hash *string      `json:"hash"`
	Size *json.Number `json:"size"`
}

// Load parses the manifest file at path written by Save (or a compatible
// producer) back into a Manifest. Fingerprints and sizes round-trip
// losslessly.
//
// Malformed input fails with an error wrapping ErrMalformed rather than
// being coerced: a non-object top level, duplicate or empty path keys, a
// missing, non-hex, or wrong-length hash, and a missing or negative size are
// all rejected.
func Load(path string) (types.Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: %s: top level is not an object", ErrMalformed, path)
	}

	m := make(types.Manifest)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
		}
		key, ok := keyTok.(string)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %s: invalid path key", ErrMalformed, path)
		}
		if _, dup := m[key]; dup {
			return nil, fmt.Errorf("%w: %s: duplicate path %q", ErrMalformed, path, key)
		}

		var raw storedEntry
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: %s: entry %q: %v", ErrMalformed, path, key, err)
		}
		entry, err := raw.validate()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: entry %q: %v", ErrMalformed, path, key, err)
		}
		m[key] = entry
	}

	// Consume the closing brace; anything after it is garbage.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}

	return m, nil
}

// validate converts a decoded entry into a types.Entry, rejecting missing
// or out-of-domain fields.
func (e storedEntry) validate() (types.Entry, error) {
	if e.Hash == nil {
		return types.Entry{}, errors.New("missing hash field")
	}
	if len(*e.Hash) != hashLen || !isHex(*e.Hash) {
		return types.Entry{}, fmt.Errorf("invalid hash %q", *e.Hash)
	}
	if e.Size == nil {
		return types.Entry{}, errors.New("missing size field")
	}
	size, err := e.Size.Int64()
	if err != nil {
		return types.Entry{}, fmt.Errorf("invalid size %q", e.Size.String())
	}
	if size < 0 {
		return types.Entry{}, fmt.Errorf("negative size %d", size)
	}

	return types.Entry{Hash: *e.Hash, Size: size}, nil
}

// isHex reports whether s consists only of lowercase hex digits.
func isHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
