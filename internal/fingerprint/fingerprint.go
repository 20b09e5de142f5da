// Package fingerprint derives cache-key material identifying a specific
// content version of a file: a SHA-256 digest of the full content plus the
// modification time. Hashing is O(file size) per call; the cost is accepted
// so that changed content can never produce a stale cache hit.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
)

// Fingerprint identifies one content version of a resource.
type Fingerprint struct {
	Hash  string // hex-encoded SHA-256 of the content
	MTime int64  // modification time, unix nanoseconds
}

// File fingerprints the file at path.
func File(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Of(data, info.ModTime().UnixNano()), nil
}

// Of fingerprints raw content with the given modification time.
func Of(content []byte, mtime int64) Fingerprint {
	sum := sha256.Sum256(content)
	return Fingerprint{Hash: hex.EncodeToString(sum[:]), MTime: mtime}
}

// Key combines the resource identity with the fingerprint into a cache key.
// Both the hash and the mtime participate, so either changing invalidates
// the key implicitly.
func (f Fingerprint) Key(resource string) string {
	return fmt.Sprintf("%s\x00%s\x00%d", resource, f.Hash, f.MTime)
}
