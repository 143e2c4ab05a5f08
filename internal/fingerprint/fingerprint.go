// Package fingerprint computes content-addressable record ids.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Length of the hex fingerprint. Truncated for readability; 64 bits of
// hash is ample for per-bank dedup.
const Length = 16

// Content returns the deterministic fingerprint of a record's content:
// SHA-256 of the trimmed, lower-cased text, truncated to Length hex
// characters. Identical content always yields the same id, which is the
// sole deduplication key.
func Content(content string) string {
	norm := strings.ToLower(strings.TrimSpace(content))
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:])[:Length]
}
