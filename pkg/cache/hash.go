package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a namespaced cache key of the form "prefix:sha256(parts)".
// Parts are JSON-encoded as a positional array, so "ab"+"c" and "a"+"bc"
// hash differently and slice ordering is part of the key. The full 64-char
// digest is kept; render artifacts are cheap to store and collisions would
// silently serve the wrong image.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex-encoded SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
