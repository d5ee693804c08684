package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey generates a cache key of the form prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data as 64 hex characters.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// HashAll hashes an ordered sequence of byte slices. Each element is length
// prefixed, so ["ab","c"] and ["a","bc"] hash differently.
func HashAll(items ...[]byte) string {
	h := sha256.New()
	var n [8]byte
	for _, it := range items {
		l := uint64(len(it))
		for i := range n {
			n[i] = byte(l >> (8 * i))
		}
		h.Write(n[:])
		h.Write(it)
	}
	return hex.EncodeToString(h.Sum(nil))
}
