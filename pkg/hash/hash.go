package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// Prefix returns the first prefixLen characters of SHA256(input).
func Prefix(input string, prefixLen int) string {
	full := SHA256Hex(input)
	if prefixLen <= 0 || prefixLen > len(full) {
		return full
	}
	return full[:prefixLen]
}

// CacheKey builds a namespaced key from free-form user input. Surrounding
// whitespace is ignored; case is kept since channel IDs are case-sensitive.
func CacheKey(namespace, input string) string {
	return namespace + ":" + Prefix(strings.TrimSpace(input), 32)
}
