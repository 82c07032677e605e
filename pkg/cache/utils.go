package cache

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// HashKey derives a stable cache key from the given parts.
func HashKey(parts ...string) string {
	joined := strings.ToLower(strings.Join(parts, "|"))
	sum := md5.Sum([]byte(joined))
	return hex.EncodeToString(sum[:])
}
