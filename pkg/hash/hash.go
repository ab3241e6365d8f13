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

// ScopeKey derives a stable cache key for a (scope, channel set, date range)
// request. Channel order matters: a reordered comparison set is a different
// view and must not collide with the original.
func ScopeKey(scope string, channelIDs []string, rangeKey string) string {
	raw := scope + "|" + strings.Join(channelIDs, ",") + "|" + rangeKey
	return "analytics:" + SHA256Hex(raw)[:24]
}

// ShortHex returns the first n characters of SHA256(input). Used for
// log-safe identifiers.
func ShortHex(input string, n int) string {
	full := SHA256Hex(input)
	if n > len(full) {
		return full
	}
	return full[:n]
}
