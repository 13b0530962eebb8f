package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Key builds a cache key of the form "prefix:digest" where digest hashes
// the JSON encoding of parts. Fields tagged `json:"-"` do not contribute.
// It returns "" when parts cannot be encoded; such values are not cacheable.
func Key(prefix string, parts ...any) string {
	data, err := json.Marshal(parts)
	if err != nil {
		return ""
	}
	return prefix + ":" + Hash(data)
}
