package util

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// SHA256Hex returns the lowercase hex sha256 of b.
func SHA256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// CanonicalJSONHash computes the tamper-binding hash of a request body: the
// object is re-serialized compactly with sorted keys (Go map marshaling
// order) and sha256-hexed. Clients sign the same canonical form.
func CanonicalJSONHash(body map[string]interface{}) (string, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	return SHA256Hex(b), nil
}
