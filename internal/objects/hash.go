// Package objects implements the content-addressed object store: the four
// object kinds (blob, tree, commit, tag), their framing and hashing, and the
// tree leaf codec.
package objects

import (
	"encoding/hex"
	"fmt"
)

// Hash is a 40-character hex-encoded SHA-1 object identifier.
type Hash string

// NewHash validates and wraps a 40-character hex string.
func NewHash(s string) (Hash, error) {
	if len(s) != 40 {
		return "", fmt.Errorf("invalid hash length: %d", len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return Hash(s), nil
}

// HashFromBytes converts a 20-byte raw SHA-1 digest to its hex Hash form.
func HashFromBytes(b []byte) (Hash, error) {
	if len(b) != 20 {
		return "", fmt.Errorf("invalid raw hash length: %d", len(b))
	}
	return Hash(hex.EncodeToString(b)), nil
}

// Bytes returns the raw 20-byte digest this Hash encodes.
func (h Hash) Bytes() []byte {
	b, _ := hex.DecodeString(string(h))
	return b
}

// Short returns the first 7 characters, or the full hash if shorter.
func (h Hash) Short() string {
	if len(h) < 7 {
		return string(h)
	}
	return string(h)[:7]
}

func (h Hash) String() string { return string(h) }
