package files

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// KeyLen is the length of keys produced by NewKey:
// 16 random bytes in raw URL-safe base64.
const KeyLen = 22

// NewKey returns a fresh 128-bit URL-safe retrieval key.
// Uniqueness is probabilistic; inserts do not check for collisions.
func NewKey() (string, error) {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("files: key generation failed: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf[:]), nil
}
