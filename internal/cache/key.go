package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// KeySize is the width of a Key in bytes
const KeySize = 32

// Key names one cached snapshot, usually a content hash of it
type Key [KeySize]byte

// HashKey derives a key from arbitrary content
func HashKey(data []byte) Key {
	return Key(sha256.Sum256(data))
}

// ParseKey parses the 0x-prefixed (or bare) 64 digit hex form of a key
func ParseKey(s string) (Key, error) {
	var k Key
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(raw) != hex.EncodedLen(KeySize) {
		return k, fmt.Errorf("invalid key length: expected %d hex digits, got %d", hex.EncodedLen(KeySize), len(raw))
	}
	if _, err := hex.Decode(k[:], []byte(raw)); err != nil {
		return k, fmt.Errorf("invalid key %q: %w", s, err)
	}
	return k, nil
}

// String returns the canonical textual form, which is also the file name stem
func (k Key) String() string {
	return "0x" + hex.EncodeToString(k[:])
}
