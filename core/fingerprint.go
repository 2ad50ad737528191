package core

import (
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
)

// fingerprintSize is the digest length in bytes (128 bits).
const fingerprintSize = 16

// Fingerprint returns a deterministic hex digest of text using BLAKE2b.
// Identical text always produces identical fingerprints.
func Fingerprint(text string) string {
	h, _ := blake2b.New(fingerprintSize, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
