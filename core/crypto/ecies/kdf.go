package ecies

import (
	"crypto/sha256"
)

// deriveKey implements KDF1 with SHA-256 for a single output block:
// SHA-256(C0 || S || 00000000).
func deriveKey(ephemeral, sharedSecret []byte) []byte {
	buf := getBuffer(len(ephemeral) + len(sharedSecret) + len(kdfCounter))
	defer putBuffer(buf)

	buf = append(buf, ephemeral...)
	buf = append(buf, sharedSecret...)
	buf = append(buf, kdfCounter[:]...)

	key := sha256.Sum256(buf)
	zeroBytes(buf)
	return key[:]
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
