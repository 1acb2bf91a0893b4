package ecies

import "github.com/kochabx/clea/core/crypto/ec"

const (
	// CurvePointSize is the size of a P-256 coordinate or scalar.
	CurvePointSize = ec.ByteSize

	// PublicKeyBytes is the size of an uncompressed public key: [04][X][Y].
	PublicKeyBytes = ec.UncompressedSize

	// CompressedKeyBytes is the size of a compressed point: [02|03][X].
	CompressedKeyBytes = ec.CompressedSize

	// AESKeySize is the AES-256 key size.
	AESKeySize = 32

	// AESGCMNonceSize is the GCM IV size.
	AESGCMNonceSize = 12

	// AESGCMTagSize is the GCM tag size.
	AESGCMTagSize = 16

	// Overhead is what Encrypt adds to the plaintext, on top of the
	// associated data: the tag and the compressed ephemeral point.
	Overhead = AESGCMTagSize + CompressedKeyBytes
)

// fixedIV is f0 f1 ... fb.
var fixedIV = [AESGCMNonceSize]byte{0xf0, 0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8, 0xf9, 0xfa, 0xfb}

// kdfCounter is the single KDF1 block counter, big-endian zero.
var kdfCounter = [4]byte{}
