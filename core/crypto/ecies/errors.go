package ecies

import "github.com/kochabx/clea/errors"

// Key errors
var (
	ErrInvalidPrivateKey = errors.InvalidInput("ecies: invalid private key")
	ErrInvalidPublicKey  = errors.InvalidPoint("ecies: invalid public key")
	ErrPrivateKeyEmpty   = errors.InvalidInput("ecies: private key is empty")
	ErrPublicKeyEmpty    = errors.InvalidInput("ecies: public key is empty")
)

// Encryption/Decryption errors
var (
	ErrEncryptionFailed = errors.Internal("ecies: encryption failed")

	// ErrCiphertextTooShort is returned when the input cannot hold a tag
	// and an ephemeral point.
	ErrCiphertextTooShort = errors.MalformedToken("ecies: ciphertext too short")

	// ErrInvalidEphemeralKey is returned when the trailing point does not
	// decode to a P-256 point.
	ErrInvalidEphemeralKey = errors.InvalidPoint("ecies: invalid ephemeral public key")

	// ErrAuthenticationFailed is returned when the GCM tag does not verify.
	ErrAuthenticationFailed = errors.AuthenticationFailure("ecies: message authentication failed")
)

// I/O errors
var (
	ErrInvalidPEMBlock = errors.InvalidInput("ecies: invalid PEM block")
	ErrKeyFileRead     = errors.Internal("ecies: failed to read key file")
	ErrKeyFileWrite    = errors.Internal("ecies: failed to write key file")
)
