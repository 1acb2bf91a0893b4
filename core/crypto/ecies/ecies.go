// Package ecies implements the hybrid public key encryption used by
// location tokens.
//
// The construction is:
//   - NIST P-256 ECDH with a fresh ephemeral key for every message
//   - KDF1 over SHA-256 of the compressed ephemeral point and the shared secret
//   - AES-256-GCM with a fixed 12-byte IV and a 16-byte tag
//
// The fixed IV is safe only because every message is sealed under a key
// derived from a fresh ephemeral point. Encrypt therefore never accepts an
// externally supplied ephemeral key.
//
// Example usage:
//
//	privateKey, err := ecies.GenerateKey()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer privateKey.Destroy()
//
//	header := []byte{0x00}
//	sealed, err := ecies.Encrypt(header, []byte("payload"), privateKey.Public())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	plaintext, err := ecies.Decrypt(header, sealed[len(header):], privateKey)
//
// Decrypt uses crypto/ecdh by default. WithScalarArithmetic switches to the
// pure big-integer implementation in core/crypto/ec.
package ecies
