package ecies

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"

	"github.com/kochabx/clea/core/util/convert"
)

// PrivateKey is a P-256 private key used to open tokens.
type PrivateKey struct {
	publicKey *PublicKey
	ecdhKey   *ecdh.PrivateKey
}

// NewPrivateKey builds a key from a big-endian scalar of at most 32 bytes.
// Shorter scalars are left-padded, so keys printed without leading zeros
// are accepted.
func NewPrivateKey(scalar []byte) (*PrivateKey, error) {
	if len(scalar) == 0 {
		return nil, ErrPrivateKeyEmpty
	}
	if len(scalar) > CurvePointSize {
		return nil, ErrInvalidPrivateKey
	}
	key, err := ecdh.P256().NewPrivateKey(convert.LeftPad(scalar, CurvePointSize))
	if err != nil {
		return nil, ErrInvalidPrivateKey.WithCause(err)
	}
	return fromECDH(key), nil
}

// ParsePrivateKeyHex parses a hex encoded scalar.
func ParsePrivateKeyHex(s string) (*PrivateKey, error) {
	b, err := convert.Hex(s)
	if err != nil {
		return nil, ErrInvalidPrivateKey.WithCause(err)
	}
	return NewPrivateKey(b)
}

// GenerateKey generates a new P-256 key pair.
func GenerateKey() (*PrivateKey, error) {
	key, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return fromECDH(key), nil
}

func fromECDH(key *ecdh.PrivateKey) *PrivateKey {
	return &PrivateKey{
		publicKey: &PublicKey{ecdhKey: key.PublicKey()},
		ecdhKey:   key,
	}
}

// Public returns the matching public key.
func (priv *PrivateKey) Public() *PublicKey {
	return priv.publicKey
}

// Bytes returns the 32-byte big-endian scalar.
func (priv *PrivateKey) Bytes() []byte {
	if priv.ecdhKey == nil {
		return nil
	}
	return priv.ecdhKey.Bytes()
}

func (priv *PrivateKey) Hex() string {
	return hex.EncodeToString(priv.Bytes())
}

// ECDH returns the raw shared secret with pub: the 32-byte X coordinate.
// It is not a key; Encrypt and Decrypt run it through the KDF.
func (priv *PrivateKey) ECDH(pub *PublicKey) ([]byte, error) {
	if pub == nil {
		return nil, ErrPublicKeyEmpty
	}
	if priv.ecdhKey == nil {
		return nil, ErrPrivateKeyEmpty
	}
	return priv.ecdhKey.ECDH(pub.ecdhKey)
}

// Equals compares two private keys in constant time.
func (priv *PrivateKey) Equals(other *PrivateKey) bool {
	if priv == nil || other == nil {
		return priv == other
	}
	return subtle.ConstantTimeCompare(priv.Bytes(), other.Bytes()) == 1
}

// Destroy drops the key material. The key must not be used afterwards.
func (priv *PrivateKey) Destroy() {
	// crypto/ecdh offers no way to wipe its copy.
	priv.ecdhKey = nil
}
