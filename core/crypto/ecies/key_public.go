package ecies

import (
	"crypto/ecdh"
	"crypto/elliptic"
	"crypto/subtle"
	"encoding/hex"

	"github.com/kochabx/clea/core/crypto/ec"
	"github.com/kochabx/clea/core/util/convert"
)

// PublicKey is a P-256 public key used as an encryption recipient.
type PublicKey struct {
	ecdhKey *ecdh.PublicKey
}

// NewPublicKey parses a SEC1 encoded point, either uncompressed (65 bytes)
// or compressed (33 bytes).
func NewPublicKey(b []byte) (*PublicKey, error) {
	switch len(b) {
	case 0:
		return nil, ErrPublicKeyEmpty
	case CompressedKeyBytes:
		x, y := elliptic.UnmarshalCompressed(elliptic.P256(), b)
		if x == nil {
			return nil, ErrInvalidPublicKey
		}
		raw := make([]byte, PublicKeyBytes)
		raw[0] = 0x04
		x.FillBytes(raw[1 : 1+CurvePointSize])
		y.FillBytes(raw[1+CurvePointSize:])
		b = raw
	}

	key, err := ecdh.P256().NewPublicKey(b)
	if err != nil {
		return nil, ErrInvalidPublicKey.WithCause(err)
	}
	return &PublicKey{ecdhKey: key}, nil
}

// ParsePublicKeyHex parses a hex encoded SEC1 point.
func ParsePublicKeyHex(s string) (*PublicKey, error) {
	b, err := convert.Hex(s)
	if err != nil {
		return nil, ErrInvalidPublicKey.WithCause(err)
	}
	return NewPublicKey(b)
}

// Bytes returns the SEC1 encoding: 33 bytes when compressed, 65 otherwise.
func (pub *PublicKey) Bytes(compressed bool) []byte {
	raw := pub.ecdhKey.Bytes()
	if !compressed {
		return raw
	}
	c, _ := ec.Compress(raw)
	return c
}

// Hex returns the hex encoding of Bytes(compressed).
func (pub *PublicKey) Hex(compressed bool) string {
	return hex.EncodeToString(pub.Bytes(compressed))
}

// ECDH returns the public key in crypto/ecdh form.
func (pub *PublicKey) ECDH() *ecdh.PublicKey {
	return pub.ecdhKey
}

// Equals compares two public keys in constant time.
func (pub *PublicKey) Equals(other *PublicKey) bool {
	if pub == nil || other == nil {
		return pub == other
	}
	return subtle.ConstantTimeCompare(pub.ecdhKey.Bytes(), other.ecdhKey.Bytes()) == 1
}
