package ecies

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdh"
	"crypto/rand"
	"strconv"

	"github.com/kochabx/clea/core/crypto/ec"
	"github.com/kochabx/clea/errors"
)

// Agreement computes the raw ECDH shared secret between priv and the
// compressed ephemeral point c0. It returns the 32-byte X coordinate.
type Agreement func(priv *PrivateKey, c0 []byte) ([]byte, error)

// PlatformAgreement decompresses c0 with crypto/elliptic and runs
// crypto/ecdh.
func PlatformAgreement(priv *PrivateKey, c0 []byte) ([]byte, error) {
	pub, err := NewPublicKey(c0)
	if err != nil {
		return nil, ErrInvalidEphemeralKey.WithCause(err)
	}
	return priv.ECDH(pub)
}

// ScalarAgreement decompresses c0 and multiplies it with the big-integer
// arithmetic of core/crypto/ec.
func ScalarAgreement(priv *PrivateKey, c0 []byte) ([]byte, error) {
	if priv.ecdhKey == nil {
		return nil, ErrPrivateKeyEmpty
	}
	s, err := ec.SharedSecret(priv.Bytes(), c0)
	if err != nil {
		return nil, ErrInvalidEphemeralKey.WithCause(err)
	}
	return s, nil
}

type decryptOptions struct {
	agreement Agreement
}

// DecryptOption configures Decrypt.
type DecryptOption func(*decryptOptions)

// WithAgreement selects the shared secret computation.
func WithAgreement(a Agreement) DecryptOption {
	return func(o *decryptOptions) {
		if a != nil {
			o.agreement = a
		}
	}
}

// WithScalarArithmetic is WithAgreement(ScalarAgreement).
func WithScalarArithmetic() DecryptOption {
	return WithAgreement(ScalarAgreement)
}

// Encrypt seals plaintext for recipient and returns
// associatedData || ciphertext || tag || C0, where C0 is the compressed
// ephemeral public key. associatedData is authenticated, not encrypted.
func Encrypt(associatedData, plaintext []byte, recipient *PublicKey) ([]byte, error) {
	if recipient == nil {
		return nil, ErrPublicKeyEmpty
	}

	ephemeral, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, ErrEncryptionFailed.WithCause(err)
	}
	shared, err := ephemeral.ECDH(recipient.ecdhKey)
	if err != nil {
		return nil, ErrEncryptionFailed.WithCause(err)
	}
	defer zeroBytes(shared)

	c0, err := ec.Compress(ephemeral.PublicKey().Bytes())
	if err != nil {
		return nil, ErrEncryptionFailed.WithCause(err)
	}

	aead, err := newAEAD(deriveKey(c0, shared))
	if err != nil {
		return nil, ErrEncryptionFailed.WithCause(err)
	}

	out := make([]byte, 0, len(associatedData)+len(plaintext)+Overhead)
	out = append(out, associatedData...)
	out = aead.Seal(out, fixedIV[:], plaintext, associatedData)
	return append(out, c0...), nil
}

// Decrypt opens combined, which is ciphertext || tag || C0 as produced by
// Encrypt without its associated data. header must be that associated data.
//
// A failed tag check returns ErrAuthenticationFailed and no plaintext.
func Decrypt(header, combined []byte, priv *PrivateKey, opts ...DecryptOption) ([]byte, error) {
	if priv == nil {
		return nil, ErrPrivateKeyEmpty
	}
	if len(combined) < Overhead {
		return nil, ErrCiphertextTooShort.WithMetadata(map[string]string{"length": strconv.Itoa(len(combined))})
	}

	o := decryptOptions{agreement: PlatformAgreement}
	for _, opt := range opts {
		opt(&o)
	}

	split := len(combined) - CompressedKeyBytes
	sealed, c0 := combined[:split], combined[split:]

	shared, err := o.agreement(priv, c0)
	if err != nil {
		if errors.Code(err) == errors.UnknownCode {
			return nil, ErrInvalidEphemeralKey.WithCause(err)
		}
		return nil, err
	}
	defer zeroBytes(shared)

	aead, err := newAEAD(deriveKey(c0, shared))
	if err != nil {
		return nil, errors.Internal("ecies: create AEAD").WithCause(err)
	}

	plaintext, err := aead.Open(nil, fixedIV[:], sealed, header)
	if err != nil {
		return nil, ErrAuthenticationFailed.WithCause(err)
	}
	return plaintext, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	defer zeroBytes(key)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithTagSize(block, AESGCMTagSize)
}
