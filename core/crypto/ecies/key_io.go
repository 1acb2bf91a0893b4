package ecies

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"

	"github.com/kochabx/clea/core/tag"
	"github.com/kochabx/clea/errors"
)

const (
	pemTypePrivate   = "PRIVATE KEY"
	pemTypeECPrivate = "EC PRIVATE KEY"
	pemTypePublic    = "PUBLIC KEY"
)

// KeyOption controls where GenerateKeyPair writes its files.
type KeyOption struct {
	Dirpath            string `json:"dirpath" default:"."`
	PrivateKeyFilename string `json:"private_key_filename" default:"private.pem"`
	PublicKeyFilename  string `json:"public_key_filename" default:"public.pem"`
}

func WithDirpath(dirpath string) func(*KeyOption) {
	return func(o *KeyOption) {
		o.Dirpath = dirpath
	}
}

func WithPrivateKeyFilename(filename string) func(*KeyOption) {
	return func(o *KeyOption) {
		o.PrivateKeyFilename = filename
	}
}

func WithPublicKeyFilename(filename string) func(*KeyOption) {
	return func(o *KeyOption) {
		o.PublicKeyFilename = filename
	}
}

// GenerateKeyPair generates a key pair, writes both halves as PEM and
// returns the private key.
func GenerateKeyPair(opts ...func(*KeyOption)) (*PrivateKey, error) {
	option := &KeyOption{}
	if err := tag.ApplyDefaults(option); err != nil {
		return nil, errors.Internal("ecies: apply key option defaults").WithCause(err)
	}
	for _, opt := range opts {
		opt(option)
	}

	privateKey, err := GenerateKey()
	if err != nil {
		return nil, ErrEncryptionFailed.WithCause(err)
	}

	if err := os.MkdirAll(option.Dirpath, 0o700); err != nil {
		return nil, ErrKeyFileWrite.WithCause(err)
	}
	if err := SavePrivateKey(privateKey, filepath.Join(option.Dirpath, option.PrivateKeyFilename)); err != nil {
		return nil, err
	}
	if err := SavePublicKey(privateKey.Public(), filepath.Join(option.Dirpath, option.PublicKeyFilename)); err != nil {
		return nil, err
	}
	return privateKey, nil
}

// SavePrivateKey writes privateKey to path as a PKCS#8 PEM block.
func SavePrivateKey(privateKey *PrivateKey, path string) error {
	if privateKey == nil || privateKey.ecdhKey == nil {
		return ErrPrivateKeyEmpty
	}
	der, err := x509.MarshalPKCS8PrivateKey(privateKey.ecdhKey)
	if err != nil {
		return ErrKeyFileWrite.WithCause(err)
	}
	return writePEM(path, &pem.Block{Type: pemTypePrivate, Bytes: der}, 0o600)
}

// SavePublicKey writes publicKey to path as a PKIX PEM block.
func SavePublicKey(publicKey *PublicKey, path string) error {
	if publicKey == nil {
		return ErrPublicKeyEmpty
	}
	der, err := x509.MarshalPKIXPublicKey(publicKey.ecdhKey)
	if err != nil {
		return ErrKeyFileWrite.WithCause(err)
	}
	return writePEM(path, &pem.Block{Type: pemTypePublic, Bytes: der}, 0o644)
}

// LoadPrivateKey reads a PKCS#8 or SEC1 ("EC PRIVATE KEY") PEM file.
func LoadPrivateKey(path string) (*PrivateKey, error) {
	block, err := readPEM(path)
	if err != nil {
		return nil, err
	}

	var parsed any
	switch block.Type {
	case pemTypeECPrivate:
		parsed, err = x509.ParseECPrivateKey(block.Bytes)
	default:
		parsed, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	}
	if err != nil {
		return nil, ErrInvalidPrivateKey.WithCause(err)
	}

	switch k := parsed.(type) {
	case *ecdsa.PrivateKey:
		key, err := k.ECDH()
		if err != nil {
			return nil, ErrInvalidPrivateKey.WithCause(err)
		}
		return NewPrivateKey(key.Bytes())
	case *ecdh.PrivateKey:
		return NewPrivateKey(k.Bytes())
	default:
		return nil, ErrInvalidPrivateKey
	}
}

// LoadPublicKey reads a PKIX PEM file.
func LoadPublicKey(path string) (*PublicKey, error) {
	block, err := readPEM(path)
	if err != nil {
		return nil, err
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, ErrInvalidPublicKey.WithCause(err)
	}

	switch k := parsed.(type) {
	case *ecdsa.PublicKey:
		key, err := k.ECDH()
		if err != nil {
			return nil, ErrInvalidPublicKey.WithCause(err)
		}
		return NewPublicKey(key.Bytes())
	case *ecdh.PublicKey:
		return NewPublicKey(k.Bytes())
	default:
		return nil, ErrInvalidPublicKey
	}
}

func writePEM(path string, block *pem.Block, perm os.FileMode) error {
	if err := os.WriteFile(path, pem.EncodeToMemory(block), perm); err != nil {
		return ErrKeyFileWrite.WithCause(err)
	}
	return nil
}

func readPEM(path string) (*pem.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrKeyFileRead.WithCause(err)
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEMBlock
	}
	return block, nil
}
