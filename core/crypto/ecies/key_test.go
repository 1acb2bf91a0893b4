package ecies

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kochabx/clea/errors"
)

// TestGenerateKey tests key pair generation
func TestGenerateKey(t *testing.T) {
	privateKey := mustKey(t)
	defer privateKey.Destroy()

	if len(privateKey.Bytes()) != CurvePointSize {
		t.Errorf("private key length = %d", len(privateKey.Bytes()))
	}
	if n := len(privateKey.Public().Bytes(false)); n != PublicKeyBytes {
		t.Errorf("public key length = %d, want %d", n, PublicKeyBytes)
	}
	if n := len(privateKey.Public().Bytes(true)); n != CompressedKeyBytes {
		t.Errorf("compressed length = %d, want %d", n, CompressedKeyBytes)
	}
}

// TestKeyEquality tests key equality checking
func TestKeyEquality(t *testing.T) {
	key1 := mustKey(t)
	key2 := mustKey(t)

	if !key1.Equals(key1) || key1.Equals(key2) || key1.Equals(nil) {
		t.Error("private key equality is wrong")
	}
	if !key1.Public().Equals(key1.Public()) || key1.Public().Equals(key2.Public()) {
		t.Error("public key equality is wrong")
	}
}

// TestParseHex covers hex import of both key halves
func TestParseHex(t *testing.T) {
	key := mustKey(t)

	priv, err := ParsePrivateKeyHex(key.Hex())
	if err != nil {
		t.Fatalf("ParsePrivateKeyHex: %v", err)
	}
	if !priv.Equals(key) || !priv.Public().Equals(key.Public()) {
		t.Error("private key did not survive hex")
	}

	for _, compressed := range []bool{true, false} {
		pub, err := ParsePublicKeyHex(key.Public().Hex(compressed))
		if err != nil {
			t.Fatalf("ParsePublicKeyHex(%v): %v", compressed, err)
		}
		if !pub.Equals(key.Public()) {
			t.Errorf("public key did not survive hex (compressed=%v)", compressed)
		}
	}

	// Scalars printed without leading zeros.
	short, err := ParsePrivateKeyHex("1")
	if err != nil {
		t.Fatalf("short scalar: %v", err)
	}
	if want := append(bytes.Repeat([]byte{0}, 31), 1); !bytes.Equal(short.Bytes(), want) {
		t.Errorf("short scalar = %x", short.Bytes())
	}
}

// TestParseErrors tests invalid key material
func TestParseErrors(t *testing.T) {
	if _, err := ParsePrivateKeyHex("00"); !errors.Is(err, ErrInvalidPrivateKey) {
		t.Errorf("zero scalar: %v", err)
	}
	if _, err := ParsePrivateKeyHex(strings.Repeat("ff", 33)); !errors.Is(err, ErrInvalidPrivateKey) {
		t.Errorf("long scalar: %v", err)
	}
	if _, err := NewPrivateKey(nil); !errors.Is(err, ErrPrivateKeyEmpty) {
		t.Errorf("empty scalar: %v", err)
	}
	if _, err := ParsePublicKeyHex("04" + strings.Repeat("00", 64)); !errors.IsInvalidPoint(err) {
		t.Errorf("zero point: %v", err)
	}
	if _, err := ParsePublicKeyHex("zz"); err == nil {
		t.Error("bad hex accepted")
	}
}

// TestKeyPairFiles tests PEM persistence
func TestKeyPairFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "keys")

	key, err := GenerateKeyPair(WithDirpath(dir), WithPrivateKeyFilename("sa.pem"))
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	priv, err := LoadPrivateKey(filepath.Join(dir, "sa.pem"))
	if err != nil {
		t.Fatalf("LoadPrivateKey: %v", err)
	}
	if !priv.Equals(key) {
		t.Error("loaded private key differs")
	}

	pub, err := LoadPublicKey(filepath.Join(dir, "public.pem"))
	if err != nil {
		t.Fatalf("LoadPublicKey: %v", err)
	}
	if !pub.Equals(key.Public()) {
		t.Error("loaded public key differs")
	}

	garbage := filepath.Join(dir, "garbage.pem")
	if err := os.WriteFile(garbage, []byte("not pem"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPrivateKey(garbage); !errors.Is(err, ErrInvalidPEMBlock) {
		t.Errorf("garbage file: %v", err)
	}
	if _, err := LoadPublicKey(filepath.Join(dir, "missing.pem")); !errors.Is(err, ErrKeyFileRead) {
		t.Errorf("missing file: %v", err)
	}
}
