package lsp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"

	"github.com/kochabx/clea/errors"
)

var ltidMessage = []byte{'1'}

// DeriveLocationTemporaryKey returns SHA-256 of a 64-byte block holding the
// permanent key left-aligned and periodStart big-endian in its last four
// bytes.
func DeriveLocationTemporaryKey(permanentKey []byte, periodStart uint32) (LTKey, error) {
	if len(permanentKey) == 0 || len(permanentKey) > MaxPermanentKeySize {
		return LTKey{}, errors.InvalidInput("lsp: permanent location secret key must be 1 to %d bytes, got %d",
			MaxPermanentKeySize, len(permanentKey))
	}

	var block [64]byte
	copy(block[:], permanentKey)
	binary.BigEndian.PutUint32(block[MaxPermanentKeySize:], periodStart)
	return sha256.Sum256(block[:]), nil
}

// DeriveLocationTemporaryID returns the first 16 bytes of
// HMAC-SHA-256(ltKey, "1").
func DeriveLocationTemporaryID(ltKey LTKey) LTId {
	mac := hmac.New(sha256.New, ltKey[:])
	mac.Write(ltidMessage)

	var id LTId
	copy(id[:], mac.Sum(nil))
	return id
}

// Derive computes the key and identifier of a period.
func Derive(permanentKey []byte, periodStart uint32) (LTKey, LTId, error) {
	key, err := DeriveLocationTemporaryKey(permanentKey, periodStart)
	if err != nil {
		return LTKey{}, LTId{}, err
	}
	return key, DeriveLocationTemporaryID(key), nil
}
