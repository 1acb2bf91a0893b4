package convert

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/kochabx/clea/errors"
)

// Int64Bytes returns v as 8 big-endian bytes.
func Int64Bytes(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}

// Hex decodes s, ignoring surrounding whitespace and an optional 0x prefix.
// An odd number of digits is left-padded with a zero nibble.
func Hex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.InvalidInput("invalid hex string").WithCause(err)
	}
	return b, nil
}

// LeftPad returns b left-padded with zeros to size bytes. b is returned
// unchanged when it is already long enough.
func LeftPad(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	out := make([]byte, size)
	copy(out[size-len(b):], b)
	return out
}
