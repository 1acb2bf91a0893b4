// Package bcd packs decimal digit strings into binary-coded decimal, two
// digits per byte, high nibble first, padding unused nibbles with 0xF.
package bcd

import (
	"strconv"
	"strings"

	"github.com/kochabx/clea/errors"
)

// Pad is the nibble used to fill unused positions.
const Pad = 0xF

// Pack encodes digits into exactly size bytes.
func Pack(digits string, size int) ([]byte, error) {
	if size < 0 {
		return nil, errors.InvalidInput("bcd: negative size %d", size)
	}
	if len(digits) > 2*size {
		return nil, errors.InvalidInputWithMetadata(
			map[string]string{"digits": strconv.Itoa(len(digits)), "size": strconv.Itoa(size)},
			"bcd: too many digits")
	}

	out := make([]byte, size)
	for i := range out {
		out[i] = Pad<<4 | Pad
	}
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return nil, errors.InvalidInput("bcd: invalid digit %q at offset %d", c, i)
		}
		n := c - '0'
		if i%2 == 0 {
			out[i/2] = n<<4 | out[i/2]&0x0F
		} else {
			out[i/2] = out[i/2]&0xF0 | n
		}
	}
	return out, nil
}

// Unpack decodes b back into a digit string, high nibble first.
//
// When stopOnSentinel is set, Pad nibbles are omitted and decoding goes on.
// Any other nibble is written in decimal, so an unset stopOnSentinel turns
// 0xF into "15". When stopHalfByteOnLast is set, the low nibble of the last
// byte is never read.
func Unpack(b []byte, stopOnSentinel, stopHalfByteOnLast bool) string {
	var sb strings.Builder
	sb.Grow(2 * len(b))
	emit := func(n byte) {
		if n == Pad && stopOnSentinel {
			return
		}
		sb.WriteString(strconv.Itoa(int(n)))
	}
	for i, v := range b {
		emit(v >> 4)
		if stopHalfByteOnLast && i == len(b)-1 {
			break
		}
		emit(v & 0x0F)
	}
	return sb.String()
}

// IsDigits reports whether s is non-empty and made only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
