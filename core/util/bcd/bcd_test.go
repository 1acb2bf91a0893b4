package bcd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/clea/errors"
)

func TestPack(t *testing.T) {
	tests := []struct {
		name    string
		digits  string
		size    int
		want    []byte
		wantErr bool
	}{
		{"phone", "0667089908", 8, []byte{0x06, 0x67, 0x08, 0x99, 0x08, 0xFF, 0xFF, 0xFF}, false},
		{"odd", "123", 2, []byte{0x12, 0x3F}, false},
		{"pin", "123456", 3, []byte{0x12, 0x34, 0x56}, false},
		{"empty", "", 2, []byte{0xFF, 0xFF}, false},
		{"too long", "1234567", 3, nil, true},
		{"non digit", "12a4", 2, nil, true},
		{"negative size", "", -1, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Pack(tt.digits, tt.size)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnpack(t *testing.T) {
	phone := []byte{0x06, 0x67, 0x08, 0x99, 0x08, 0xFF, 0xFF, 0xFF}
	assert.Equal(t, "0667089908", Unpack(phone, true, true))
	assert.Equal(t, "0667089908", Unpack(phone, true, false))
	assert.Equal(t, "0667089908151515151515", Unpack(phone, false, false))

	// A full 15 digit phone with the reserved last nibble cleared.
	full := []byte{0x12, 0x34, 0x56, 0x78, 0x90, 0x12, 0x34, 0x50}
	assert.Equal(t, "123456789012345", Unpack(full, true, true))
	assert.Equal(t, "1234567890123450", Unpack(full, true, false))

	assert.Equal(t, "123456", Unpack([]byte{0x12, 0x34, 0x56}, true, false))
	// Padding inside the field is skipped, not a terminator.
	assert.Equal(t, "123", Unpack([]byte{0x12, 0xF3}, true, false))
	assert.Equal(t, "12153", Unpack([]byte{0x12, 0xF3}, false, false))
	assert.Equal(t, "12", Unpack([]byte{0x12, 0xFF}, true, false))
	assert.Equal(t, "121515", Unpack([]byte{0x12, 0xFF}, false, false))
	assert.Equal(t, "1210", Unpack([]byte{0x12, 0xAF}, true, false))
	assert.Equal(t, "", Unpack(nil, true, true))
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "42", "33612345678", "999999999999999"} {
		b, err := Pack(s, 8)
		require.NoError(t, err)
		assert.Equal(t, s, Unpack(b, true, false))
	}
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("0123"))
	assert.False(t, IsDigits(""))
	assert.False(t, IsDigits("12 3"))
}
