package desensitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	assert.Equal(t, "********08", Phone("0667089908"))
	assert.Equal(t, "**", Phone("12"))
	assert.Equal(t, "", Phone(""))
}

func TestPIN(t *testing.T) {
	assert.Equal(t, "******", PIN("123456"))
}

func TestCustom(t *testing.T) {
	tests := []struct {
		in   string
		keep int
		want string
	}{
		{"a1b2c3d4e5", 2, "a1******e5"},
		{"abcd", 2, "****"},
		{"abc", -1, "***"},
		{"abcdef", 0, "******"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Custom(tt.in, tt.keep))
		assert.Equal(t, tt.want, Secret(tt.in, tt.keep))
	}
}
