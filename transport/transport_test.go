package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{":9090", true},
		{"127.0.0.1:9090", true},
		{"[::1]:9090", true},
		{"localhost:80", true},
		{"", false},
		{"localhost", false},
		{":0", true},
		{":-1", false},
		{":65536", false},
		{"-bad:80", false},
		{"bad_host:80", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateAddress(tt.addr), tt.addr)
	}
}
