package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := InvalidInput("bad digit %q", "x")
	assert.Equal(t, CodeInvalidInput, err.GetCode())
	assert.Equal(t, `bad digit "x"`, err.GetMessage())
	assert.Contains(t, err.Error(), "code=400")
}

func TestWithMetadata(t *testing.T) {
	err := MalformedToken("bad length")

	assert.Same(t, err, err.WithMetadata(nil))

	err2 := err.WithMetadata(map[string]string{"length": "12"})
	require.NotSame(t, err, err2)
	assert.Nil(t, err.GetMetadata())
	assert.Equal(t, "12", err2.GetMetadata()["length"])
	assert.Contains(t, err2.Error(), "length=12")
}

func TestWithCauseKeepsIdentity(t *testing.T) {
	sentinel := AuthenticationFailure("ecies: message authentication failed")
	cause := errors.New("cipher: message authentication failed")

	err := sentinel.WithCause(cause)
	assert.True(t, errors.Is(err, sentinel))
	assert.True(t, errors.Is(err, cause))
	assert.Same(t, cause, err.GetCause())
}

func TestHasCode(t *testing.T) {
	inner := InvalidPoint("not on curve")
	wrapped := fmt.Errorf("decode: %w", Wrap(inner, CodeMalformedToken, "token"))

	assert.True(t, HasCode(wrapped, CodeInvalidPoint))
	assert.True(t, HasCode(wrapped, CodeMalformedToken))
	assert.False(t, HasCode(wrapped, CodeAuthenticationFailure))
	assert.True(t, IsInvalidPoint(errors.Join(errors.New("x"), inner)))
	assert.False(t, HasCode(nil, CodeInvalidPoint))
}

func TestCode(t *testing.T) {
	assert.Equal(t, 0, Code(nil))
	assert.Equal(t, UnknownCode, Code(errors.New("plain")))
	assert.Equal(t, CodeMalformedToken, Code(fmt.Errorf("x: %w", MalformedToken("y"))))
}

func TestFromError(t *testing.T) {
	plain := FromError(errors.New("plain"))
	assert.Equal(t, UnknownCode, plain.GetCode())

	existing := InvalidInput("x")
	assert.Same(t, existing, FromError(existing))
	assert.Same(t, existing, FromError(fmt.Errorf("ctx: %w", existing)))
	assert.Nil(t, FromError(nil))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "x"))
	assert.Nil(t, WrapWithMetadata(nil, CodeInternal, nil, "x"))
}

func TestAsError(t *testing.T) {
	sentinel := AuthenticationFailure("tag mismatch")
	ge, ok := AsError(Wrap(errors.New("gcm"), CodeInvalidPoint, "x"))
	require.True(t, ok)
	assert.Equal(t, CodeInvalidPoint, ge.Code)

	ge, ok = AsError(fmt.Errorf("decode: %w", sentinel))
	require.True(t, ok)
	assert.Same(t, sentinel, ge)

	_, ok = AsError(errors.New("plain"))
	assert.False(t, ok)
	_, ok = AsError(nil)
	assert.False(t, ok)
	assert.True(t, Is(fmt.Errorf("x: %w", sentinel), sentinel))
}

func BenchmarkErrorString(b *testing.B) {
	err := InvalidInputWithMetadata(map[string]string{"field": "pin"}, "bad pin").
		WithCause(errors.New("not a digit"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = err.Error()
	}
}
