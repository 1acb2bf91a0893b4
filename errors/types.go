package errors

// Error codes used across the codec. They reuse HTTP status numbers so a
// transport layer can map them directly.
const (
	CodeInvalidInput          = 400
	CodeAuthenticationFailure = 401
	CodeInvalidPoint          = 406
	CodeMalformedToken        = 422
	CodeInternal              = 500
)

// InvalidInput reports a caller supplied value that is out of range or
// badly formed: bad digits, oversized keys, invalid field values.
func InvalidInput(format string, args ...any) *Error {
	return New(CodeInvalidInput, format, args...)
}

// AuthenticationFailure reports a failed AEAD tag check. No plaintext
// accompanies it.
func AuthenticationFailure(format string, args ...any) *Error {
	return New(CodeAuthenticationFailure, format, args...)
}

// InvalidPoint reports a byte string that does not encode a P-256 point.
func InvalidPoint(format string, args ...any) *Error {
	return New(CodeInvalidPoint, format, args...)
}

// MalformedToken reports a token of unexpected length or encoding.
func MalformedToken(format string, args ...any) *Error {
	return New(CodeMalformedToken, format, args...)
}

func Internal(format string, args ...any) *Error {
	return New(CodeInternal, format, args...)
}

func InvalidInputWithMetadata(metadata map[string]string, format string, args ...any) *Error {
	return NewWithMetadata(CodeInvalidInput, metadata, format, args...)
}

func MalformedTokenWithMetadata(metadata map[string]string, format string, args ...any) *Error {
	return NewWithMetadata(CodeMalformedToken, metadata, format, args...)
}

// IsInvalidInput reports whether err carries CodeInvalidInput.
func IsInvalidInput(err error) bool { return HasCode(err, CodeInvalidInput) }

// IsAuthenticationFailure reports whether err carries CodeAuthenticationFailure.
func IsAuthenticationFailure(err error) bool { return HasCode(err, CodeAuthenticationFailure) }

// IsInvalidPoint reports whether err carries CodeInvalidPoint.
func IsInvalidPoint(err error) bool { return HasCode(err, CodeInvalidPoint) }

// IsMalformedToken reports whether err carries CodeMalformedToken.
func IsMalformedToken(err error) bool { return HasCode(err, CodeMalformedToken) }
