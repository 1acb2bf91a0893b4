package errors

import (
	stderrors "errors"
)

// Is forwards to the standard library so callers need one errors import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As forwards to the standard library.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// AsError returns the first *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var ge *Error
	if err == nil || !stderrors.As(err, &ge) {
		return nil, false
	}
	return ge, true
}
