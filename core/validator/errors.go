package validator

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/kochabx/clea/errors"
)

type validationErrorsImpl struct {
	fieldErrors []FieldError
	message     string
}

func (ve *validationErrorsImpl) Error() string {
	return ve.message
}

func (ve *validationErrorsImpl) Errors() []FieldError {
	return ve.fieldErrors
}

func (ve *validationErrorsImpl) HasErrors() bool {
	return len(ve.fieldErrors) > 0
}

type fieldErrorImpl struct {
	fieldError  validator.FieldError
	message     string
	translators map[string]ut.Translator
}

func (fe *fieldErrorImpl) Field() string     { return fe.fieldError.Field() }
func (fe *fieldErrorImpl) Namespace() string { return fe.fieldError.Namespace() }
func (fe *fieldErrorImpl) Tag() string       { return fe.fieldError.Tag() }
func (fe *fieldErrorImpl) Value() any        { return fe.fieldError.Value() }
func (fe *fieldErrorImpl) Message() string   { return fe.message }

// Translate renders the message in lang, falling back to the default.
func (fe *fieldErrorImpl) Translate(lang string) string {
	if trans, exists := fe.translators[lang]; exists {
		return fe.fieldError.Translate(trans)
	}
	return fe.message
}

// AsValidationErrors extracts the field errors from an error returned by
// Struct.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	ok := errors.As(err, &ve)
	return ve, ok
}

// HasFieldError reports whether err holds a failure for field, matched by
// its reported (json) name.
func HasFieldError(err error, field string) bool {
	ve, ok := AsValidationErrors(err)
	if !ok {
		return false
	}
	for _, fe := range ve.Errors() {
		if fe.Field() == field {
			return true
		}
	}
	return false
}

// FieldMessages maps each failing field to its message.
func FieldMessages(err error) map[string]string {
	ve, ok := AsValidationErrors(err)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(ve.Errors()))
	for _, fe := range ve.Errors() {
		out[fe.Field()] = fe.Message()
	}
	return out
}
