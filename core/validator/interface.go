package validator

import (
	"context"

	"github.com/go-playground/validator/v10"
)

// Validator checks struct fields against their `validate` tags.
type Validator interface {
	Struct(s any) error
	StructCtx(ctx context.Context, s any) error

	// GetValidator exposes the underlying validator for custom rules.
	GetValidator() *validator.Validate
}

// ValidationErrors is the cause attached to a failed validation.
type ValidationErrors interface {
	error
	Errors() []FieldError
	HasErrors() bool
}

// FieldError describes one failed rule.
type FieldError interface {
	Field() string
	Namespace() string
	Tag() string
	Value() any
	Message() string
	Translate(lang string) string
}

type ValidationOption func(*validatorImpl)

func WithTagName(tagName string) ValidationOption {
	return func(v *validatorImpl) {
		v.validator.SetTagName(tagName)
	}
}

// WithLanguage selects the language of error messages, "en" or "zh".
func WithLanguage(lang string) ValidationOption {
	return func(v *validatorImpl) {
		v.defaultLang = lang
	}
}
