package validator

import (
	"context"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"

	"github.com/kochabx/clea/errors"
)

type validatorImpl struct {
	validator   *validator.Validate
	uni         *ut.UniversalTranslator
	translators map[string]ut.Translator
	defaultLang string
}

// Validate is the shared validator instance.
var (
	Validate Validator
	once     sync.Once
)

func init() {
	once.Do(func() {
		Validate = New()
	})
}

// New creates a validator with English and Chinese messages and the
// codec specific rules registered.
func New(opts ...ValidationOption) Validator {
	v := &validatorImpl{
		validator:   validator.New(validator.WithRequiredStructEnabled()),
		translators: make(map[string]ut.Translator, 2),
		defaultLang: "en",
	}

	enLocale := en.New()
	v.uni = ut.New(enLocale, enLocale, zh.New())

	// Report json names, so messages match config keys.
	v.validator.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	for _, opt := range opts {
		opt(v)
	}

	v.initTranslators()
	v.registerRules()
	return v
}

func (v *validatorImpl) initTranslators() {
	if trans, found := v.uni.GetTranslator("en"); found {
		v.translators["en"] = trans
		_ = en_translations.RegisterDefaultTranslations(v.validator, trans)
	}
	if trans, found := v.uni.GetTranslator("zh"); found {
		v.translators["zh"] = trans
		_ = zh_translations.RegisterDefaultTranslations(v.validator, trans)
	}
}

// registerRules adds the "digits" rule: a string made only of ASCII
// digits. The built-in "numeric" also accepts signs and decimals.
func (v *validatorImpl) registerRules() {
	_ = v.validator.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for i := 0; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
		return s != ""
	})

	messages := map[string]string{
		"en": "{0} must contain only decimal digits",
		"zh": "{0}只能包含数字",
	}
	for lang, msg := range messages {
		trans := v.translators[lang]
		if trans == nil {
			continue
		}
		_ = v.validator.RegisterTranslation("digits", trans,
			func(ut ut.Translator) error { return ut.Add("digits", msg, true) },
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T("digits", fe.Field())
				return t
			})
	}
}

// Struct validates s. Failures are InvalidInput errors whose cause is a
// ValidationErrors.
func (v *validatorImpl) Struct(s any) error {
	return v.StructCtx(context.Background(), s)
}

func (v *validatorImpl) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return errors.InvalidInput("validation target cannot be nil")
	}
	if err := v.validator.StructCtx(ctx, s); err != nil {
		return v.translateError(err)
	}
	return nil
}

func (v *validatorImpl) GetValidator() *validator.Validate {
	return v.validator
}

func (v *validatorImpl) translateError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errors.InvalidInput("validation failed").WithCause(err)
	}

	trans := v.translators[v.defaultLang]
	if trans == nil {
		trans = v.translators["en"]
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldError := &fieldErrorImpl{
			fieldError:  fe,
			message:     fe.Translate(trans),
			translators: v.translators,
		}
		fieldErrors = append(fieldErrors, fieldError)
		messages = append(messages, fieldError.Message())
	}

	ve := &validationErrorsImpl{
		fieldErrors: fieldErrors,
		message:     strings.Join(messages, "; "),
	}
	return errors.InvalidInput("%s", ve.message).WithCause(ve)
}
