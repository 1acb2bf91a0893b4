package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/clea/errors"
)

type contact struct {
	Phone  string `json:"phone" validate:"required,digits,max=15"`
	Region uint8  `json:"region"`
	Pin    string `json:"pin" validate:"required,digits,len=6"`
}

type venue struct {
	Type     uint8    `json:"venue_type" validate:"lte=31"`
	Country  uint16   `json:"country_code" validate:"lte=4095"`
	Duration uint8    `json:"period_duration" validate:"gte=1"`
	Contact  *contact `json:"contact" validate:"omitempty"`
}

func TestValidStruct(t *testing.T) {
	v := New()
	err := v.Struct(venue{
		Type: 31, Country: 250, Duration: 24,
		Contact: &contact{Phone: "0612345678", Pin: "012345"},
	})
	assert.NoError(t, err)
}

func TestInvalidStruct(t *testing.T) {
	v := New()
	err := v.Struct(venue{
		Type: 32, Country: 4096, Duration: 0,
		Contact: &contact{Phone: "06-12", Pin: "12345"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))

	for _, field := range []string{"venue_type", "country_code", "period_duration", "phone", "pin"} {
		assert.True(t, HasFieldError(err, field), field)
	}
	assert.False(t, HasFieldError(err, "region"))

	msgs := FieldMessages(err)
	assert.Equal(t, "phone must contain only decimal digits", msgs["phone"])

	ve, ok := AsValidationErrors(err)
	require.True(t, ok)
	assert.True(t, ve.HasErrors())
	for _, fe := range ve.Errors() {
		if fe.Field() == "phone" {
			assert.NotEmpty(t, fe.Translate("zh"))
			assert.Equal(t, "digits", fe.Tag())
		}
	}
}

func TestNilTarget(t *testing.T) {
	assert.True(t, errors.IsInvalidInput(Validate.Struct(nil)))
}

func TestLanguage(t *testing.T) {
	v := New(WithLanguage("zh"))
	err := v.Struct(contact{Phone: "1", Pin: "x"})
	require.Error(t, err)
	assert.NotEmpty(t, FieldMessages(err)["pin"])
	assert.NotNil(t, v.GetValidator())
}
