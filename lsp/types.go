// Package lsp encodes and decodes CLEA location specific parts, the
// encrypted payload carried by venue QR codes.
package lsp

import (
	"encoding/hex"

	"github.com/google/uuid"

	"github.com/kochabx/clea/errors"
)

const (
	HeaderSize           = 1 + LTIdSize
	MessageSize          = 44
	ContactSize          = 16
	EncryptedContactSize = ContactSize + 49
	TokenSize            = HeaderSize + MessageSize + 49
	TokenWithContactSize = TokenSize + EncryptedContactSize

	LTIdSize  = 16
	LTKeySize = 32

	// MaxPermanentKeySize leaves room for the period start in the
	// derivation buffer.
	MaxPermanentKeySize = 60

	// NoRenewal is the renewal exponent of a QR code that never changes
	// within its period.
	NoRenewal = 0x1F
	// UnlimitedDuration marks a period that never ends.
	UnlimitedDuration = 255

	DefaultPrefix = "https://tac.gouv.fr/"
)

// LTId is the location temporary public identifier.
type LTId [LTIdSize]byte

// UUID renders the identifier as a UUID.
func (id LTId) UUID() uuid.UUID { return uuid.UUID(id) }

func (id LTId) String() string { return id.UUID().String() }

func (id LTId) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *LTId) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	if err != nil {
		return errors.InvalidInput("lsp: invalid location temporary id").WithCause(err)
	}
	*id = LTId(u)
	return nil
}

// LTKey is the location temporary secret key.
type LTKey [LTKeySize]byte

func (k LTKey) Hex() string { return hex.EncodeToString(k[:]) }

func (k LTKey) MarshalText() ([]byte, error) { return []byte(k.Hex()), nil }

func (k *LTKey) UnmarshalText(b []byte) error {
	if hex.DecodedLen(len(b)) != LTKeySize {
		return errors.InvalidInput("lsp: location temporary key must be %d bytes", LTKeySize)
	}
	if _, err := hex.Decode(k[:], b); err != nil {
		return errors.InvalidInput("lsp: invalid location temporary key").WithCause(err)
	}
	return nil
}

// Venue holds the static parameters of a location. They are copied into
// every LocationSpecificPart of the location.
type Venue struct {
	Version         uint8  `json:"version" mapstructure:"version" validate:"lte=7"`
	Type            uint8  `json:"type" mapstructure:"type" validate:"lte=7"`
	CountryCode     uint16 `json:"country_code" mapstructure:"country_code" validate:"lte=4095"`
	Staff           bool   `json:"staff" mapstructure:"staff"`
	RenewalExponent uint8  `json:"renewal_exponent" mapstructure:"renewal_exponent" validate:"lte=31"`
	VenueType       uint8  `json:"venue_type" mapstructure:"venue_type" validate:"lte=31"`
	VenueCategory1  uint8  `json:"venue_category1" mapstructure:"venue_category1" validate:"lte=15"`
	VenueCategory2  uint8  `json:"venue_category2" mapstructure:"venue_category2" validate:"lte=15"`
	PeriodDuration  uint8  `json:"period_duration" mapstructure:"period_duration" default:"24"`
}

// LocationSpecificPart is the clear content of a location token. It is a
// value: renewal returns a modified copy.
type LocationSpecificPart struct {
	Venue

	LTId                    LTId   `json:"ltid"`
	PeriodStartTime         uint32 `json:"period_start_time"`
	QRCodeValidityStartTime uint32 `json:"qrcode_validity_start_time"`
	LTKey                   LTKey  `json:"ltkey"`
}

// QRCodeRenewalInterval returns the renewal interval in seconds, or 0
// when the QR code is never renewed.
func (p LocationSpecificPart) QRCodeRenewalInterval() uint32 {
	if p.RenewalExponent == NoRenewal {
		return 0
	}
	return 1 << (p.RenewalExponent & NoRenewal)
}

// CompressedPeriodStartTime is the period start in hours.
func (p LocationSpecificPart) CompressedPeriodStartTime() uint32 {
	return p.PeriodStartTime / 3600
}

// PeriodEnd returns the NTP time the period ends at. ok is false for an
// unlimited period.
func (p LocationSpecificPart) PeriodEnd() (end uint64, ok bool) {
	if p.PeriodDuration == UnlimitedDuration {
		return 0, false
	}
	return uint64(p.PeriodStartTime) + uint64(p.PeriodDuration)*3600, true
}

// ValidateQRStart checks that qrStart is an acceptable validity start for
// the next QR code of this period.
func (p LocationSpecificPart) ValidateQRStart(qrStart uint32) error {
	interval := p.QRCodeRenewalInterval()
	meta := map[string]string{"period_start": u32(p.PeriodStartTime), "qr_start": u32(qrStart)}

	if interval == 0 && p.QRCodeValidityStartTime != 0 {
		return errors.InvalidInputWithMetadata(meta, "lsp: QR code renewal is disabled for this location")
	}
	if qrStart < p.PeriodStartTime {
		return errors.InvalidInputWithMetadata(meta, "lsp: QR code validity starts before the period")
	}
	if end, ok := p.PeriodEnd(); ok && uint64(qrStart) > end {
		return errors.InvalidInputWithMetadata(meta, "lsp: QR code validity starts after the period")
	}
	if interval != 0 && (qrStart-p.PeriodStartTime)%interval != 0 {
		return errors.InvalidInputWithMetadata(meta, "lsp: QR code validity start is not aligned to the renewal interval")
	}
	return nil
}

// WithQRCodeValidityStartTime returns a copy of p valid from qrStart.
func (p LocationSpecificPart) WithQRCodeValidityStartTime(qrStart uint32) (LocationSpecificPart, error) {
	if err := p.ValidateQRStart(qrStart); err != nil {
		return p, err
	}
	p.QRCodeValidityStartTime = qrStart
	return p, nil
}

// ContactMessage is the optional manual contact tracing block.
type ContactMessage struct {
	Phone           string `json:"phone" mapstructure:"phone" validate:"required,digits,max=15"`
	Region          uint8  `json:"region" mapstructure:"region"`
	PIN             string `json:"pin" mapstructure:"pin" validate:"required,digits,len=6"`
	PeriodStartTime uint32 `json:"period_start_time" mapstructure:"period_start_time"`
}

// Header is the clear prefix of a token.
type Header struct {
	Version uint8 `json:"version"`
	Type    uint8 `json:"type"`
	LTId    LTId  `json:"ltid"`
}

// Decoded is the result of decoding a token. Contact is nil when the token
// has no contact block or when that block could not be decrypted, in which
// case ContactErr says why.
type Decoded struct {
	Header         Header               `json:"header"`
	LSP            LocationSpecificPart `json:"lsp"`
	ContactPresent bool                 `json:"contact_present"`
	Contact        *ContactMessage      `json:"contact,omitempty"`
	ContactErr     error                `json:"-"`
}
