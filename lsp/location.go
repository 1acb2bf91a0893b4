package lsp

import (
	"bytes"

	"github.com/kochabx/clea/core/util/ntp"
	"github.com/kochabx/clea/errors"
)

// Location produces the successive location specific parts of one venue.
// It holds no period state: every call takes and returns an explicit
// LocationSpecificPart.
type Location struct {
	secretKey []byte
	venue     Venue
	contact   *ContactMessage
	encoder   *Encoder
	clock     ntp.Clock
}

// LocationOption configures a Location.
type LocationOption func(*Location)

// WithContact attaches a manual contact tracing message to every token.
func WithContact(c ContactMessage) LocationOption {
	return func(l *Location) {
		l.contact = &c
	}
}

// WithClock overrides the wall clock.
func WithClock(c ntp.Clock) LocationOption {
	return func(l *Location) {
		if c != nil {
			l.clock = c
		}
	}
}

// NewLocation creates a location for the permanent secret key.
func NewLocation(secretKey []byte, venue Venue, encoder *Encoder, opts ...LocationOption) (*Location, error) {
	if len(secretKey) == 0 || len(secretKey) > MaxPermanentKeySize {
		return nil, errors.InvalidInput("lsp: permanent location secret key must be 1 to %d bytes, got %d",
			MaxPermanentKeySize, len(secretKey))
	}
	if encoder == nil {
		return nil, errors.InvalidInput("lsp: encoder is required")
	}
	if err := encoder.opts.validator.Struct(&venue); err != nil {
		return nil, err
	}

	l := &Location{
		secretKey: bytes.Clone(secretKey),
		venue:     venue,
		encoder:   encoder,
		clock:     ntp.SystemClock,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.contact != nil {
		if encoder.contactAuthority == nil {
			return nil, errors.InvalidInput("lsp: contact message requires a manual contact tracing authority key")
		}
		if err := encoder.opts.validator.Struct(l.contact); err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *Location) Venue() Venue { return l.venue }

// Contact returns a copy of the contact message, or nil.
func (l *Location) Contact() *ContactMessage {
	if l.contact == nil {
		return nil
	}
	c := *l.contact
	return &c
}

// StartPeriod derives the part of the period starting at periodStart, an
// hour aligned NTP time. Its QR code is valid from the period start.
func (l *Location) StartPeriod(periodStart uint32) (LocationSpecificPart, error) {
	if !ntp.IsHourAligned(uint64(periodStart)) {
		return LocationSpecificPart{}, errors.InvalidInput("lsp: period start %d is not a whole hour", periodStart)
	}

	key, id, err := Derive(l.secretKey, periodStart)
	if err != nil {
		return LocationSpecificPart{}, err
	}

	p := LocationSpecificPart{
		Venue:                   l.venue,
		LTId:                    id,
		LTKey:                   key,
		PeriodStartTime:         periodStart,
		QRCodeValidityStartTime: periodStart,
	}
	l.encoder.opts.metrics.RecordPeriodStarted()
	l.encoder.opts.logger.Info().
		Stringer("ltid", id).
		Uint32("period_start", periodStart).
		Msg("location period started")
	return p, nil
}

// StartNewPeriod starts a period at the current time rounded to the hour.
func (l *Location) StartNewPeriod() (LocationSpecificPart, error) {
	return l.StartPeriod(uint32(ntp.FromTime(l.clock(), true)))
}

// Renew returns p with a QR code valid from qrStart.
func (l *Location) Renew(p LocationSpecificPart, qrStart uint32) (LocationSpecificPart, error) {
	next, err := p.WithQRCodeValidityStartTime(qrStart)
	if err != nil {
		return p, err
	}
	l.encoder.opts.metrics.RecordRenewal()
	return next, nil
}

// RenewNow renews p from the latest renewal boundary not after the
// current time.
func (l *Location) RenewNow(p LocationSpecificPart) (LocationSpecificPart, error) {
	now := uint32(ntp.FromTime(l.clock(), false))
	qrStart := p.PeriodStartTime
	if interval := p.QRCodeRenewalInterval(); interval != 0 && now > p.PeriodStartTime {
		qrStart += (now - p.PeriodStartTime) / interval * interval
	}
	return l.Renew(p, qrStart)
}

// Expired reports whether the period of p is over.
func (l *Location) Expired(p LocationSpecificPart) bool {
	end, ok := p.PeriodEnd()
	return ok && ntp.FromTime(l.clock(), false) >= end
}

// DeepLink encodes p with the location contact message, if any.
func (l *Location) DeepLink(p LocationSpecificPart) (string, error) {
	var contact *ContactMessage
	if l.contact != nil {
		c := *l.contact
		c.PeriodStartTime = p.PeriodStartTime
		contact = &c
	}
	return l.encoder.Encode(p, contact)
}
