package lsp

import (
	"strconv"

	"golang.org/x/crypto/cryptobyte"

	"github.com/kochabx/clea/core/util/bcd"
	"github.com/kochabx/clea/errors"
)

const (
	phoneSize = 8
	pinSize   = 3

	staffBit   = 0x80
	contactBit = 0x40
)

func u32(v uint32) string { return strconv.FormatUint(uint64(v), 10) }

func marshalHeader(p LocationSpecificPart) []byte {
	out := make([]byte, HeaderSize)
	out[0] = (p.Version&0x07)<<5 | (p.Type&0x07)<<2
	copy(out[1:], p.LTId[:])
	return out
}

// UnmarshalHeader reads the clear header at the start of raw.
func UnmarshalHeader(raw []byte) (Header, error) {
	if len(raw) < HeaderSize {
		return Header{}, errors.MalformedToken("lsp: token shorter than its header")
	}
	h := Header{
		Version: raw[0] >> 5 & 0x07,
		Type:    raw[0] >> 2 & 0x07,
	}
	copy(h.LTId[:], raw[1:HeaderSize])
	return h, nil
}

func marshalMessage(p LocationSpecificPart, contactPresent bool) ([]byte, error) {
	var b0 byte
	if p.Staff {
		b0 |= staffBit
	}
	if contactPresent {
		b0 |= contactBit
	}
	cc := p.CountryCode & 0x0FFF
	exp := p.RenewalExponent & 0x1F

	b := cryptobyte.NewFixedBuilder(make([]byte, 0, MessageSize))
	b.AddUint8(b0 | byte(cc>>6))
	b.AddUint8(byte(cc&0x3F)<<2 | exp>>3)
	b.AddUint8((exp&0x07)<<5 | p.VenueType&0x1F)
	b.AddUint8((p.VenueCategory1&0x0F)<<4 | p.VenueCategory2&0x0F)
	b.AddUint8(p.PeriodDuration)
	b.AddUint24(p.CompressedPeriodStartTime())
	b.AddUint32(p.QRCodeValidityStartTime)
	b.AddBytes(p.LTKey[:])

	out, err := b.Bytes()
	if err != nil {
		return nil, errors.Internal("lsp: pack message").WithCause(err)
	}
	return out, nil
}

func unmarshalMessage(msg []byte, h Header) (p LocationSpecificPart, contactPresent bool, err error) {
	var b0, b1, b2, b3 uint8
	var hours uint32

	s := cryptobyte.String(msg)
	if !s.ReadUint8(&b0) || !s.ReadUint8(&b1) || !s.ReadUint8(&b2) || !s.ReadUint8(&b3) ||
		!s.ReadUint8(&p.PeriodDuration) ||
		!s.ReadUint24(&hours) ||
		!s.ReadUint32(&p.QRCodeValidityStartTime) ||
		!s.CopyBytes(p.LTKey[:]) {
		return p, false, errors.MalformedToken("lsp: message too short")
	}

	p.Version, p.Type, p.LTId = h.Version, h.Type, h.LTId
	p.Staff = b0&staffBit != 0
	contactPresent = b0&contactBit != 0
	p.CountryCode = uint16(b0&0x3F)<<6 | uint16(b1>>2)
	p.RenewalExponent = (b1&0x03)<<3 | b2>>5
	p.VenueType = b2 & 0x1F
	p.VenueCategory1 = b3 >> 4
	p.VenueCategory2 = b3 & 0x0F
	p.PeriodStartTime = hours * 3600
	return p, contactPresent, nil
}

func marshalContact(c ContactMessage) ([]byte, error) {
	phone, err := bcd.Pack(c.Phone, phoneSize)
	if err != nil {
		return nil, err
	}
	// The last nibble is reserved.
	phone[phoneSize-1] &= 0xF0

	pin, err := bcd.Pack(c.PIN, pinSize)
	if err != nil {
		return nil, err
	}

	b := cryptobyte.NewFixedBuilder(make([]byte, 0, ContactSize))
	b.AddBytes(phone)
	b.AddUint8(c.Region)
	b.AddBytes(pin)
	b.AddUint32(c.PeriodStartTime)

	out, err := b.Bytes()
	if err != nil {
		return nil, errors.Internal("lsp: pack contact message").WithCause(err)
	}
	return out, nil
}

func unmarshalContact(msg []byte) (*ContactMessage, error) {
	var phone, pin []byte
	c := &ContactMessage{}

	s := cryptobyte.String(msg)
	if !s.ReadBytes(&phone, phoneSize) ||
		!s.ReadUint8(&c.Region) ||
		!s.ReadBytes(&pin, pinSize) ||
		!s.ReadUint32(&c.PeriodStartTime) ||
		!s.Empty() {
		return nil, errors.MalformedToken("lsp: contact message must be %d bytes, got %d", ContactSize, len(msg))
	}

	c.Phone = bcd.Unpack(phone, true, true)
	c.PIN = bcd.Unpack(pin, true, false)
	return c, nil
}
