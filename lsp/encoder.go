package lsp

import (
	"encoding/base64"
	"time"

	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/errors"
)

// Encoder builds location tokens. It is safe for concurrent use.
type Encoder struct {
	serverAuthority  *ecies.PublicKey
	contactAuthority *ecies.PublicKey
	opts             options
}

// NewEncoder creates an encoder for the server authority key. The manual
// contact tracing authority key may be nil when no location carries a
// contact message.
func NewEncoder(serverAuthority, contactAuthority *ecies.PublicKey, opts ...Option) (*Encoder, error) {
	if serverAuthority == nil {
		return nil, errors.InvalidInput("lsp: server authority public key is required")
	}
	return &Encoder{
		serverAuthority:  serverAuthority,
		contactAuthority: contactAuthority,
		opts:             newOptions(opts...),
	}, nil
}

// Prefix returns the string prepended to encoded tokens.
func (e *Encoder) Prefix() string { return e.opts.prefixes[0] }

// EncodeBytes returns the binary token for p and the optional contact
// message.
func (e *Encoder) EncodeBytes(p LocationSpecificPart, contact *ContactMessage) ([]byte, error) {
	start := time.Now()

	if err := e.opts.validator.Struct(&p); err != nil {
		return nil, err
	}

	header := marshalHeader(p)
	msg, err := marshalMessage(p, contact != nil)
	if err != nil {
		return nil, err
	}

	if contact != nil {
		sealed, err := e.encryptContact(contact)
		if err != nil {
			return nil, err
		}
		msg = append(msg, sealed...)
	}

	out, err := ecies.Encrypt(header, msg, e.serverAuthority)
	if err != nil {
		return nil, err
	}

	e.opts.metrics.RecordEncode(contact != nil, time.Since(start))
	e.opts.logger.Debug().
		Stringer("ltid", p.LTId).
		Uint32("qr_start", p.QRCodeValidityStartTime).
		Bool("contact", contact != nil).
		Msg("location token encoded")
	return out, nil
}

// Encode returns the prefixed base64url token.
func (e *Encoder) Encode(p LocationSpecificPart, contact *ContactMessage) (string, error) {
	raw, err := e.EncodeBytes(p, contact)
	if err != nil {
		return "", err
	}
	return e.Prefix() + base64.RawURLEncoding.EncodeToString(raw), nil
}

func (e *Encoder) encryptContact(c *ContactMessage) ([]byte, error) {
	if e.contactAuthority == nil {
		return nil, errors.InvalidInput("lsp: contact message requires a manual contact tracing authority key")
	}
	if err := e.opts.validator.Struct(c); err != nil {
		return nil, err
	}
	plain, err := marshalContact(*c)
	if err != nil {
		return nil, err
	}
	return ecies.Encrypt(nil, plain, e.contactAuthority)
}
