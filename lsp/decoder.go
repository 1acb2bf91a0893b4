package lsp

import (
	"encoding/base64"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/errors"
	"github.com/kochabx/clea/metrics"
)

var alphabet = strings.NewReplacer("-", "+", "_", "/")

// Decoder opens location tokens. It is safe for concurrent use.
type Decoder struct {
	serverAuthority  *ecies.PrivateKey
	contactAuthority *ecies.PrivateKey
	prefixes         []string
	opts             options
}

// NewDecoder creates a decoder. Without a contact authority key, contact
// blocks are reported through Decoded.ContactErr.
func NewDecoder(serverAuthority, contactAuthority *ecies.PrivateKey, opts ...Option) (*Decoder, error) {
	if serverAuthority == nil {
		return nil, errors.InvalidInput("lsp: server authority private key is required")
	}
	o := newOptions(opts...)

	prefixes := make([]string, 0, len(o.prefixes)+1)
	for _, p := range append(o.prefixes, DefaultPrefix) {
		if p != "" && !slices.Contains(prefixes, p) {
			prefixes = append(prefixes, p)
		}
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	return &Decoder{
		serverAuthority:  serverAuthority,
		contactAuthority: contactAuthority,
		prefixes:         prefixes,
		opts:             o,
	}, nil
}

// Decode strips a known prefix from token, decodes its base64 payload and
// decrypts it.
func (d *Decoder) Decode(token string) (*Decoded, error) {
	raw, err := d.DecodeToken(token)
	if err != nil {
		d.opts.metrics.RecordDecode(metrics.ResultFailed, err, 0)
		return nil, err
	}
	return d.DecodeBytes(raw)
}

// DecodeToken returns the binary payload of token. Both base64 alphabets
// are accepted, with or without padding.
func (d *Decoder) DecodeToken(token string) ([]byte, error) {
	token = strings.TrimSpace(token)
	for _, p := range d.prefixes {
		if strings.HasPrefix(token, p) {
			token = token[len(p):]
			break
		}
	}
	token = alphabet.Replace(strings.TrimRight(token, "="))

	raw, err := base64.RawStdEncoding.DecodeString(token)
	if err != nil {
		return nil, errors.MalformedToken("lsp: invalid base64 payload").WithCause(err)
	}
	return raw, nil
}

// DecodeHeader reads the clear header of a binary token. No key is needed.
func (d *Decoder) DecodeHeader(raw []byte) (Header, error) {
	return UnmarshalHeader(raw)
}

// DecodeBytes decrypts a binary token. A failure of the primary message
// fails the call; a failure of the nested contact block only clears
// Decoded.Contact.
func (d *Decoder) DecodeBytes(raw []byte) (*Decoded, error) {
	start := time.Now()

	out, err := d.decode(raw)
	if err != nil {
		d.opts.metrics.RecordDecode(metrics.ResultFailed, err, time.Since(start))
		d.opts.logger.Debug().Err(err).Int("length", len(raw)).Msg("location token rejected")
		return nil, err
	}

	result := metrics.ResultOK
	if out.ContactErr != nil {
		result = metrics.ResultPartial
	}
	d.opts.metrics.RecordDecode(result, nil, time.Since(start))
	return out, nil
}

func (d *Decoder) decode(raw []byte) (*Decoded, error) {
	if len(raw) != TokenSize && len(raw) != TokenWithContactSize {
		return nil, errors.MalformedTokenWithMetadata(
			map[string]string{"length": strconv.Itoa(len(raw))},
			"lsp: token must be %d or %d bytes", TokenSize, TokenWithContactSize)
	}

	header, err := UnmarshalHeader(raw)
	if err != nil {
		return nil, err
	}

	plain, err := ecies.Decrypt(raw[:HeaderSize], raw[HeaderSize:], d.serverAuthority, ecies.WithAgreement(d.opts.agreement))
	if err != nil {
		return nil, err
	}

	p, contactPresent, err := unmarshalMessage(plain[:MessageSize], header)
	if err != nil {
		return nil, err
	}
	out := &Decoded{Header: header, LSP: p, ContactPresent: contactPresent}
	switch {
	case contactPresent != (len(raw) == TokenWithContactSize):
		// The primary record stays usable; only the contact part is lost.
		out.ContactErr = errors.MalformedTokenWithMetadata(
			map[string]string{"length": strconv.Itoa(len(raw)), "contact_present": strconv.FormatBool(contactPresent)},
			"lsp: contact flag does not match token length")
	case contactPresent:
		out.Contact, out.ContactErr = d.decodeContact(plain[MessageSize:])
	}
	if out.ContactErr != nil {
		d.opts.metrics.RecordContactFailure(contactFailureReason(out.ContactErr))
		d.opts.logger.Warn().
			Err(out.ContactErr).
			Stringer("ltid", header.LTId).
			Msg("contact message could not be decoded")
	}
	return out, nil
}

func (d *Decoder) decodeContact(sealed []byte) (*ContactMessage, error) {
	if d.contactAuthority == nil {
		return nil, errContactKeyMissing
	}
	plain, err := ecies.Decrypt(nil, sealed, d.contactAuthority, ecies.WithAgreement(d.opts.agreement))
	if err != nil {
		return nil, err
	}
	return unmarshalContact(plain)
}

var errContactKeyMissing = errors.InvalidInput("lsp: no manual contact tracing authority key configured")

func contactFailureReason(err error) string {
	switch {
	case errors.Is(err, errContactKeyMissing):
		return "no_key"
	case errors.IsAuthenticationFailure(err):
		return "authentication"
	case errors.IsInvalidPoint(err):
		return "invalid_point"
	case errors.IsMalformedToken(err):
		return "malformed"
	default:
		return "other"
	}
}
