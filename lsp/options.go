package lsp

import (
	"runtime"

	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/core/validator"
	"github.com/kochabx/clea/log"
	"github.com/kochabx/clea/metrics"
)

type options struct {
	logger      *log.Logger
	metrics     *metrics.Metrics
	validator   validator.Validator
	prefixes    []string
	agreement   ecies.Agreement
	concurrency int
}

// Option configures an Encoder or a Decoder.
type Option func(*options)

func newOptions(opts ...Option) options {
	o := options{
		prefixes:    []string{DefaultPrefix},
		agreement:   ecies.PlatformAgreement,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = log.Or(o.logger)
	if o.validator == nil {
		o.validator = validator.New()
	}
	return o
}

// WithLogger sets the logger. The global logger is used by default.
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics records codec activity on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func WithValidator(v validator.Validator) Option {
	return func(o *options) {
		o.validator = v
	}
}

// WithPrefix sets the prefix the encoder prepends to tokens. An empty
// prefix emits the bare base64 payload. Decoders always accept
// DefaultPrefix as well.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefixes = append([]string{prefix}, o.prefixes[1:]...)
	}
}

// WithAcceptedPrefixes adds prefixes the decoder strips from tokens.
func WithAcceptedPrefixes(prefixes ...string) Option {
	return func(o *options) {
		o.prefixes = append(o.prefixes, prefixes...)
	}
}

// WithAgreement selects how the decoder computes ECDH shared secrets.
func WithAgreement(a ecies.Agreement) Option {
	return func(o *options) {
		if a != nil {
			o.agreement = a
		}
	}
}

// WithConcurrency bounds the number of tokens DecodeAll decodes at once.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
