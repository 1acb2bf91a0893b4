package main

import (
	"github.com/kochabx/clea/config"
	"github.com/kochabx/clea/core/crypto/ecies"
	"github.com/kochabx/clea/core/util/convert"
	"github.com/kochabx/clea/core/validator"
	"github.com/kochabx/clea/errors"
	"github.com/kochabx/clea/log"
	"github.com/kochabx/clea/lsp"
	httptransport "github.com/kochabx/clea/transport/http"
)

// Config is the content of clea.yaml.
type Config struct {
	Keys        KeysConfig    `json:"keys" mapstructure:"keys"`
	Venue       lsp.Venue     `json:"venue" mapstructure:"venue"`
	Contact     ContactConfig `json:"contact" mapstructure:"contact"`
	Prefix      string        `json:"prefix" mapstructure:"prefix" default:"https://tac.gouv.fr/"`
	Concurrency int           `json:"concurrency" mapstructure:"concurrency" validate:"gte=0"`
	QRCode      QRCodeConfig  `json:"qrcode" mapstructure:"qrcode"`
	Log         log.Config    `json:"log" mapstructure:"log"`
	Admin       AdminConfig   `json:"admin" mapstructure:"admin"`
}

// KeysConfig holds key material as hex. Public keys are uncompressed SEC1
// points.
type KeysConfig struct {
	ServerAuthorityPublicKey                string `json:"server_authority_public_key" mapstructure:"server_authority_public_key"`
	ServerAuthorityPrivateKey               string `json:"server_authority_private_key" mapstructure:"server_authority_private_key"`
	ManualContactTracingAuthorityPublicKey  string `json:"manual_contact_tracing_authority_public_key" mapstructure:"manual_contact_tracing_authority_public_key"`
	ManualContactTracingAuthorityPrivateKey string `json:"manual_contact_tracing_authority_private_key" mapstructure:"manual_contact_tracing_authority_private_key"`
	PermanentSecretKey                      string `json:"permanent_secret_key" mapstructure:"permanent_secret_key"`
}

// ContactConfig is the optional manual contact tracing message of the
// venue. It is disabled while both phone and PIN are empty.
type ContactConfig struct {
	Phone  string `json:"phone" mapstructure:"phone" validate:"omitempty,digits,max=15"`
	Region uint8  `json:"region" mapstructure:"region"`
	PIN    string `json:"pin" mapstructure:"pin" validate:"omitempty,digits,len=6"`
}

func (c ContactConfig) message() *lsp.ContactMessage {
	if c.Phone == "" && c.PIN == "" {
		return nil
	}
	return &lsp.ContactMessage{Phone: c.Phone, Region: c.Region, PIN: c.PIN}
}

type QRCodeConfig struct {
	// Dir receives a PNG per emitted token when set.
	Dir  string `json:"dir" mapstructure:"dir"`
	Size int    `json:"size" mapstructure:"size" default:"512" validate:"gte=64"`
}

type AdminConfig struct {
	Enabled bool                        `json:"enabled" mapstructure:"enabled"`
	Addr    string                      `json:"addr" mapstructure:"addr" default:":9090"`
	Metrics httptransport.MetricsOption `json:"metrics" mapstructure:"metrics"`
	Health  httptransport.HealthOption  `json:"health" mapstructure:"health"`
}

// loadConfig reads path, or clea.yaml in the working directory when path
// is empty. A missing default file leaves the defaults in place.
func loadConfig(path string) (*Config, *config.Config, error) {
	cfg := &Config{}
	var opts []config.Option
	if path != "" {
		opts = append(opts, config.WithFile(path))
	}
	c := config.New(cfg, opts...)
	if err := c.Load(); err != nil {
		if path != "" || errors.Code(err) != 404 {
			return nil, nil, err
		}
	}
	return cfg, c, nil
}

func (c *Config) validate() error {
	return validator.Validate.Struct(c)
}

func (c *Config) encoder(opts ...lsp.Option) (*lsp.Encoder, error) {
	if c.Keys.ServerAuthorityPublicKey == "" {
		return nil, errors.InvalidInput("keys.server_authority_public_key is required")
	}
	sa, err := ecies.ParsePublicKeyHex(c.Keys.ServerAuthorityPublicKey)
	if err != nil {
		return nil, err
	}
	var mcta *ecies.PublicKey
	if c.Keys.ManualContactTracingAuthorityPublicKey != "" {
		if mcta, err = ecies.ParsePublicKeyHex(c.Keys.ManualContactTracingAuthorityPublicKey); err != nil {
			return nil, err
		}
	}
	return lsp.NewEncoder(sa, mcta, append(c.codecOptions(), opts...)...)
}

func (c *Config) decoder(opts ...lsp.Option) (*lsp.Decoder, error) {
	if c.Keys.ServerAuthorityPrivateKey == "" {
		return nil, errors.InvalidInput("keys.server_authority_private_key is required")
	}
	sa, err := ecies.ParsePrivateKeyHex(c.Keys.ServerAuthorityPrivateKey)
	if err != nil {
		return nil, err
	}
	var mcta *ecies.PrivateKey
	if c.Keys.ManualContactTracingAuthorityPrivateKey != "" {
		if mcta, err = ecies.ParsePrivateKeyHex(c.Keys.ManualContactTracingAuthorityPrivateKey); err != nil {
			return nil, err
		}
	}
	return lsp.NewDecoder(sa, mcta, append(c.codecOptions(), opts...)...)
}

func (c *Config) codecOptions() []lsp.Option {
	return []lsp.Option{
		lsp.WithLogger(log.G),
		lsp.WithPrefix(c.Prefix),
		lsp.WithConcurrency(c.Concurrency),
	}
}

func (c *Config) location(enc *lsp.Encoder, opts ...lsp.LocationOption) (*lsp.Location, error) {
	if c.Keys.PermanentSecretKey == "" {
		return nil, errors.InvalidInput("keys.permanent_secret_key is required")
	}
	secret, err := convert.Hex(c.Keys.PermanentSecretKey)
	if err != nil {
		return nil, err
	}
	if m := c.Contact.message(); m != nil {
		opts = append(opts, lsp.WithContact(*m))
	}
	return lsp.NewLocation(secret, c.Venue, enc, opts...)
}

// override sets *dst to v when a flag was given.
func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
