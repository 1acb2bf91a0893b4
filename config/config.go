// Package config loads a YAML/JSON/TOML file into a struct through viper,
// fills `default` tags and validates the result.
package config

import (
	"sync"

	"github.com/spf13/viper"

	"github.com/kochabx/clea/core/validator"
	"github.com/kochabx/clea/log"
)

// Config binds a loader to a target struct.
type Config struct {
	mu        sync.RWMutex
	viper     *viper.Viper
	validate  validator.Validator
	target    any
	loader    Loader
	filename  string
	paths     []string
	envPrefix string
	onChange  []func()
}

// New creates a Config for target, a pointer to a struct. Without
// WithLoader, target is read from clea.yaml in the working directory.
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:     viper.New(),
		validate:  validator.Validate,
		target:    target,
		filename:  "clea.yaml",
		paths:     []string{"."},
		envPrefix: "CLEA",
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil {
		c.loader = NewFileLoader(c.filename, c.paths, c.viper, c.validate, c.envPrefix)
	}
	return c
}

// Load reads the configuration into the target.
func (c *Config) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loader.Load(c.target)
}

// Reload is Load followed by the registered change callbacks.
func (c *Config) Reload() error {
	if err := c.Load(); err != nil {
		return err
	}
	c.mu.RLock()
	callbacks := append([]func(){}, c.onChange...)
	c.mu.RUnlock()
	for _, fn := range callbacks {
		fn()
	}
	return nil
}

// OnChange registers fn to run after every successful reload.
func (c *Config) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = append(c.onChange, fn)
	c.mu.Unlock()
}

// Read runs fn with the target while holding the read lock, so fn never
// observes a half-applied reload.
func (c *Config) Read(fn func(target any)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.target)
}

// Watch reloads the target whenever the underlying file changes.
func (c *Config) Watch() error {
	return c.loader.Watch(func() {
		log.Info().Msg("config change detected")
		if err := c.Reload(); err != nil {
			log.Error().Err(err).Msg("failed to reload config after change")
			return
		}
		log.Info().Msg("config reloaded")
	})
}

func (c *Config) GetViper() *viper.Viper {
	return c.viper
}
