package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/clea/errors"
	"github.com/kochabx/clea/log/writer"
)

type venueConfig struct {
	Type     uint8  `mapstructure:"type" json:"type" validate:"lte=31"`
	Duration uint8  `mapstructure:"duration" json:"duration" default:"24" validate:"gte=1"`
	Prefix   string `mapstructure:"prefix" json:"prefix" default:"https://tac.gouv.fr/"`
}

type testConfig struct {
	Key      string            `mapstructure:"key" json:"key" validate:"required,hexadecimal"`
	Venue    venueConfig       `mapstructure:"venue" json:"venue"`
	Interval time.Duration     `mapstructure:"interval" json:"interval" default:"1m"`
	Rotate   writer.RotateMode `mapstructure:"rotate" json:"rotate"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clea.yaml", `
key: "0a0b"
venue:
  type: 3
interval: 30s
rotate: size
`)

	cfg := new(testConfig)
	c := New(cfg, WithFile(path))
	require.NoError(t, c.Load())

	assert.Equal(t, "0a0b", cfg.Key)
	assert.Equal(t, uint8(3), cfg.Venue.Type)
	assert.Equal(t, uint8(24), cfg.Venue.Duration)
	assert.Equal(t, "https://tac.gouv.fr/", cfg.Venue.Prefix)
	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.Equal(t, writer.RotateModeSize, cfg.Rotate)
	assert.NotNil(t, c.GetViper())
}

func TestLoadSearchPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "venue.yaml", "key: ff\n")

	cfg := new(testConfig)
	require.NoError(t, New(cfg, WithFile("venue.yaml", dir)).Load())
	assert.Equal(t, "ff", cfg.Key)
}

func TestEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clea.yaml", "key: aa\nvenue:\n  type: 1\n")
	t.Setenv("CLEATEST_VENUE_TYPE", "7")

	cfg := new(testConfig)
	require.NoError(t, New(cfg, WithFile(path), WithEnvPrefix("CLEATEST")).Load())
	assert.Equal(t, uint8(7), cfg.Venue.Type)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	err := New(new(testConfig), WithFile(filepath.Join(dir, "missing.yaml"))).Load()
	require.Error(t, err)
	assert.Equal(t, 404, errors.Code(err))

	path := writeFile(t, dir, "bad.yaml", "key: zz\nvenue:\n  type: 40\n")
	err = New(new(testConfig), WithFile(path)).Load()
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestReloadCallbacks(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clea.yaml", "key: aa\n")

	cfg := new(testConfig)
	c := New(cfg, WithFile(path))
	require.NoError(t, c.Load())

	calls := 0
	c.OnChange(func() { calls++ })

	writeFile(t, dir, "clea.yaml", "key: bb\n")
	require.NoError(t, c.Reload())
	assert.Equal(t, 1, calls)

	c.Read(func(target any) {
		assert.Equal(t, "bb", target.(*testConfig).Key)
	})
}

type staticLoader struct{ key string }

func (l staticLoader) Load(target any) error {
	target.(*testConfig).Key = l.key
	return nil
}

func (staticLoader) Watch(func()) error { return nil }

func TestCustomLoader(t *testing.T) {
	cfg := new(testConfig)
	c := New(cfg, WithLoader(staticLoader{key: "cc"}))
	require.NoError(t, c.Load())
	require.NoError(t, c.Watch())
	assert.Equal(t, "cc", cfg.Key)
}
