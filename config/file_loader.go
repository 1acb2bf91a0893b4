package config

import (
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/kochabx/clea/core/tag"
	"github.com/kochabx/clea/core/validator"
	"github.com/kochabx/clea/errors"
)

// FileLoader loads a configuration file. Environment variables named
// PREFIX_SECTION_KEY override file values.
type FileLoader struct {
	viper    *viper.Viper
	validate validator.Validator
	name     string
	paths    []string
}

// NewFileLoader creates a loader for name. When name contains a directory
// it is used as is; otherwise it is searched for in paths.
func NewFileLoader(name string, paths []string, v *viper.Viper, validate validator.Validator, envPrefix string) *FileLoader {
	if filepath.Base(name) != name {
		v.SetConfigFile(name)
	} else {
		for _, p := range paths {
			v.AddConfigPath(p)
		}
		v.SetConfigName(strings.TrimSuffix(name, filepath.Ext(name)))
	}
	if ext := strings.TrimPrefix(filepath.Ext(name), "."); ext != "" {
		v.SetConfigType(ext)
	}

	if envPrefix != "" {
		v.SetEnvPrefix(envPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &FileLoader{
		viper:    v,
		validate: validate,
		name:     name,
		paths:    paths,
	}
}

// Load applies defaults, reads the file, decodes it into target and
// validates the result.
func (l *FileLoader) Load(target any) error {
	if err := tag.ApplyDefaults(target); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to apply config defaults")
	}

	if err := l.viper.ReadInConfig(); err != nil {
		return errors.Wrap(err, 404, "config file %s not found", l.name)
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := l.viper.Unmarshal(target, hook); err != nil {
		return errors.Wrap(err, errors.CodeInvalidInput, "config parse error")
	}

	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return errors.Wrap(err, errors.CodeInvalidInput, "config validation failed")
		}
	}
	return nil
}

// Watch calls callback on every write to the file.
func (l *FileLoader) Watch(callback func()) error {
	l.viper.OnConfigChange(func(e fsnotify.Event) {
		if callback != nil && e.Op&(fsnotify.Write|fsnotify.Create) != 0 {
			callback()
		}
	})
	l.viper.WatchConfig()
	return nil
}
