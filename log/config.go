package log

import (
	"github.com/rs/zerolog"

	"github.com/kochabx/clea/errors"
	"github.com/kochabx/clea/log/desensitize"
	"github.com/kochabx/clea/log/writer"
)

// Config selects the output and level of a Logger.
type Config struct {
	Level  string `json:"level" mapstructure:"level" default:"info" validate:"oneof=trace debug info warn error"`
	Output string `json:"output" mapstructure:"output" default:"console" validate:"oneof=console file multi"`
	Caller bool   `json:"caller" mapstructure:"caller"`
	// Plain disables masking of sensitive fields.
	Plain bool       `json:"plain" mapstructure:"plain"`
	File  FileConfig `json:"file" mapstructure:"file"`
}

// FileConfig describes a rotated log file.
type FileConfig struct {
	Filepath         string            `json:"filepath" mapstructure:"filepath" default:"log"`
	Filename         string            `json:"filename" mapstructure:"filename" default:"clea"`
	FileExt          string            `json:"file_ext" mapstructure:"file_ext" default:"log"`
	RotateMode       writer.RotateMode `json:"rotate_mode" mapstructure:"rotate_mode"`
	RotatelogsConfig RotatelogsConfig  `json:"rotatelogs_config" mapstructure:"rotatelogs_config"`
	LumberjackConfig LumberjackConfig  `json:"lumberjack_config" mapstructure:"lumberjack_config"`
}

// RotatelogsConfig configures time based rotation, in hours.
type RotatelogsConfig struct {
	MaxAge       int `json:"max_age" mapstructure:"max_age" default:"24"`
	RotationTime int `json:"rotation_time" mapstructure:"rotation_time" default:"1"`
}

// LumberjackConfig configures size based rotation.
type LumberjackConfig struct {
	MaxSize    int  `json:"max_size" mapstructure:"max_size" default:"100"`
	MaxBackups int  `json:"max_backups" mapstructure:"max_backups" default:"5"`
	MaxAge     int  `json:"max_age" mapstructure:"max_age" default:"30"`
	Compress   bool `json:"compress" mapstructure:"compress"`
}

func (c *FileConfig) toWriterConfig() writer.RotateConfig {
	return writer.RotateConfig{
		Filepath: c.Filepath,
		Filename: c.Filename,
		FileExt:  c.FileExt,
		Mode:     c.RotateMode,
		TimeRotateConfig: writer.TimeRotateConfig{
			MaxAge:       c.RotatelogsConfig.MaxAge,
			RotationTime: c.RotatelogsConfig.RotationTime,
		},
		SizeRotateConfig: writer.SizeRotateConfig{
			MaxSize:    c.LumberjackConfig.MaxSize,
			MaxBackups: c.LumberjackConfig.MaxBackups,
			MaxAge:     c.LumberjackConfig.MaxAge,
			Compress:   c.LumberjackConfig.Compress,
		},
	}
}

// Build creates the Logger described by c.
func Build(c Config, opts ...Option) (*Logger, error) {
	level := zerolog.InfoLevel
	if c.Level != "" {
		l, err := zerolog.ParseLevel(c.Level)
		if err != nil {
			return nil, errors.InvalidInput("log: unknown level %q", c.Level).WithCause(err)
		}
		level = l
	}

	all := []Option{WithLevel(level)}
	if c.Caller {
		all = append(all, WithCaller())
	}
	if !c.Plain {
		all = append(all, WithDesensitize(desensitizeDefaults()))
	}
	all = append(all, opts...)

	switch c.Output {
	case "", "console":
		return New(all...), nil
	case "file":
		return NewFile(c.File, all...)
	case "multi":
		return NewMulti(c.File, all...)
	default:
		return nil, errors.InvalidInput("log: unknown output %q", c.Output)
	}
}

func desensitizeDefaults() *desensitize.Hook {
	hook := desensitize.NewHook()
	hook.AddBuiltin(desensitize.BuiltinRules()...)
	return hook
}
