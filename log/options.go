package log

import (
	"github.com/rs/zerolog"

	"github.com/kochabx/clea/log/desensitize"
)

// Option configures a Logger.
type Option func(*Logger)

func WithLevel(level zerolog.Level) Option {
	return func(l *Logger) {
		l.Logger = l.Logger.Level(level)
	}
}

func WithCaller() Option {
	return func(l *Logger) {
		l.Logger = l.Logger.With().Caller().Logger()
	}
}

// WithComponent tags every event with a component name.
func WithComponent(name string) Option {
	return func(l *Logger) {
		l.Logger = l.Logger.With().Str("component", name).Logger()
	}
}

// WithDesensitize masks log lines through hook before they are written.
func WithDesensitize(hook *desensitize.Hook) Option {
	return func(l *Logger) {
		l.desensitizeHook = hook
	}
}
