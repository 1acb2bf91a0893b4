package scheduler

import (
	"time"

	"github.com/kochabx/clea/log"
)

// Options configures a Rotator.
type Options struct {
	Logger *log.Logger
	// Every overrides the tick interval derived from the location.
	Every time.Duration
}

// Option configures a Rotator.
type Option func(*Options)

func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithEvery forces the tick interval, rounded to the second.
func WithEvery(d time.Duration) Option {
	return func(o *Options) {
		o.Every = d
	}
}
