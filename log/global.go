package log

import (
	"github.com/rs/zerolog"
)

// G is the process-wide logger used when a component is given none.
var G *Logger

func init() {
	G = New(WithDesensitize(desensitizeDefaults()))
}

// SetGlobalLogger replaces G. It is meant for start-up, before codecs and
// rotators capture the logger.
func SetGlobalLogger(logger *Logger) {
	G = logger
}

// Or returns l, falling back to G when l is nil.
func Or(l *Logger) *Logger {
	if l != nil {
		return l
	}
	return G
}

func Info() *zerolog.Event { return G.Info() }
func Warn() *zerolog.Event { return G.Warn() }

// Error returns an error event carrying the stack of wrapped errors.
func Error() *zerolog.Event { return G.Error().Stack() }
