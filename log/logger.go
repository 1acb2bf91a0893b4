package log

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/kochabx/clea/core/tag"
	"github.com/kochabx/clea/errors"
	"github.com/kochabx/clea/log/desensitize"
	"github.com/kochabx/clea/log/writer"
)

// Logger wraps a zerolog.Logger with the writer it owns.
type Logger struct {
	zerolog.Logger
	desensitizeHook *desensitize.Hook
	writer          io.Writer
	closer          io.Closer
}

// GetDesensitizeHook returns the masking hook, or nil.
func (l *Logger) GetDesensitizeHook() *desensitize.Hook {
	return l.desensitizeHook
}

// Close releases the underlying file writer, if any.
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

func newLogger(w io.Writer, opts ...Option) *Logger {
	logger := &Logger{writer: w}

	// The hook has to be known before the zerolog.Logger is built since it
	// wraps the writer.
	probe := &Logger{}
	for _, opt := range opts {
		opt(probe)
	}
	if probe.desensitizeHook != nil {
		w = desensitize.NewWriter(w, probe.desensitizeHook)
	}

	logger.Logger = zerolog.New(w).With().Timestamp().Logger()
	for _, opt := range opts {
		opt(logger)
	}
	return logger
}

// SetZerologGlobalLevel sets the minimum level of every logger, including
// copies derived with With. It is safe to call while logging.
func SetZerologGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// New creates a console logger.
func New(opts ...Option) *Logger {
	return newLogger(writer.Console(), opts...)
}

// NewWithWriter creates a JSON logger writing to w.
func NewWithWriter(w io.Writer, opts ...Option) *Logger {
	return newLogger(w, opts...)
}

// NewFile creates a logger writing to a rotated file.
func NewFile(c FileConfig, opts ...Option) (*Logger, error) {
	fw, err := newFileWriter(&c)
	if err != nil {
		return nil, err
	}

	logger := newLogger(fw, opts...)
	if closer, ok := fw.(io.Closer); ok {
		logger.closer = closer
	}
	return logger, nil
}

// NewMulti creates a logger writing to both a rotated file and the console.
func NewMulti(c FileConfig, opts ...Option) (*Logger, error) {
	fw, err := newFileWriter(&c)
	if err != nil {
		return nil, err
	}

	logger := newLogger(zerolog.MultiLevelWriter(fw, writer.Console()), opts...)
	if closer, ok := fw.(io.Closer); ok {
		logger.closer = closer
	}
	return logger, nil
}

func newFileWriter(c *FileConfig) (io.Writer, error) {
	if err := tag.ApplyDefaults(c); err != nil {
		return nil, errors.Internal("log: apply file defaults").WithCause(err)
	}
	w, err := writer.File(c.toWriterConfig())
	if err != nil {
		return nil, errors.Internal("log: create file writer").WithCause(err)
	}
	return w, nil
}
