package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/clea/errors"
	"github.com/kochabx/clea/log/desensitize"
	"github.com/kochabx/clea/log/writer"
)

func decodeLine(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(b), &m))
	return m
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, WithLevel(zerolog.InfoLevel), WithComponent("decoder"))

	logger.Debug().Msg("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn().Err(errors.MalformedToken("bad length")).Int("length", 12).Msg("decode failed")
	m := decodeLine(t, buf.Bytes())
	assert.Equal(t, "warn", m["level"])
	assert.Equal(t, "decoder", m["component"])
	assert.Equal(t, float64(12), m["length"])
	assert.Contains(t, m["error"], "code=422")
}

func TestDesensitizedLog(t *testing.T) {
	var buf bytes.Buffer
	hook := desensitize.NewHook()
	hook.AddBuiltin(desensitize.BuiltinRules()...)
	logger := NewWithWriter(&buf, WithDesensitize(hook))

	logger.Info().
		Str("ltkey", "00112233").
		Str("phone", "0612345678").
		Str("pin", "123456").
		Str("ltid", "abcd").
		Msg("period started")

	m := decodeLine(t, buf.Bytes())
	assert.Equal(t, "******", m["ltkey"])
	assert.Equal(t, "******", m["pin"])
	assert.Equal(t, "********78", m["phone"])
	assert.Equal(t, "abcd", m["ltid"])
	assert.Same(t, hook, logger.GetDesensitizeHook())
}

func TestBuild(t *testing.T) {
	logger, err := Build(Config{Level: "warn"})
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	_, err = Build(Config{Level: "loud"})
	assert.True(t, errors.IsInvalidInput(err))

	_, err = Build(Config{Output: "syslog"})
	assert.True(t, errors.IsInvalidInput(err))
}

func TestFileLog(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewFile(FileConfig{
		Filepath:   dir,
		Filename:   "size",
		RotateMode: writer.RotateModeSize,
		LumberjackConfig: LumberjackConfig{
			MaxSize:    1,
			MaxBackups: 1,
		},
	})
	require.NoError(t, err)

	logger.Info().Msg("to file")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(filepath.Join(dir, "size.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestMultiLog(t *testing.T) {
	logger, err := Build(Config{
		Output: "multi",
		File: FileConfig{
			Filepath:   t.TempDir(),
			RotateMode: writer.RotateModeTime,
		},
	})
	require.NoError(t, err)
	defer logger.Close()

	logger.Info().Str("type", "multi").Msg("multi output")
}

func TestGlobalLog(t *testing.T) {
	prev := G
	defer SetGlobalLogger(prev)

	var buf bytes.Buffer
	SetGlobalLogger(NewWithWriter(&buf))
	SetZerologGlobalLevel(zerolog.WarnLevel)
	defer SetZerologGlobalLevel(zerolog.TraceLevel)

	Info().Msg("dropped")
	Warn().Int("attempt", 3).Msg("renewal failed")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "renewal failed")
	assert.Same(t, G, Or(nil))
}

func TestZerologGlobalLevel(t *testing.T) {
	defer SetZerologGlobalLevel(zerolog.TraceLevel)

	var buf syncBuffer
	logger := NewWithWriter(&buf)
	derived := &Logger{Logger: logger.With().Str("rotator_id", "r1").Logger()}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			Or(logger).Debug().Int("i", i).Msg("tick")
		}
	}()
	for i := 0; i < 100; i++ {
		SetZerologGlobalLevel(zerolog.InfoLevel)
		SetZerologGlobalLevel(zerolog.DebugLevel)
	}
	<-done

	SetZerologGlobalLevel(zerolog.WarnLevel)
	buf.Reset()
	derived.Info().Msg("dropped")
	logger.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	SetZerologGlobalLevel(zerolog.DebugLevel)
	derived.Debug().Msg("kept")
	assert.Contains(t, buf.String(), `"rotator_id":"r1"`)
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

func TestRotateModeText(t *testing.T) {
	var m writer.RotateMode
	require.NoError(t, m.UnmarshalText([]byte("size")))
	assert.Equal(t, writer.RotateModeSize, m)
	assert.Error(t, m.UnmarshalText([]byte("weekly")))
}
