package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/kochabx/clea/log"
)

// everySpec returns the cron descriptor running every d, at least once a
// second.
func everySpec(d time.Duration) (string, error) {
	if d <= 0 {
		return "", ErrInvalidEvery
	}
	return "@every " + d.Round(time.Second).String(), nil
}

// tickInterval is how often a location must be looked at: every renewal
// interval, or hourly when only the period rolls over. ok is false when
// the location never changes.
func tickInterval(renewal uint32, unlimited bool) (d time.Duration, ok bool) {
	switch {
	case renewal != 0:
		return time.Duration(renewal) * time.Second, true
	case !unlimited:
		return time.Hour, true
	default:
		return 0, false
	}
}

func newCron(logger cron.Logger) *cron.Cron {
	return cron.New(
		cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow|cron.Descriptor)),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		cron.WithLogger(logger),
	)
}

// cronLogger forwards cron messages to a zerolog based logger.
type cronLogger struct {
	l *log.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
