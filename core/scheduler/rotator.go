// Package scheduler periodically renews the QR code of a location and
// rolls it over to a new period when the current one ends.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/kochabx/clea/log"
	"github.com/kochabx/clea/lsp"
)

// Emission is a freshly generated token.
type Emission struct {
	LSP       lsp.LocationSpecificPart
	Token     string
	NewPeriod bool
	At        time.Time
}

// Sink receives every emission. It runs on the scheduler goroutine and
// should return quickly.
type Sink func(ctx context.Context, e Emission)

// Rotator owns the current location specific part of one location.
type Rotator struct {
	id       string
	location *lsp.Location
	sink     Sink
	opts     Options
	logger   *log.Logger

	mu      sync.Mutex
	current lsp.LocationSpecificPart
	started bool

	running   atomic.Bool
	lifecycle sync.Mutex
	cron      *cron.Cron
	cancel    context.CancelFunc
}

func NewRotator(location *lsp.Location, sink Sink, opts ...Option) (*Rotator, error) {
	if location == nil {
		return nil, ErrNilLocation
	}
	if sink == nil {
		return nil, ErrNilSink
	}

	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Rotator{
		id:       "rotator-" + uuid.NewString()[:8],
		location: location,
		sink:     sink,
		opts:     o,
	}
	base := log.Or(o.Logger)
	r.logger = &log.Logger{Logger: base.Logger.With().Str("rotator_id", r.id).Logger()}
	return r, nil
}

// Start emits the first token of a new period and schedules renewals until
// ctx is done or Stop is called.
func (r *Rotator) Start(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	r.lifecycle.Lock()
	r.cancel = cancel
	r.lifecycle.Unlock()

	if err := r.Tick(ctx); err != nil {
		r.Stop()
		return err
	}

	spec, err := r.spec()
	if err != nil {
		r.Stop()
		return err
	}

	if spec != "" {
		c := newCron(cronLogger{l: r.logger})
		if _, err := c.AddFunc(spec, func() {
			if err := r.Tick(ctx); err != nil {
				r.logger.Error().Err(err).Msg("renewal failed")
			}
		}); err != nil {
			r.Stop()
			return ErrInvalidEvery.WithCause(err)
		}

		r.lifecycle.Lock()
		if !r.running.Load() {
			r.lifecycle.Unlock()
			return nil
		}
		r.cron = c
		c.Start()
		r.lifecycle.Unlock()
		r.logger.Info().Str("every", spec).Msg("rotator started")
	} else {
		r.logger.Info().Msg("location never changes, nothing to schedule")
	}

	go func() {
		<-ctx.Done()
		r.Stop()
	}()
	return nil
}

// spec returns the cron descriptor of the renewals, or "" when the
// location never changes.
func (r *Rotator) spec() (string, error) {
	every := r.opts.Every
	if every == 0 {
		cur, _ := r.Current()
		_, finite := cur.PeriodEnd()
		d, ok := tickInterval(cur.QRCodeRenewalInterval(), !finite)
		if !ok {
			return "", nil
		}
		every = d
	}
	return everySpec(every)
}

// Stop cancels future renewals and waits for a running one to finish.
func (r *Rotator) Stop() {
	if !r.running.CompareAndSwap(true, false) {
		return
	}

	r.lifecycle.Lock()
	c, cancel := r.cron, r.cancel
	r.cron = nil
	r.lifecycle.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	if cancel != nil {
		cancel()
	}
	r.logger.Info().Msg("rotator stopped")
}

// Tick starts a new period when none is active or the current one has
// ended, and otherwise renews the QR code. A token is emitted only when
// the part changed.
func (r *Rotator) Tick(ctx context.Context) error {
	r.mu.Lock()

	var (
		next      lsp.LocationSpecificPart
		newPeriod bool
		err       error
	)
	switch {
	case !r.started || r.location.Expired(r.current):
		next, err = r.location.StartNewPeriod()
		newPeriod = true
	case r.current.QRCodeRenewalInterval() == 0:
		r.mu.Unlock()
		return nil
	default:
		next, err = r.location.RenewNow(r.current)
	}
	if err != nil {
		r.mu.Unlock()
		return err
	}
	if r.started && !newPeriod && next.QRCodeValidityStartTime == r.current.QRCodeValidityStartTime {
		r.mu.Unlock()
		return nil
	}

	token, err := r.location.DeepLink(next)
	if err != nil {
		r.mu.Unlock()
		return err
	}
	r.current, r.started = next, true
	r.mu.Unlock()

	r.logger.Debug().
		Stringer("ltid", next.LTId).
		Uint32("qr_start", next.QRCodeValidityStartTime).
		Bool("new_period", newPeriod).
		Msg("location token emitted")
	r.sink(ctx, Emission{LSP: next, Token: token, NewPeriod: newPeriod, At: time.Now()})
	return nil
}

// Current returns the part of the last emission. ok is false before the
// first one.
func (r *Rotator) Current() (p lsp.LocationSpecificPart, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current, r.started
}
