// Package app runs servers and background jobs until a signal or context
// cancellation, then shuts them down and runs close functions.
package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kochabx/clea/errors"
	"github.com/kochabx/clea/log"
	"github.com/kochabx/clea/transport"
)

var (
	ErrAlreadyStarted = errors.Internal("app: application already started")
	ErrClosePanic     = errors.Internal("app: close function panicked")
)

// Job is a background task bound to the application context.
type Job func(ctx context.Context) error

// CloseFunc runs during shutdown with its own timeout.
type CloseFunc struct {
	Name    string
	Fn      func(context.Context) error
	Timeout time.Duration
}

type Application struct {
	ctx             context.Context
	cancel          context.CancelFunc
	logger          *log.Logger
	shutdownTimeout time.Duration
	closeTimeout    time.Duration
	signals         []os.Signal
	servers         []transport.Server
	jobs            []Job
	closeFuncs      []CloseFunc

	mu      sync.RWMutex
	started bool
}

type Option func(*Application)

func WithContext(ctx context.Context) Option {
	return func(app *Application) {
		if ctx != nil {
			app.ctx, app.cancel = context.WithCancel(ctx)
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(app *Application) {
		app.logger = l
	}
}

func WithShutdownTimeout(timeout time.Duration) Option {
	return func(app *Application) {
		if timeout > 0 {
			app.shutdownTimeout = timeout
		}
	}
}

// WithCloseTimeout sets the timeout of close functions registered without
// one.
func WithCloseTimeout(timeout time.Duration) Option {
	return func(app *Application) {
		if timeout > 0 {
			app.closeTimeout = timeout
		}
	}
}

func WithSignals(signals ...os.Signal) Option {
	return func(app *Application) {
		if len(signals) > 0 {
			app.signals = append([]os.Signal(nil), signals...)
		}
	}
}

func WithServer(servers ...transport.Server) Option {
	return func(app *Application) {
		for _, s := range servers {
			if s != nil {
				app.servers = append(app.servers, s)
			}
		}
	}
}

// WithJob runs job for the lifetime of the application. A job returning
// an error other than context.Canceled stops the application.
func WithJob(job Job) Option {
	return func(app *Application) {
		if job != nil {
			app.jobs = append(app.jobs, job)
		}
	}
}

func WithClose(name string, fn func(context.Context) error, timeout time.Duration) Option {
	return func(app *Application) {
		if fn == nil {
			return
		}
		app.closeFuncs = append(app.closeFuncs, CloseFunc{Name: name, Fn: fn, Timeout: timeout})
	}
}

func New(opts ...Option) *Application {
	app := &Application{
		shutdownTimeout: 30 * time.Second,
		closeTimeout:    30 * time.Second,
		signals:         []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT},
	}
	app.ctx, app.cancel = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(app)
	}
	app.logger = log.Or(app.logger)
	for i := range app.closeFuncs {
		if app.closeFuncs[i].Timeout == 0 {
			app.closeFuncs[i].Timeout = app.closeTimeout
		}
	}
	return app
}

// RegisterClose adds a close function, also after Start.
func (app *Application) RegisterClose(name string, fn func(context.Context) error, timeout time.Duration) error {
	if fn == nil {
		return errors.InvalidInput("app: close function cannot be nil")
	}
	if timeout == 0 {
		timeout = app.closeTimeout
	}

	app.mu.Lock()
	defer app.mu.Unlock()
	app.closeFuncs = append(app.closeFuncs, CloseFunc{Name: name, Fn: fn, Timeout: timeout})
	return nil
}

// Start runs every server and job and blocks until shutdown. Close
// functions run before it returns.
func (app *Application) Start() error {
	app.mu.Lock()
	if app.started {
		app.mu.Unlock()
		return ErrAlreadyStarted
	}
	app.started = true
	app.mu.Unlock()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, app.signals...)
	defer signal.Stop(sigCh)

	eg, ctx := errgroup.WithContext(app.ctx)

	for _, server := range app.servers {
		eg.Go(func() error {
			if err := server.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		eg.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), app.shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	for _, job := range app.jobs {
		eg.Go(func() error {
			if err := job(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	eg.Go(func() error {
		select {
		case sig := <-sigCh:
			app.logger.Info().Str("signal", sig.String()).Msg("received shutdown signal")
			app.cancel()
		case <-ctx.Done():
		}
		return nil
	})

	err := eg.Wait()
	app.runCloseTasks()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Stop triggers a graceful shutdown.
func (app *Application) Stop() {
	app.cancel()
}

func (app *Application) runCloseTasks() {
	app.mu.RLock()
	closeFuncs := append([]CloseFunc(nil), app.closeFuncs...)
	app.mu.RUnlock()

	var eg errgroup.Group
	for _, c := range closeFuncs {
		eg.Go(func() error {
			return app.runCloseTask(c)
		})
	}
	if err := eg.Wait(); err != nil {
		app.logger.Error().Err(err).Msg("some close functions failed")
	}
}

func (app *Application) runCloseTask(c CloseFunc) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				app.logger.Error().Interface("panic", r).Str("close", c.Name).Msg("close function panicked")
				done <- ErrClosePanic
			}
		}()
		done <- c.Fn(ctx)
	}()

	select {
	case err := <-done:
		if err != nil {
			app.logger.Error().Err(err).Str("close", c.Name).Msg("close function failed")
		}
		return err
	case <-ctx.Done():
		app.logger.Warn().Str("close", c.Name).Msg("close function timed out")
		return ctx.Err()
	}
}

// Info describes the application state.
type Info struct {
	Started     bool `json:"started"`
	ServerCount int  `json:"server_count"`
	JobCount    int  `json:"job_count"`
	CloseCount  int  `json:"close_count"`
}

func (app *Application) Info() Info {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return Info{
		Started:     app.started,
		ServerCount: len(app.servers),
		JobCount:    len(app.jobs),
		CloseCount:  len(app.closeFuncs),
	}
}
