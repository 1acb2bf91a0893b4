// Package http serves the administrative endpoints of a long running
// process on gin.
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kochabx/clea/log"
	"github.com/kochabx/clea/transport"
	"github.com/kochabx/clea/transport/http/middleware"
)

var _ transport.Server = (*Server)(nil)

const (
	defaultName = "http"
	defaultAddr = ":9090"
)

// Meta is the metadata of the server.
type Meta struct {
	Name string
}

type Server struct {
	meta    Meta
	options Options
	logger  *log.Logger
	server  *http.Server
}

type Option func(*Server)

func WithMeta(meta Meta) Option {
	return func(s *Server) {
		s.meta = meta
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

func WithMetricsOptions(metrics MetricsOption) Option {
	return func(s *Server) {
		if err := metrics.init(); err != nil {
			log.Or(s.logger).Error().Err(err).Msg("invalid metrics options")
			return
		}
		s.options.Metrics = metrics
	}
}

func WithHealthOptions(health HealthOption) Option {
	return func(s *Server) {
		if err := health.init(); err != nil {
			log.Or(s.logger).Error().Err(err).Msg("invalid health options")
			return
		}
		s.options.Health = health
	}
}

// NewServer wraps handler. When handler is nil a gin engine with request
// logging and recovery is created; the metrics and health routes are only
// mounted on gin engines.
func NewServer(addr string, handler http.Handler, opts ...Option) *Server {
	s := &Server{meta: Meta{Name: defaultName}}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = log.Or(s.logger)

	if handler == nil {
		engine := gin.New()
		engine.Use(middleware.Recovery(s.logger), middleware.Logger(s.logger, middleware.DefaultLoggerConfig()))
		handler = engine
	}
	if !transport.ValidateAddress(addr) {
		s.logger.Warn().Str("addr", addr).Str("default", defaultAddr).Msg("invalid address, using default")
		addr = defaultAddr
	}
	s.server = &http.Server{Addr: addr, Handler: handler}

	if r, ok := handler.(*gin.Engine); ok {
		handleMetrics(s, r)
		handleHealth(s, r)
	}
	return s
}

// Addr is the listen address.
func (s *Server) Addr() string { return s.server.Addr }

// Handler returns the root handler, mostly for tests.
func (s *Server) Handler() http.Handler { return s.server.Handler }

func (s *Server) Run() error {
	s.logger.Info().Str("name", s.meta.Name).Str("addr", s.server.Addr).Msg("server listening")
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func handleMetrics(s *Server, r *gin.Engine) {
	if !s.options.Metrics.Enabled {
		return
	}
	r.GET(s.options.Metrics.Path, gin.WrapH(promhttp.HandlerFor(s.options.Metrics.Gatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})))
}

func handleHealth(s *Server, r *gin.Engine) {
	if !s.options.Health.Enabled {
		return
	}
	check := s.options.Health.Check
	r.GET(s.options.Health.Path, func(c *gin.Context) {
		if check == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		detail, err := check()
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "detail": detail})
	})
}
