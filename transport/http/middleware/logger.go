// Package middleware holds the gin middleware of the admin server.
package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kochabx/clea/log"
)

type LoggerConfig struct {
	HandlerEnabled bool
	// SkipPaths are never logged.
	SkipPaths []string
	// Filter returns true for requests that must not be logged.
	Filter func(c *gin.Context) bool
}

func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		SkipPaths: []string{"/health", "/metrics"},
	}
}

// Logger logs one line per request.
func Logger(l *log.Logger, config LoggerConfig) gin.HandlerFunc {
	l = log.Or(l)
	return func(c *gin.Context) {
		if shouldSkipLogging(c, config) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		event := l.Info().
			Int("status", c.Writer.Status()).
			Str("method", c.Request.Method).
			Str("uri", c.Request.RequestURI).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP())
		if config.HandlerEnabled {
			event = event.Str("handler", c.HandlerName())
		}
		if requestID := c.Request.Header.Get("X-Request-Id"); requestID != "" {
			event = event.Str("request_id", requestID)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.ByType(gin.ErrorTypePrivate).String())
		}
		event.Send()
	}
}

// Recovery turns a panic into a 500 and logs it.
func Recovery(l *log.Logger) gin.HandlerFunc {
	l = log.Or(l)
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, err any) {
		l.Error().Interface("panic", err).Str("uri", c.Request.RequestURI).Msg("request panicked")
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

func shouldSkipLogging(c *gin.Context, config LoggerConfig) bool {
	if config.Filter != nil {
		return config.Filter(c)
	}
	return slices.Contains(config.SkipPaths, c.Request.URL.Path)
}
