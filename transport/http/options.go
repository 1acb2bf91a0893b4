package http

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kochabx/clea/core/tag"
)

type Options struct {
	Metrics MetricsOption `json:"metrics" mapstructure:"metrics"`
	Health  HealthOption  `json:"health" mapstructure:"health"`
}

type MetricsOption struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path" default:"/metrics"`

	// Gatherer defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer `json:"-" mapstructure:"-"`
}

func (m *MetricsOption) init() error {
	if m.Gatherer == nil {
		m.Gatherer = prometheus.DefaultGatherer
	}
	return tag.ApplyDefaults(m)
}

// HealthCheck returns a status document, or an error when unhealthy.
type HealthCheck func() (any, error)

type HealthOption struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path" default:"/health"`

	Check HealthCheck `json:"-" mapstructure:"-"`
}

func (h *HealthOption) init() error {
	return tag.ApplyDefaults(h)
}
