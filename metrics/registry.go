package metrics

import (
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// NewRegistry returns an empty registry, optionally with the Go runtime
// and build info collectors.
func NewRegistry(goRuntime, buildInfo bool) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	if goRuntime {
		reg.MustRegister(collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/.*")}),
		))
	}
	if buildInfo {
		reg.MustRegister(collectors.NewBuildInfoCollector())
	}
	return reg
}
