// Package metrics exposes Prometheus counters for token encoding and
// decoding. A nil *Metrics records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kochabx/clea/errors"
)

// Decode results.
const (
	ResultOK      = "ok"
	ResultPartial = "partial"
	ResultFailed  = "failed"
)

// Metrics collects codec counters.
type Metrics struct {
	TokensEncoded         *prometheus.CounterVec   // by contact=true|false
	TokensDecoded         *prometheus.CounterVec   // by result, code
	ContactDecodeFailures *prometheus.CounterVec   // by reason
	CryptoDuration        *prometheus.HistogramVec // by op
	PeriodsStarted        prometheus.Counter
	QRCodesRenewed        prometheus.Counter
}

// NewMetrics registers the collectors on reg. A nil reg uses the default
// registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		TokensEncoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_encoded_total",
				Help:      "Total number of location tokens encoded",
			},
			[]string{"contact"},
		),

		TokensDecoded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_decoded_total",
				Help:      "Total number of location tokens decoded, by result and error code",
			},
			[]string{"result", "code"},
		),

		ContactDecodeFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "contact_decode_failures_total",
				Help:      "Nested contact messages that could not be decoded",
			},
			[]string{"reason"},
		),

		CryptoDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "crypto_duration_seconds",
				Help:      "Duration of encode and decode operations in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"op"},
		),

		PeriodsStarted: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "periods_started_total",
				Help:      "Total number of location periods started",
			},
		),

		QRCodesRenewed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "qrcodes_renewed_total",
				Help:      "Total number of QR code renewals within a period",
			},
		),
	}
}

// RecordEncode records a successful encode.
func (m *Metrics) RecordEncode(withContact bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.TokensEncoded.WithLabelValues(strconv.FormatBool(withContact)).Inc()
	m.CryptoDuration.WithLabelValues("encode").Observe(elapsed.Seconds())
}

// RecordDecode records the outcome of a decode. err is nil for ok and
// partial results.
func (m *Metrics) RecordDecode(result string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	code := "0"
	if err != nil {
		code = strconv.Itoa(errors.Code(err))
	}
	m.TokensDecoded.WithLabelValues(result, code).Inc()
	m.CryptoDuration.WithLabelValues("decode").Observe(elapsed.Seconds())
}

// RecordContactFailure records a nested contact message that was dropped.
func (m *Metrics) RecordContactFailure(reason string) {
	if m == nil {
		return
	}
	m.ContactDecodeFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) RecordPeriodStarted() {
	if m == nil {
		return
	}
	m.PeriodsStarted.Inc()
}

func (m *Metrics) RecordRenewal() {
	if m == nil {
		return
	}
	m.QRCodesRenewed.Inc()
}
