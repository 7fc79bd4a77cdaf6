package playground

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wippyai/fmt-playground/format"
)

// Namespace prefixes every playground metric.
const Namespace = "fmtplay"

// Metrics records controller activity. A nil *Metrics records nothing.
type Metrics struct {
	formatRuns          *prometheus.CounterVec
	formatDuration      prometheus.Histogram
	engineLoads         *prometheus.CounterVec
	settingsValidations *prometheus.CounterVec
}

// NewMetrics registers the controller metrics with reg, or with the default
// registerer when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		formatRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "format_runs_total",
			Help:      "Format pipeline runs by outcome",
		}, []string{"outcome"}),

		formatDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "format_duration_seconds",
			Help:      "Format pipeline run duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),

		engineLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "engine_loads_total",
			Help:      "Engine loads by outcome",
		}, []string{"outcome"}),

		settingsValidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "settings_validations_total",
			Help:      "Settings validations by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observeFormat(res format.Result) {
	if m == nil {
		return
	}
	m.formatRuns.WithLabelValues(string(res.Outcome)).Inc()
	m.formatDuration.Observe(res.Duration.Seconds())
}

func (m *Metrics) observeLoad(err error) {
	if m == nil {
		return
	}
	m.engineLoads.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) observeValidation(err error) {
	if m == nil {
		return
	}
	m.settingsValidations.WithLabelValues(outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
