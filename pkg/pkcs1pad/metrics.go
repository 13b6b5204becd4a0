package pkcs1pad

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric label values.
const (
	metricsNamespace = "pkcs1pad"

	labelOp    = "op"
	labelError = "error"
)

// metricsCollector holds the Prometheus metrics pkcs1pad emits. A Transform
// with no metrics option configured never constructs one, so the library
// has zero observability cost unless wired in.
type metricsCollector struct {
	Operations       *prometheus.CounterVec
	Errors           *prometheus.CounterVec
	InnerEngineTimes *prometheus.HistogramVec
}

// NewMetrics creates a metrics collector and registers it against reg. If
// reg is nil, prometheus.DefaultRegisterer is used. Pass the result to
// WithMetrics when constructing a Transform.
func NewMetrics(reg prometheus.Registerer) *metricsCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &metricsCollector{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "operations_total",
			Help:      "Total pkcs1pad operations, labeled by op.",
		}, []string{labelOp}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "errors_total",
			Help:      "Total pkcs1pad operation failures, labeled by op and error sentinel.",
		}, []string{labelOp, labelError}),
		InnerEngineTimes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "inner_engine_seconds",
			Help:      "Duration of each pkcs1pad operation from entry until it finishes, labeled by op; it covers the whole operation, not only the inner raw-RSA engine call.",
			Buckets:   prometheus.DefBuckets,
		}, []string{labelOp}),
	}

	reg.MustRegister(c.Operations, c.Errors, c.InnerEngineTimes)
	return c
}

func (c *metricsCollector) observe(op string, dur float64, err error) {
	if c == nil {
		return
	}
	c.Operations.WithLabelValues(op).Inc()
	c.InnerEngineTimes.WithLabelValues(op).Observe(dur)
	if err != nil {
		c.Errors.WithLabelValues(op, errorLabel(err)).Inc()
	}
}

// errorLabel maps err to one of the sentinel names for the error metric
// label, falling back to "other" for anything unrecognized (e.g. an inner
// engine failure that isn't one of pkcs1pad's own sentinels).
func errorLabel(err error) string {
	switch {
	case errors.Is(err, ErrInvalid):
		return "invalid"
	case errors.Is(err, ErrOverflow):
		return "overflow"
	case errors.Is(err, ErrOutOfMemory):
		return "out_of_memory"
	case errors.Is(err, ErrNotSupported):
		return "not_supported"
	case errors.Is(err, ErrBadMessage):
		return "bad_message"
	case errors.Is(err, ErrBusy):
		return "busy"
	default:
		return "other"
	}
}
