package metrics

import (
	"io"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "bigcalc"

// Metrics holds the evaluation metrics on a private registry, so that
// several instances (one per test, for example) never collide.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	operations   *prometheus.CounterVec
	failures     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	resultDigits *prometheus.HistogramVec
}

// New creates a Metrics instance with its own registry. The registry also
// exposes heap gauges read through a MemoryCollector.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Number of successfully evaluated expressions.",
		}, []string{"engine", "op"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Number of expressions that failed to evaluate, by failure kind.",
		}, []string{"engine", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Time spent evaluating a single expression.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 8),
		}, []string{"engine", "op"}),
		resultDigits: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "result_digits",
			Help:      "Number of decimal digits in evaluation results.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 7),
		}, []string{"op"}),
	}

	mc := NewMemoryCollector()
	m.registry.MustRegister(
		m.operations,
		m.failures,
		m.duration,
		m.resultDigits,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "heap_alloc_bytes",
			Help:      "Bytes of allocated heap objects.",
		}, func() float64 { return float64(mc.Snapshot().HeapAlloc) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gc_cycles",
			Help:      "Number of completed GC cycles.",
		}, func() float64 { return float64(mc.Snapshot().NumGC) }),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveEvaluation records a successful evaluation.
//
// Parameters:
//   - engine: The engine name.
//   - op: The operation label ("+", "-", "*" or "norm").
//   - d: The time the evaluation took.
//   - digits: The number of digits in the result, without sign.
func (m *Metrics) ObserveEvaluation(engine, op string, d time.Duration, digits int) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(engine, op).Inc()
	m.duration.WithLabelValues(engine, op).Observe(d.Seconds())
	m.resultDigits.WithLabelValues(op).Observe(float64(digits))
}

// ObserveFailure records a failed evaluation of the given kind
// ("format", "canceled" or "other").
func (m *Metrics) ObserveFailure(engine, kind string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(engine, kind).Inc()
}

// WriteText gathers the registry and writes it to w in the Prometheus text
// exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// Summary holds a compact view of the evaluation counters, used by the
// interactive front ends.
type Summary struct {
	Operations uint64
	Failures   uint64
}

// String renders the summary on one line.
func (s Summary) String() string {
	return "operations=" + strconv.FormatUint(s.Operations, 10) + " failures=" + strconv.FormatUint(s.Failures, 10)
}

// Summarize totals the operation and failure counters across all labels.
func (m *Metrics) Summarize() (Summary, error) {
	var s Summary
	if m == nil {
		return s, nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return s, err
	}
	for _, mf := range families {
		var total float64
		for _, metric := range mf.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
		switch mf.GetName() {
		case namespace + "_operations_total":
			s.Operations = uint64(total)
		case namespace + "_failures_total":
			s.Failures = uint64(total)
		}
	}
	return s, nil
}
