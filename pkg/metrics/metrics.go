// Package metrics exposes Prometheus collectors for the kernel server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "kernel_server"

	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the collectors reported by the HTTP API and the COMMS bridge.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests       *prometheus.CounterVec
	invocations    *prometheus.CounterVec
	kernelDuration *prometheus.HistogramVec
}

// MustNewMetrics constructs a Metrics instance registered with reg. Passing a
// nil registerer uses the default Prometheus registry. Registration errors panic.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests served, by route pattern and status code.",
		}, []string{"route", "code"}),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kernel_invocations_total",
			Help:      "Kernel invocations, by kernel name and outcome.",
		}, []string{"kernel", "outcome"}),
		kernelDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kernel_duration_seconds",
			Help:      "Kernel invocation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kernel"}),
	}
	reg.MustRegister(m.requests, m.invocations, m.kernelDuration)
	return m
}

// ObserveRequest counts one served HTTP request.
func (m *Metrics) ObserveRequest(route string, code int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// ObserveInvocation records the outcome and latency of one kernel call.
func (m *Metrics) ObserveInvocation(kernel string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if !ok {
		outcome = OutcomeError
	}
	m.invocations.WithLabelValues(kernel, outcome).Inc()
	m.kernelDuration.WithLabelValues(kernel).Observe(d.Seconds())
}

// Handler serves the collectors gathered by g in the Prometheus exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
