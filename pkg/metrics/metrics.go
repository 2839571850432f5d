// Package metrics defines the Prometheus collectors exported by the service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "djedi"

// Node resolution sources.
const (
	SourceCache   = "cache"
	SourceStorage = "storage"
	SourceDefault = "default"
)

// Registry holds every collector exported at /metrics.
var Registry = prometheus.NewRegistry()

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of HTTP requests by route, method and status code.",
		},
		[]string{"route", "method", "code"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	nodesResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "nodes",
			Name:      "resolved_total",
			Help:      "Count of resolved nodes by the source that produced their content.",
		},
		[]string{"source"},
	)
)

var registerMetrics sync.Once

// Register adds all collectors to Registry. It is safe to call more than once.
func Register() {
	registerMetrics.Do(func() {
		Registry.MustRegister(requestsTotal)
		Registry.MustRegister(requestDuration)
		Registry.MustRegister(nodesResolved)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves Registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordRequest records a served HTTP request.
func RecordRequest(route, method string, code int, elapsed time.Duration) {
	requestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordNodeResolved records one node resolved from source.
func RecordNodeResolved(source string) {
	nodesResolved.WithLabelValues(source).Inc()
}

// NodesResolved returns the counter for source. Intended for tests.
func NodesResolved(source string) prometheus.Counter {
	return nodesResolved.WithLabelValues(source)
}

// Requests returns the request counter for the label set. Intended for tests.
func Requests(route, method string, code int) prometheus.Counter {
	return requestsTotal.WithLabelValues(route, method, strconv.Itoa(code))
}
