package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the submission server. Each
// Metrics has its own registry.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	AutofillFetches     *prometheus.CounterVec
	Merges              *prometheus.CounterVec
	Submissions         *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		AutofillFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autofill_fetches_total",
			Help:      "Autofill drafts fetched, by source type and outcome",
		}, []string{"source_type", "status"}),
		Merges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autofill_merges_total",
			Help:      "Autofill drafts resolved, by policy and whether the plan was regenerated",
		}, []string{"policy", "regenerated"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submissions handed to the sink, by outcome",
		}, []string{"status"}),
	}
	reg.MustRegister(m.HTTPRequestsTotal, m.HTTPRequestDuration, m.AutofillFetches, m.Merges, m.Submissions)
	return m
}

// Handler returns an HTTP handler that serves the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// All Record methods are safe on a nil *Metrics.

func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordAutofill(sourceType string, err error) {
	if m == nil {
		return
	}
	m.AutofillFetches.WithLabelValues(sourceType, status(err)).Inc()
}

func (m *Metrics) RecordMerge(policy string, regenerated bool) {
	if m == nil {
		return
	}
	m.Merges.WithLabelValues(policy, strconv.FormatBool(regenerated)).Inc()
}

func (m *Metrics) RecordSubmission(err error) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
