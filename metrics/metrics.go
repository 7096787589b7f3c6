// Package metrics holds the prometheus collectors shared by the pipeline
// stages and the HTTP server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "repurposer"

// Metrics groups every collector on its own registry so tests can build
// independent instances.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests       *prometheus.CounterVec
	GenerationRequests *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	Extractions        *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "status"}),
		GenerationRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_requests_total",
			Help:      "Provider calls per channel by outcome.",
		}, []string{"channel", "outcome"}),
		GenerationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Provider call latency per channel.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"channel"}),
		Extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Source resolutions by source kind and outcome.",
		}, []string{"source", "outcome"}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.GenerationRequests,
		m.GenerationDuration,
		m.Extractions,
	)
	return m
}

// ObserveGeneration records one provider call. Safe on a nil receiver.
func (m *Metrics) ObserveGeneration(channel string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.GenerationRequests.WithLabelValues(channel, outcome(err)).Inc()
	m.GenerationDuration.WithLabelValues(channel).Observe(time.Since(started).Seconds())
}

// ObserveExtraction records one source resolution. Safe on a nil receiver.
func (m *Metrics) ObserveExtraction(source string, err error) {
	if m == nil {
		return
	}
	m.Extractions.WithLabelValues(source, outcome(err)).Inc()
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
