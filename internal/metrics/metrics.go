// Package metrics holds the Prometheus collectors of the gallery server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFallback = "fallback"
	OutcomeCanceled = "canceled"
)

// Collector holds all Prometheus metrics for the application.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	APODFetches  *prometheus.CounterVec
	APODDuration prometheus.Histogram

	GalleryRuns    *prometheus.CounterVec
	GalleryItems   prometheus.Counter
	ActiveSessions prometheus.Gauge
}

// NewCollector creates a collector registered on its own registry.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		APODFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "apod_fetches_total",
				Help:      "Image-of-the-day fetches by outcome",
			},
			[]string{"outcome"},
		),
		APODDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "apod_fetch_duration_seconds",
				Help:      "Image-of-the-day fetch latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		GalleryRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gallery_runs_total",
				Help:      "Gallery render runs by final state",
			},
			[]string{"state"},
		),
		GalleryItems: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gallery_items_total",
				Help:      "Gallery items rendered",
			},
		),
		ActiveSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "viewer_sessions",
				Help:      "Open viewer WebSocket sessions",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.APODFetches,
		c.APODDuration,
		c.GalleryRuns,
		c.GalleryItems,
		c.ActiveSessions,
	)
	return c
}

// ObserveFetch records one fetch outcome and its latency.
func (c *Collector) ObserveFetch(outcome string, d time.Duration) {
	if c == nil {
		return
	}
	c.APODFetches.WithLabelValues(outcome).Inc()
	c.APODDuration.Observe(d.Seconds())
}

// ObserveRun records the final state of a gallery run and how many items it produced.
func (c *Collector) ObserveRun(state string, items int) {
	if c == nil {
		return
	}
	c.GalleryRuns.WithLabelValues(state).Inc()
	c.GalleryItems.Add(float64(items))
}

// SessionOpened increments the open sessions gauge.
func (c *Collector) SessionOpened() {
	if c != nil {
		c.ActiveSessions.Inc()
	}
}

// SessionClosed decrements the open sessions gauge.
func (c *Collector) SessionClosed() {
	if c != nil {
		c.ActiveSessions.Dec()
	}
}

// Registry returns the Prometheus registry for this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler exposes the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware counts requests and observes their duration per chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
