// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the service's Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpLatency   prometheus.Histogram
	ratingCreates prometheus.Counter
	ratingUpdates prometheus.Counter
	upsertRetries prometheus.Counter
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "storerating_http_requests_total",
			Help: "HTTP requests by method and status code",
		}, []string{"method", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "storerating_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ratingCreates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storerating_rating_creates_total",
			Help: "Rating submissions that inserted a new row",
		}),
		ratingUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storerating_rating_updates_total",
			Help: "Rating submissions that overwrote an existing row",
		}),
		upsertRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storerating_rating_upsert_retries_total",
			Help: "Rating upsert transactions retried after a transient abort",
		}),
	}

	registry.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.ratingCreates,
		c.ratingUpdates,
		c.upsertRetries,
	)

	return c
}

func (c *Collector) RecordHTTPRequest(method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

func (c *Collector) RecordRatingUpsert(created bool) {
	if created {
		c.ratingCreates.Inc()
		return
	}
	c.ratingUpdates.Inc()
}

func (c *Collector) RecordUpsertRetry() {
	c.upsertRetries.Inc()
}

// Handler serves the /metrics endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
