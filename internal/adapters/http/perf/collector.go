// Package perf records request and query timings and domain counters as
// Prometheus metrics.
package perf

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// EntryKind distinguishes request vs query entries.
type EntryKind uint8

const (
	KindRequest EntryKind = iota
	KindQuery
)

// Outcome label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Entry is a single timing observation.
type Entry struct {
	Kind       EntryKind
	Path       string // route label for requests, "store.Method" or op for queries
	Method     string // HTTP method (requests only)
	StatusCode int    // HTTP status (0 for queries)
	DurationMs float64
	Timestamp  time.Time
}

// Collector owns a private Prometheus registry with the site's metrics.
// All methods are safe on a nil *Collector so tests can pass nil.
type Collector struct {
	registry *prometheus.Registry
	count    int64 // total entries ever recorded (atomic)

	requestDuration  *prometheus.HistogramVec
	queryDuration    *prometheus.HistogramVec
	enquiriesTotal   *prometheus.CounterVec
	programOpsTotal  *prometheus.CounterVec
	adminLoginsTotal *prometheus.CounterVec
}

// NewCollector creates a collector and registers its metrics.
// PRE: none
// POST: Returns a ready-to-use collector with Go runtime and process collectors attached
func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aura_http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	c.queryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "aura_db_query_duration_seconds",
			Help: "Time taken by database calls",
			// 0.5ms to ~1s
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"op"},
	)
	c.enquiriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_enquiries_submitted_total",
			Help: "Total number of enquiry submissions",
		},
		[]string{"status"},
	)
	c.programOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_program_operations_total",
			Help: "Total number of admin program mutations",
		},
		[]string{"operation", "status"}, // operation: add, delete
	)
	c.adminLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aura_admin_logins_total",
			Help: "Total number of admin gate attempts",
		},
		[]string{"result"}, // result: granted, denied
	)

	c.registry.MustRegister(
		c.requestDuration,
		c.queryDuration,
		c.enquiriesTotal,
		c.programOpsTotal,
		c.adminLoginsTotal,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return c
}

// Record observes a timing entry.
// PRE: e is a valid Entry
// POST: Histogram observed and TotalRecorded incremented
func (c *Collector) Record(e Entry) {
	if c == nil {
		return
	}
	seconds := e.DurationMs / 1000.0
	switch e.Kind {
	case KindRequest:
		c.requestDuration.WithLabelValues(e.Method, e.Path, strconv.Itoa(e.StatusCode)).Observe(seconds)
	case KindQuery:
		c.queryDuration.WithLabelValues(e.Path).Observe(seconds)
	}
	atomic.AddInt64(&c.count, 1)
}

// TotalRecorded returns the number of timing entries ever recorded.
func (c *Collector) TotalRecorded() int64 {
	if c == nil {
		return 0
	}
	return atomic.LoadInt64(&c.count)
}

// RecordEnquiry counts an enquiry submission outcome.
func (c *Collector) RecordEnquiry(status string) {
	if c == nil {
		return
	}
	c.enquiriesTotal.WithLabelValues(status).Inc()
}

// RecordProgramOp counts an add/delete program outcome.
func (c *Collector) RecordProgramOp(operation, status string) {
	if c == nil {
		return
	}
	c.programOpsTotal.WithLabelValues(operation, status).Inc()
}

// RecordAdminLogin counts an admin gate attempt.
func (c *Collector) RecordAdminLogin(granted bool) {
	if c == nil {
		return
	}
	result := "denied"
	if granted {
		result = "granted"
	}
	c.adminLoginsTotal.WithLabelValues(result).Inc()
}

// Registry exposes the underlying registry (tests gather from it).
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
