// Package metrics provides the Prometheus registry and the collectors the
// server exposes on /metrics.
package metrics

import (
	"strconv" // Status code labels
	"time"    // Request timing

	"github.com/gin-gonic/gin"                                  // Gin web framework
	"github.com/prometheus/client_golang/prometheus"            // Metric types
	"github.com/prometheus/client_golang/prometheus/collectors" // Runtime collectors
	"github.com/prometheus/client_golang/prometheus/promhttp"   // Exposition handler
)

const namespace = "inventory_sales"

var (
	// RequestDuration tracks request latency by method, route and status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// RequestInFlight tracks requests currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// SalesCreated counts committed sales.
	SalesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sales",
		Name:      "created_total",
		Help:      "Total sales committed.",
	})

	// SaleFailures counts rejected or rolled back sale creations by reason.
	SaleFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sales",
			Name:      "failures_total",
			Help:      "Sale creations that did not commit, by reason.",
		},
		[]string{"reason"}, // "forbidden" | "invalid" | "insufficient_stock" | "not_found" | "error"
	)

	// CacheLookups counts cache reads by outcome.
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by result.",
		},
		[]string{"result"}, // "hit" | "miss"
	)
)

// Registry holds every collector above plus the Go and process collectors.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RequestDuration,
		RequestInFlight,
		SalesCreated,
		SaleFailures,
		CacheLookups,
	)
}

// Middleware records latency and in-flight requests. The route label is the
// matched pattern, not the raw path, to keep label cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		RequestInFlight.Inc()
		defer RequestInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text and OpenMetrics formats.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
	return gin.WrapH(h)
}

// CacheResult records a cache hit or miss.
func CacheResult(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}
