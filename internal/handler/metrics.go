package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the TubePulse Go backend.
var Metrics = struct {
	ViewsServed         *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	DBPoolActive        prometheus.GaugeFunc
	DBPoolIdle          prometheus.GaugeFunc
	RequestsInFlight    prometheus.Gauge
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
	ExportDuration      prometheus.Histogram
	SectionsSynthesized *prometheus.CounterVec
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics(pool *pgxpool.Pool) {
	Metrics.ViewsServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubepulse_views_served_total",
			Help: "Total analytics views served, by scope.",
		},
		[]string{"scope"},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubepulse_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tubepulse_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tubepulse_cache_hits_total",
			Help: "Total Redis cache hits.",
		},
	)

	Metrics.CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tubepulse_cache_misses_total",
			Help: "Total Redis cache misses.",
		},
	)

	Metrics.ExportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tubepulse_export_duration_seconds",
			Help:    "Duration of CSV export rendering.",
			Buckets: prometheus.DefBuckets,
		},
	)

	Metrics.SectionsSynthesized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubepulse_sections_synthesized_total",
			Help: "Total optional sections filled by synthesis, by section.",
		},
		[]string{"section"},
	)

	// DB pool gauges — read live stats from pgxpool
	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "tubepulse_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "tubepulse_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		prometheus.MustRegister(Metrics.DBPoolActive)
		prometheus.MustRegister(Metrics.DBPoolIdle)
	}

	prometheus.MustRegister(
		Metrics.ViewsServed,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.CacheHits,
		Metrics.CacheMisses,
		Metrics.ExportDuration,
		Metrics.SectionsSynthesized,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next() — Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	switch {
	case len(path) > 24 && path[:24] == "/api/analytics/channels/":
		return "/api/analytics/channels/:channelId"
	case len(path) > 22 && path[:22] == "/api/analytics/groups/":
		return "/api/analytics/groups/:groupId"
	case len(path) > 24 && path[:24] == "/api/analytics/branches/":
		return "/api/analytics/branches/:branchId"
	case len(path) > 21 && path[:21] == "/api/analytics/teams/":
		return "/api/analytics/teams/:teamId"
	default:
		return path
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
