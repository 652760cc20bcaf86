package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records request and cache counters.
type Metrics interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	Handler() http.Handler
}

type promMetrics struct {
	reg             *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewMetrics registers the server collectors on a private registry. dayCache
// reports the number of memoised polar days; it may be nil.
func NewMetrics(enabled bool, dayCache func() int) Metrics {
	if !enabled {
		return noopMetrics{}
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	m := &promMetrics{
		reg: reg,
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "risetrans_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "risetrans_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: f.NewCounter(prometheus.CounterOpts{
			Name: "risetrans_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		cacheMisses: f.NewCounter(prometheus.CounterOpts{
			Name: "risetrans_cache_misses_total",
			Help: "Total number of response cache misses",
		}),
	}

	if dayCache != nil {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "risetrans_polar_day_cache_entries",
			Help: "Number of sampled polar days held in memory",
		}, func() float64 {
			return float64(dayCache())
		})
	}
	return m
}

func (m *promMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *promMetrics) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *promMetrics) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *promMetrics) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *promMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

type noopMetrics struct{}

func (noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (noopMetrics) IncCacheHits()                                    {}
func (noopMetrics) IncCacheMisses()                                  {}
func (noopMetrics) Handler() http.Handler                            { return http.NotFoundHandler() }

// MetricsMiddleware counts every request by route.
func MetricsMiddleware(m Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.IncRequestsTotal(endpoint, c.Writer.Status())
		m.ObserveRequestDuration(endpoint, time.Since(start))
	}
}
