package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "newsdigest"

// Collector owns the Prometheus metrics of the digest service.
// All methods are safe to call on a nil *Collector.
type Collector struct {
	registry *prometheus.Registry

	digestsTotal        *prometheus.CounterVec
	scoringFallbacks    *prometheus.CounterVec
	articlesSkipped     prometheus.Counter
	providerErrors      *prometheus.CounterVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewCollector registers the digest metrics on a dedicated registry.
func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.digestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "digests_total",
			Help:      "Digest requests by scoring mode and result",
		},
		[]string{"scoring_mode", "result"},
	)

	c.scoringFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scoring_fallbacks_total",
			Help:      "Remote scoring attempts that fell back to the keyword heuristic",
		},
		[]string{"provider"},
	)

	c.articlesSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_skipped_total",
			Help:      "Provider records dropped during normalization",
		},
	)

	c.providerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Headline provider failures by kind",
		},
		[]string{"kind"},
	)

	c.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	c.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	c.registry.MustRegister(
		c.digestsTotal,
		c.scoringFallbacks,
		c.articlesSkipped,
		c.providerErrors,
		c.httpRequestsTotal,
		c.httpRequestDuration,
	)

	return c
}

// Registry exposes the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// ObserveDigest counts one assembled or failed digest.
func (c *Collector) ObserveDigest(mode, result string) {
	if c == nil {
		return
	}
	if mode == "" {
		mode = "none"
	}
	c.digestsTotal.WithLabelValues(mode, result).Inc()
}

// IncScoringFallback counts a remote scoring failure absorbed by the keyword heuristic.
func (c *Collector) IncScoringFallback(provider string) {
	if c == nil {
		return
	}
	c.scoringFallbacks.WithLabelValues(provider).Inc()
}

// AddSkippedArticles counts provider records dropped during normalization.
func (c *Collector) AddSkippedArticles(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.articlesSkipped.Add(float64(n))
}

// IncProviderError counts a fatal headline provider failure.
func (c *Collector) IncProviderError(kind string) {
	if c == nil {
		return
	}
	c.providerErrors.WithLabelValues(kind).Inc()
}

// Middleware records request counts and latency for every route.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if c == nil {
			ctx.Next()
			return
		}

		start := time.Now()
		ctx.Next()

		endpoint := ctx.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}
		status := strconv.Itoa(ctx.Writer.Status())

		c.httpRequestsTotal.WithLabelValues(ctx.Request.Method, endpoint, status).Inc()
		c.httpRequestDuration.WithLabelValues(ctx.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the Prometheus exposition handler for this collector.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
