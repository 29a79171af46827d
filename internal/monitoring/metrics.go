package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Eligibility metrics
	EligibilityDecisions *prometheus.CounterVec

	// Onboarding metrics
	OnboardingSteps   *prometheus.CounterVec
	URLValidationFail prometheus.Counter

	// Application metrics
	ApplicationsTotal *prometheus.CounterVec

	// Reward metrics
	RewardCalculations prometheus.Counter
	RewardAdjustments  prometheus.Counter

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Database metrics
	DBConnectionsActive prometheus.Gauge
	DBConnectionsIdle   prometheus.Gauge
	DBQueryDuration     *prometheus.HistogramVec
}

var metrics *Metrics

// Init initializes all Prometheus metrics
func Init() *Metrics {
	if metrics != nil {
		return metrics
	}

	metrics = &Metrics{
		// HTTP metrics
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		// Eligibility metrics
		EligibilityDecisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eligibility_decisions_total",
				Help: "Total number of campaign eligibility decisions by outcome",
			},
			[]string{"decision"},
		),

		// Onboarding metrics
		OnboardingSteps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "onboarding_step_resolutions_total",
				Help: "Total number of onboarding step resolutions by resulting step",
			},
			[]string{"step"},
		),
		URLValidationFail: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "content_url_validation_failures_total",
				Help: "Total number of rejected content URL submissions",
			},
		),

		// Application metrics
		ApplicationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "campaign_applications_total",
				Help: "Total number of campaign applications by status",
			},
			[]string{"status"},
		),

		// Reward metrics
		RewardCalculations: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "reward_calculations_total",
				Help: "Total number of reward ladder evaluations",
			},
		),
		RewardAdjustments: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "reward_adjustments_total",
				Help: "Total number of admin approved-count adjustments",
			},
		),

		// Cache metrics
		CacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"cache_type"},
		),
		CacheMisses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"cache_type"},
		),

		// Database metrics
		DBConnectionsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_active",
				Help: "Number of active database connections",
			},
		),
		DBConnectionsIdle: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_idle",
				Help: "Number of idle database connections",
			},
		),
		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Database query duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_type"},
		),
	}

	return metrics
}

// Get returns the global metrics instance
func Get() *Metrics {
	if metrics == nil {
		return Init()
	}
	return metrics
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// MetricsMiddleware is a Gin middleware for collecting HTTP metrics
func MetricsMiddleware() gin.HandlerFunc {
	m := Get()
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method

		// Track in-flight requests
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		// Process request
		c.Next()

		// Record metrics
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	}
}

// RecordEligibilityDecision records one resolved eligibility decision
func RecordEligibilityDecision(decision string) {
	Get().EligibilityDecisions.WithLabelValues(decision).Inc()
}

// RecordOnboardingStep records the step an onboarding resolution landed on
func RecordOnboardingStep(step string) {
	Get().OnboardingSteps.WithLabelValues(step).Inc()
}

// RecordURLValidationFailure records a rejected content URL submission
func RecordURLValidationFailure() {
	Get().URLValidationFail.Inc()
}

// RecordApplication records a campaign application
func RecordApplication(status string) {
	Get().ApplicationsTotal.WithLabelValues(status).Inc()
}

// RecordRewardCalculation records one reward ladder evaluation
func RecordRewardCalculation() {
	Get().RewardCalculations.Inc()
}

// RecordRewardAdjustment records an admin approved-count change
func RecordRewardAdjustment() {
	Get().RewardAdjustments.Inc()
}

// RecordCacheHit records a cache hit
func RecordCacheHit(cacheType string) {
	Get().CacheHits.WithLabelValues(cacheType).Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(cacheType string) {
	Get().CacheMisses.WithLabelValues(cacheType).Inc()
}

// RecordDBQuery records a database query duration
func RecordDBQuery(queryType string, duration time.Duration) {
	Get().DBQueryDuration.WithLabelValues(queryType).Observe(duration.Seconds())
}

// SetDBConnections sets database connection metrics
func SetDBConnections(active, idle int) {
	Get().DBConnectionsActive.Set(float64(active))
	Get().DBConnectionsIdle.Set(float64(idle))
}
