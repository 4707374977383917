package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codeshift_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codeshift_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ConversionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codeshift_conversions_total",
			Help: "Total number of conversion attempts by outcome.",
		},
		[]string{"status"},
	)

	ConversionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codeshift_conversion_duration_seconds",
			Help:    "End-to-end conversion pipeline duration in seconds.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90},
		},
	)

	ModelRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codeshift_model_request_duration_seconds",
			Help:    "Latency of calls to the translation model API.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90},
		},
	)

	ThrottleRejectionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "codeshift_throttle_rejections_total",
			Help: "Requests rejected by the per-origin throttle.",
		},
	)

	ConversionCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "codeshift_conversion_cache_hits_total",
			Help: "Conversions served from the result cache.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ConversionsTotal,
		ConversionDuration,
		ModelRequestDuration,
		ThrottleRejectionsTotal,
		ConversionCacheHitsTotal,
	)
}
