package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// StaticRequests counts requests seen by the static file middleware,
	// partitioned by whether they were served from a keyed tree or delegated
	StaticRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "appfiles_static_requests_total",
		Help: "The number of requests handled or delegated by the static file middleware",
	}, []string{"outcome"})

	// InvalidCookies counts app/key cookies rejected because of their content
	InvalidCookies = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "appfiles_invalid_cookies_total",
		Help: "The number of app or key cookies ignored because they were malformed or failed verification",
	}, []string{"cookie"})

	// DiskServingFileSize metric for file size serving
	DiskServingFileSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "appfiles_disk_serving_file_size_bytes",
		Help: "The size in bytes for each file that has been served",
		// From 1B to 100MB in *10 increments (1 10 100 1,000 10,000 100,000 1'000,000 10'000,000 100'000,000)
		Buckets: prometheus.ExponentialBuckets(1.0, 10.0, 9),
	})

	// ServingTime metric for time taken to find a file serving it or not found
	ServingTime = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "appfiles_serving_time_seconds",
		Help:    "The time (in seconds) taken to serve a file",
		Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 60, 180},
	})

	// DiskOperations counts the file system calls made while serving a file
	DiskOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "appfiles_disk_operations_total",
		Help: "The number of file system operations",
	}, []string{"operation", "success"})

	// RejectedRequests counts requests refused before reaching a handler,
	// partitioned by the reason they were refused for
	RejectedRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "appfiles_rejected_requests_total",
		Help: "The number of requests rejected because of an unknown method or an overlong URI",
	}, []string{"reason"})

	// SourceIPRateLimitBlocked counts requests rejected by the source IP rate limiter
	SourceIPRateLimitBlocked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "appfiles_rate_limit_source_ip_blocked_total",
		Help: "The number of requests rejected because their source IP exceeded the rate limit",
	})

	// RateLimitCachedEntries is the number of source IPs tracked by the rate limiter
	RateLimitCachedEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "appfiles_rate_limit_cached_entries",
		Help: "The number of source IP limiters currently held in the rate limiter cache",
	})
)

// MustRegister collectors with the Prometheus client
func MustRegister() {
	prometheus.MustRegister(
		StaticRequests,
		InvalidCookies,
		DiskServingFileSize,
		ServingTime,
		DiskOperations,
		RejectedRequests,
		SourceIPRateLimitBlocked,
		RateLimitCachedEntries,
	)
}
