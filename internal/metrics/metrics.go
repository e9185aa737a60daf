package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPResponseSize     *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitExceededTotal *prometheus.CounterVec

	// Posts and images
	PostsCreatedTotal       prometheus.Counter
	PostsDeletedTotal       prometheus.Counter
	ImageUploadBytes        prometheus.Histogram
	ImageRejectedTotal      *prometheus.CounterVec
	BlobCleanupFailureTotal *prometheus.CounterVec
	OrphansSweptTotal       prometheus.Counter

	// Social interactions, labelled by action (like, unlike, comment, ...) and result
	InteractionsTotal *prometheus.CounterVec

	// Feed pages served
	FeedPageSize *prometheus.HistogramVec

	// Error metrics
	ErrorsTotal *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics on the default registry
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
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
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			HTTPResponseSize: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_response_size_bytes",
					Help:    "HTTP response body size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 6),
				},
				[]string{"method", "path"},
			),
			HTTPRequestsInFlight: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "http_requests_in_flight",
					Help: "Number of HTTP requests currently being served",
				},
			),
			RateLimitExceededTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limit_exceeded_total",
					Help: "Requests rejected by a rate limiter",
				},
				[]string{"limiter", "path"},
			),
			PostsCreatedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "posts_created_total",
					Help: "Posts successfully created",
				},
			),
			PostsDeletedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "posts_deleted_total",
					Help: "Posts deleted by their owners",
				},
			),
			ImageUploadBytes: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "image_upload_bytes",
					Help:    "Size of accepted image uploads",
					Buckets: prometheus.ExponentialBuckets(16*1024, 2, 9),
				},
			),
			ImageRejectedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "image_rejected_total",
					Help: "Uploads rejected during validation",
				},
				[]string{"reason"},
			),
			BlobCleanupFailureTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "blob_cleanup_failures_total",
					Help: "Object store deletions that failed and left an orphaned image",
				},
				[]string{"operation"},
			),
			OrphansSweptTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "orphaned_images_swept_total",
					Help: "Stored images with no post row that the sweeper deleted",
				},
			),
			InteractionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "interactions_total",
					Help: "Likes, comments and follows by action and result",
				},
				[]string{"action", "result"},
			),
			FeedPageSize: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_page_size",
					Help:    "Number of posts returned per feed page",
					Buckets: []float64{0, 1, 5, 10, 20, 50},
				},
				[]string{"feed"},
			),
			ErrorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "API errors by code",
				},
				[]string{"code"},
			),
		}
	})
	return instance
}

// Get returns the metrics singleton, initializing it on first use
func Get() *Metrics {
	return Initialize()
}

// RecordInteraction counts a social action outcome ("ok" or an error code)
func RecordInteraction(action, result string) {
	Get().InteractionsTotal.WithLabelValues(action, result).Inc()
}
