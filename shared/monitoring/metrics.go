package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WeatherFetchTotal counts settled weather fetches by outcome: success, error or stale
	WeatherFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_fetch_total",
			Help: "Total number of settled weather fetches",
		},
		[]string{"status"},
	)

	WeatherFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weather_fetch_duration_seconds",
			Help:    "Duration of weather provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// AssistantRequestsTotal counts assistant round trips by outcome: answer or error
	AssistantRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_requests_total",
			Help: "Total number of assistant queries",
		},
		[]string{"status"},
	)

	AssistantRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assistant_request_duration_seconds",
			Help:    "Duration of assistant queries in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// AppInfo provides static information about the application
	AppInfo = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_app_info",
			Help: "Application information (always 1)",
		},
	)
)

func init() {
	AppInfo.Set(1)
}

// RecordWeatherFetch records a settled weather fetch
func RecordWeatherFetch(status string, duration time.Duration) {
	WeatherFetchTotal.WithLabelValues(status).Inc()
	WeatherFetchDuration.Observe(duration.Seconds())
}

// RecordAssistantRequest records an assistant round trip
func RecordAssistantRequest(status string, duration time.Duration) {
	AssistantRequestsTotal.WithLabelValues(status).Inc()
	AssistantRequestDuration.Observe(duration.Seconds())
}
