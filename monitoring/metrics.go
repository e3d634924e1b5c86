package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

var (
	StoreQueries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mongodb_queries_total",
			Help: "Total queries against the lead collection",
		},
	)

	LeadsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total leads created",
		},
	)

	LeadsUpdated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_updated_total",
			Help: "Total leads updated",
		},
	)

	LeadsDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_deleted_total",
			Help: "Total leads deleted",
		},
	)

	LeadEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_events_published_total",
			Help: "Total lead events published to Kafka",
		},
		[]string{"event"},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_cache_hits_total",
			Help: "Total lead reads served from the Redis cache",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(StoreQueries)
	prometheus.MustRegister(LeadsCreated)
	prometheus.MustRegister(LeadsUpdated)
	prometheus.MustRegister(LeadsDeleted)
	prometheus.MustRegister(LeadEventsPublished)
	prometheus.MustRegister(CacheHits)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
