package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScansProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attend",
		Name:      "scans_processed_total",
		Help:      "Total number of attendance scans by outcome",
	}, []string{"status"})

	EmployeesRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "attend",
		Name:      "employees_registered_total",
		Help:      "Total number of employees registered",
	})

	ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "attend",
		Name:      "extraction_duration_seconds",
		Help:      "Duration of face detection and embedding extraction",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	})

	EventsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "attend",
		Name:      "events_published_total",
		Help:      "Attendance events published to NATS",
	})

	PayrollRecomputed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "attend",
		Name:      "payroll_recomputed_total",
		Help:      "Monthly payroll records recomputed by the worker",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "attend",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "attend",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
