package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Prometheus struct {
	ApiMetrics
}

// NewPrometheusMetrics builds the application metrics and registers them,
// on the default registerer unless WithRegisterer is given. It panics on duplicates.
func NewPrometheusMetrics(options ...Option) Prometheus {
	apiMetrics := NewApiMetrics()

	Registerer(options...).MustRegister(
		apiMetrics.RequestCounter,
		apiMetrics.RequestDuration,
		apiMetrics.ActiveRequestGauge,
		apiMetrics.RequestStatusCounter,
		apiMetrics.ProductsListedCounter,
		apiMetrics.MemoryAllocGauge,
		apiMetrics.MemorySysGauge,
		apiMetrics.HeapObjectsGauge,
		apiMetrics.GoroutinesGauge,
	)

	return Prometheus{
		ApiMetrics: apiMetrics,
	}
}

type ApiMetrics struct {
	RequestCounter        *prometheus.CounterVec
	RequestDuration       *prometheus.HistogramVec
	ActiveRequestGauge    prometheus.Gauge
	RequestStatusCounter  *prometheus.CounterVec
	ProductsListedCounter prometheus.Counter
	MemoryAllocGauge      prometheus.Gauge
	MemorySysGauge        prometheus.Gauge
	HeapObjectsGauge      prometheus.Gauge
	GoroutinesGauge       prometheus.Gauge
}

func NewApiMetrics() ApiMetrics {
	return ApiMetrics{
		RequestCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: PREFIX_METRIC + "http_request_counter",
			Help: "Count of requests handled, by handler",
		},
			[]string{"handler_name"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    PREFIX_METRIC + "response_time_seconds",
				Help:    "Histogram of response times for handler in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"handler_name"},
		),
		ActiveRequestGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: PREFIX_METRIC + "active_requests",
			Help: "Current number of active requests being handled",
		}),
		RequestStatusCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: PREFIX_METRIC + "http_request_status_count", // metric name
				Help: "Count of status returned by handler.",
			},
			[]string{"handler_name", "status"}, // labels
		),
		ProductsListedCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name: PREFIX_METRIC + "products_listed_total",
			Help: "Total number of product records handed to the product index view.",
		}),
		MemoryAllocGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: PREFIX_METRIC + "app_memory_alloc_bytes",
			Help: "Current memory allocated by the application in bytes.",
		}),
		MemorySysGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: PREFIX_METRIC + "app_memory_sys_bytes",
			Help: "Memory obtained from the system in bytes.",
		}),
		HeapObjectsGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: PREFIX_METRIC + "app_heap_objects",
			Help: "Number of allocated heap objects.",
		}),
		GoroutinesGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: PREFIX_METRIC + "app_goroutines",
			Help: "Number of goroutines that currently exist.",
		}),
	}
}
