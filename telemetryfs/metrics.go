package telemetryfs

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"product-listing/telemetry"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const unmatchedRoute = "unmatched"

// NewMetricsServer builds the admin server exposing /metrics on addr.
func NewMetricsServer(addr string, options ...telemetry.Option) (*http.Server, error) {
	if addr == "" {
		return nil, errors.New("metrics server address is required")
	}

	register := telemetry.Registerer(options...)

	gatherer := prometheus.DefaultGatherer
	if g, ok := register.(prometheus.Gatherer); ok {
		gatherer = g
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Handle("/metrics", promhttp.InstrumentMetricHandler(
		register,
		promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	))

	server := &http.Server{
		Handler:           router,
		Addr:              addr,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server, nil
}

type RedMetricsMiddleware struct {
	httpServerRequestDuration *prometheus.HistogramVec
	additionalLabels          []string
}

func NewRedMetricsMiddleware(options ...telemetry.Option) *RedMetricsMiddleware {
	additionalLabels := telemetry.AdditionalLabels(options...)

	defaultLabels := []string{"http_response_status_code", "http_request_method", "http_route"}

	metrics := RedMetricsMiddleware{
		additionalLabels: additionalLabels,
		httpServerRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    telemetry.PREFIX_METRIC + "http_server_request_duration_ms",
				Help:    "Request duration histogram for HTTP server in milliseconds",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 300, 500, 1000, 5000, 10000},
			},
			append(defaultLabels, additionalLabels...),
		),
	}

	telemetry.Registerer(options...).MustRegister(metrics.httpServerRequestDuration)

	return &metrics
}

// Handle observes rate, errors and duration per route. Handler errors are
// resolved through echo's error handler first so the real status is recorded.
func (m *RedMetricsMiddleware) Handle() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			pathPattern := c.Path()
			if pathPattern == "" {
				pathPattern = unmatchedRoute
			}

			labels := prometheus.Labels{
				"http_response_status_code": strconv.Itoa(c.Response().Status),
				"http_request_method":       c.Request().Method,
				"http_route":                pathPattern,
			}

			q := c.QueryParams()

			for _, label := range m.additionalLabels {
				if q.Has(label) {
					labels[label] = telemetry.StatusTrue
					continue
				}

				labels[label] = telemetry.StatusFalse
			}

			m.httpServerRequestDuration.With(labels).Observe(float64(time.Since(start).Microseconds()) / 1000)

			return err
		}
	}
}
