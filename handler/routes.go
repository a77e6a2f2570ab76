package handler

import (
	"net/http"

	"product-listing/telemetryfs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Route binds a method and path to a handler. Name follows the route names
// used by the templates, e.g. "app_product".
type Route struct {
	Method  string
	Path    string
	Name    string
	Handler echo.HandlerFunc
}

// Routes is the complete route table of the application server.
func Routes(products *ProductHandle) []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/product", Name: "app_product", Handler: products.ListProducts()},
		{Method: http.MethodGet, Path: "/health", Name: "app_health", Handler: Health},
	}
}

// RegisterRoutes adds every route to e. Unlisted methods and paths fall through
// to echo's 405 and 404 handlers.
func RegisterRoutes(e *echo.Echo, routes []Route) {
	for _, r := range routes {
		e.Add(r.Method, r.Path, r.Handler).Name = r.Name
	}
}

// NewServer builds the echo instance with the logging, tracing and metrics
// middleware chain and the given view renderer.
func NewServer(logger *zap.Logger, tracer trace.Tracer, renderer echo.Renderer, red *telemetryfs.RedMetricsMiddleware) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer

	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		telemetryfs.LoggerToContextMiddleware(logger),
		telemetryfs.TracerToContextMiddleware(tracer),
		red.Handle(),
		telemetryfs.AccessLogMiddleware(),
	)

	return e
}
