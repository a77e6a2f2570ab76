package handler

import (
	"net/http"
	"time"

	"product-listing/models"
	"product-listing/service"
	"product-listing/telemetry"
	"product-listing/telemetryfs"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// ViewProductIndex names the template that renders the product list.
	ViewProductIndex = "product-index"
	ControllerName   = "ProductController"

	listProductsHandler = "list_products"
)

// Renderer builds a rendered response from a view name and its context.
// echo.Context satisfies it.
type Renderer interface {
	Render(code int, name string, data interface{}) error
}

// RenderProductIndex hands the products to the product index view.
func RenderProductIndex(r Renderer, products []models.Product) error {
	return r.Render(http.StatusOK, ViewProductIndex, echo.Map{
		"controller_name": ControllerName,
		"products":        products,
	})
}

type ProductHandle struct {
	Service *service.ProductService
	Metrics telemetry.Prometheus
	Tracer  trace.Tracer
}

func NewProductHandle(service *service.ProductService, metrics telemetry.Prometheus, tracer trace.Tracer) *ProductHandle {
	return &ProductHandle{
		Service: service,
		Metrics: metrics,
		Tracer:  tracer,
	}
}

func (h *ProductHandle) ListProducts() echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		ctx, span := h.Tracer.Start(c.Request().Context(), "Handler.ListProducts")
		defer span.End()

		status := telemetry.StatusOK
		defer func() {
			h.Metrics.RequestStatusCounter.WithLabelValues(listProductsHandler, status).Inc()
		}()

		h.Metrics.ActiveRequestGauge.Inc()
		defer h.Metrics.ActiveRequestGauge.Dec()

		products := h.Service.ListProducts(ctx)

		if err := RenderProductIndex(c, products); err != nil {
			status = telemetry.StatusError
			span.SetStatus(codes.Error, err.Error())
			telemetryfs.HandleUnexpectedError(ctx, err, zap.String("view", ViewProductIndex))
			return err
		}

		telemetryfs.Logger(ctx).Debug("product index rendered", zap.Int("products", len(products)))

		h.Metrics.RequestCounter.WithLabelValues(listProductsHandler).Inc()
		h.Metrics.RequestDuration.WithLabelValues(listProductsHandler).Observe(time.Since(start).Seconds())

		return nil
	}
}
