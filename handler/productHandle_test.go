package handler

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"product-listing/models"
	"product-listing/repository"
	"product-listing/service"
	"product-listing/telemetry"
	"product-listing/telemetryfs"
	"product-listing/view"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkTrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingRenderer struct {
	calls int
	code  int
	name  string
	data  interface{}
}

func (r *recordingRenderer) Render(code int, name string, data interface{}) error {
	r.calls++
	r.code = code
	r.name = name
	r.data = data
	return nil
}

type failingRenderer struct{}

func (failingRenderer) Render(io.Writer, string, interface{}, echo.Context) error {
	return errors.New("template exploded")
}

type fixture struct {
	server   *echo.Echo
	metrics  telemetry.Prometheus
	recorder *tracetest.SpanRecorder
	logs     *observer.ObservedLogs
}

func newFixture(t *testing.T, renderer echo.Renderer) fixture {
	t.Helper()

	reg := prometheus.NewRegistry()
	metrics := telemetry.NewPrometheusMetrics(telemetry.WithRegisterer(reg))
	recorder := tracetest.NewSpanRecorder()
	tracer := sdkTrace.NewTracerProvider(sdkTrace.WithSpanProcessor(recorder)).Tracer("test")
	core, logs := observer.New(zapcore.DebugLevel)

	svc := service.NewProductService(repository.NewProductRepository(tracer), tracer, metrics)
	products := NewProductHandle(svc, metrics, tracer)

	e := NewServer(zap.New(core), tracer, renderer, telemetryfs.NewRedMetricsMiddleware(telemetry.WithRegisterer(reg)))
	RegisterRoutes(e, Routes(products))

	return fixture{server: e, metrics: metrics, recorder: recorder, logs: logs}
}

func (f fixture) do(method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRenderProductIndex(t *testing.T) {
	r := &recordingRenderer{}

	require.NoError(t, RenderProductIndex(r, repository.Seed()))

	assert.Equal(t, 1, r.calls)
	assert.Equal(t, http.StatusOK, r.code)
	assert.Equal(t, "product-index", r.name)
	assert.Equal(t, echo.Map{
		"controller_name": "ProductController",
		"products": []models.Product{
			{ID: 1, Name: "dell xps"},
			{ID: 2, Name: "Macbook air 2020"},
			{ID: 3, Name: "dell latitude"},
		},
	}, r.data)
}

func TestListProducts_RendersProductIndex(t *testing.T) {
	f := newFixture(t, view.New(view.Options{}))

	rec := f.do(http.MethodGet, "/product")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)

	body := rec.Body.String()
	assert.Contains(t, body, "ProductController")

	xps := strings.Index(body, "dell xps")
	air := strings.Index(body, "Macbook air 2020")
	latitude := strings.Index(body, "dell latitude")
	require.True(t, xps >= 0 && air >= 0 && latitude >= 0, body)
	assert.Less(t, xps, air)
	assert.Less(t, air, latitude)

	assert.Equal(t, float64(3), testutil.ToFloat64(f.metrics.ProductsListedCounter))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.RequestStatusCounter.WithLabelValues("list_products", telemetry.StatusOK)))
	assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.ActiveRequestGauge))

	names := []string{}
	for _, s := range f.recorder.Ended() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"Repository.ListProducts", "Service.ListProducts", "Handler.ListProducts"}, names)
}

func TestListProducts_IgnoresRequestDetails(t *testing.T) {
	f := newFixture(t, view.New(view.Options{}))

	plain := f.do(http.MethodGet, "/product")

	req := httptest.NewRequest(http.MethodGet, "/product?page=2&sort=name", nil)
	req.Header.Set("Accept-Language", "pt-BR")
	decorated := httptest.NewRecorder()
	f.server.ServeHTTP(decorated, req)

	assert.Equal(t, http.StatusOK, decorated.Code)
	assert.Equal(t, plain.Body.String(), decorated.Body.String())
}

func TestListProducts_RejectsOtherMethods(t *testing.T) {
	f := newFixture(t, view.New(view.Options{}))

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		rec := f.do(method, "/product")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
	}

	assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.ProductsListedCounter))
}

func TestListProducts_UnknownPath(t *testing.T) {
	f := newFixture(t, view.New(view.Options{}))

	for _, target := range []string{"/products", "/product/1", "/"} {
		rec := f.do(http.MethodGet, target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}

	assert.Equal(t, float64(0), testutil.ToFloat64(f.metrics.ProductsListedCounter))
}

func TestListProducts_RenderFailure(t *testing.T) {
	f := newFixture(t, failingRenderer{})

	rec := f.do(http.MethodGet, "/product")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.RequestStatusCounter.WithLabelValues("list_products", telemetry.StatusError)))
	assert.Equal(t, 1, f.logs.FilterMessage("unexpected error").Len())

	var handlerSpan sdkTrace.ReadOnlySpan
	for _, s := range f.recorder.Ended() {
		if s.Name() == "Handler.ListProducts" {
			handlerSpan = s
		}
	}
	require.NotNil(t, handlerSpan)
	assert.Equal(t, codes.Error, handlerSpan.Status().Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, view.New(view.Options{}))

	rec := f.do(http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRoutes_Named(t *testing.T) {
	f := newFixture(t, view.New(view.Options{}))

	assert.Equal(t, "/product", f.server.Reverse("app_product"))
	assert.Equal(t, "/health", f.server.Reverse("app_health"))
}
