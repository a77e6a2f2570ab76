package telemetryfs

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdkTrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.8.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// TracerConfig represents the configuration for the tracer.
type TracerConfig struct {
	Enabled          bool
	ServiceName      string
	ServiceNamespace string
	Endpoint         string
	Environment      string
	// The ratio of samples sent by TraceID. See more on TraceIDRatioBased.
	SamplingRatio float64
}

type Tracer struct {
	OTelTracer trace.Tracer

	tracerProvider *sdkTrace.TracerProvider
	exporter       *otlptrace.Exporter
}

// Shutdown shuts down the tracer and exporter. A disabled tracer has nothing to flush.
func (t Tracer) Shutdown(ctx context.Context) error {
	var err error

	if t.tracerProvider != nil {
		if shutdownErr := t.tracerProvider.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("shutting down otel tracer provider: %w", shutdownErr)
		}
	}

	if t.exporter != nil {
		if shutdownErr := t.exporter.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("shutting down otel tracer exporter: %w", shutdownErr)
		}
	}

	return err
}

// NewTracer sets up the global tracer provider and b3 propagator. When tracing is
// disabled spans are still created but never exported.
func NewTracer(ctx context.Context, cfg TracerConfig, appVersion string) (Tracer, error) {
	otel.SetTextMapPropagator(b3.New(b3.WithInjectEncoding(b3.B3MultipleHeader)))

	if !cfg.Enabled {
		return Tracer{
			OTelTracer: noop.NewTracerProvider().Tracer(cfg.ServiceName),
		}, nil
	}

	client := otlptracegrpc.NewClient(otlptracegrpc.WithEndpoint(cfg.Endpoint), otlptracegrpc.WithInsecure())

	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return Tracer{}, fmt.Errorf("creating exporter: %w", err)
	}

	tracerProvider := sdkTrace.NewTracerProvider(
		sdkTrace.WithSampler(sdkTrace.TraceIDRatioBased(cfg.SamplingRatio)),
		sdkTrace.WithBatcher(exporter),
		sdkTrace.WithResource(newResource(cfg, appVersion)),
	)

	otel.SetTracerProvider(tracerProvider)

	return Tracer{
		OTelTracer:     tracerProvider.Tracer(cfg.ServiceName),
		tracerProvider: tracerProvider,
		exporter:       exporter,
	}, nil
}

func newResource(cfg TracerConfig, appVersion string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		// the service name used to display traces in backends
		semconv.ServiceNamespaceKey.String(cfg.ServiceNamespace),
		semconv.ServiceNameKey.String(cfg.ServiceName),
		semconv.DeploymentEnvironmentKey.String(cfg.Environment),
		semconv.ServiceInstanceIDKey.String(uuid.Must(uuid.NewV4()).String()),
		semconv.ServiceVersionKey.String(appVersion),
	)
}

type ctxKey struct{}

// FromContext returns the OTel Tracer associated with the given context.
// If there is no tracer, it will panic.
func FromContext(ctx context.Context) trace.Tracer {
	if ctx == nil {
		panic("nil context passed to tracer")
	}

	t, ok := ctx.Value(ctxKey{}).(trace.Tracer)
	if !ok {
		panic("no otel tracer in context")
	}

	return t
}

func Start(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return FromContext(ctx).Start(ctx, spanName, trace.WithAttributes(attrs...))
}

// WithTracer returns a new context derived from parent that
// is associated with the given tracer.
func WithTracer(parent context.Context, t trace.Tracer) context.Context {
	return context.WithValue(parent, ctxKey{}, t)
}

// HandleUnexpectedError adds the information regarding the error on the current span and logs.
func HandleUnexpectedError(ctx context.Context, err error, fields ...zap.Field) {
	trace.SpanFromContext(ctx).RecordError(err)
	Logger(ctx).With(append(fields, zap.Error(err))...).Error("unexpected error")
}

// TracerToContextMiddleware associates a tracer with the current context and
// continues any trace propagated in the request headers.
func TracerToContextMiddleware(tracer trace.Tracer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))
			c.SetRequest(req.WithContext(WithTracer(ctx, tracer)))
			return next(c)
		}
	}
}
