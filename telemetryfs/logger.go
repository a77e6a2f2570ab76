package telemetryfs

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	traceIDKey = "trace_id"
	spanIDKey  = "span_id"
)

// LoggerKey is a unique type to avoid context key collisions
type LoggerKey struct{}

// WithLogger returns a new context with the provided logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey{}, logger)
}

// Logger retrieves the zap.Logger from the context, adding trace and span IDs if available.
// It falls back to a no-op logger when the context carries none.
func Logger(ctx context.Context) *zap.Logger {
	if ctx == nil {
		panic("nil context passed to logger")
	}

	logger, ok := ctx.Value(LoggerKey{}).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}

	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if traceID := spanContext.TraceID(); traceID.IsValid() {
		logger = logger.With(zap.String(traceIDKey, traceID.String()))
	}

	if spanID := spanContext.SpanID(); spanID.IsValid() {
		logger = logger.With(zap.String(spanIDKey, spanID.String()))
	}

	return logger
}

// NewLogger creates a production zap.Logger at the given level with ISO8601 time encoding.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	logConfig := zap.NewProductionConfig()
	logConfig.Level = zap.NewAtomicLevelAt(lvl)
	logConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := logConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return logger, nil
}

// LoggerToContextMiddleware adds a zap.Logger to the request context for each incoming request.
func LoggerToContextMiddleware(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			req = req.WithContext(WithLogger(req.Context(), logger))
			c.SetRequest(req)
			return next(c)
		}
	}
}

// AccessLogMiddleware writes one log line per request once the response status is known.
func AccessLogMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			Logger(req.Context()).Info("http request",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("route", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", c.RealIP()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	}
}
