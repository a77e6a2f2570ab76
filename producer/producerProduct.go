package producer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"product-listing/telemetryfs"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// ProductProducer keeps the product index warm by requesting it at a fixed interval.
type ProductProducer struct {
	Target   string
	Interval time.Duration
	Client   *http.Client
}

func NewProductProducer(target string, interval time.Duration) *ProductProducer {
	return &ProductProducer{
		Target:   target,
		Interval: interval,
		Client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Run blocks until ctx is done. ctx must carry a tracer and may carry a logger.
func (p *ProductProducer) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.fetch(ctx); err != nil && ctx.Err() == nil {
				telemetryfs.Logger(ctx).Warn("error on get product", zap.String("target", p.Target), zap.Error(err))
			}
		}
	}
}

func (p *ProductProducer) fetch(ctx context.Context) error {
	ctx, span := telemetryfs.Start(ctx, "Producer.FetchProducts")
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := p.Client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("draining response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, resp.Status)
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	return nil
}
