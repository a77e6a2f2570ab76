package service

import (
	"context"

	"product-listing/models"
	"product-listing/repository"
	"product-listing/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ProductService lists the catalog. It holds no mutable state and is safe for
// concurrent use.
type ProductService struct {
	ProductRepo *repository.ProductRepository
	Tracer      trace.Tracer
	Metrics     telemetry.Prometheus
}

func NewProductService(repo *repository.ProductRepository, tracer trace.Tracer, metrics telemetry.Prometheus) *ProductService {
	return &ProductService{
		ProductRepo: repo,
		Tracer:      tracer,
		Metrics:     metrics,
	}
}

// ListProducts returns the product records in display order. It cannot fail.
func (s *ProductService) ListProducts(ctx context.Context) []models.Product {
	ctx, span := s.Tracer.Start(ctx, "Service.ListProducts")
	defer span.End()

	products := s.ProductRepo.ListProducts(ctx)

	span.SetAttributes(attribute.Int("products.count", len(products)))
	s.Metrics.ProductsListedCounter.Add(float64(len(products)))

	return products
}
