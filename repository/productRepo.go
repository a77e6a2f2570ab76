package repository

import (
	"context"

	"product-listing/models"

	"go.opentelemetry.io/otel/trace"
)

// seed is the ordered product list served on every request.
var seed = [...]models.Product{
	{ID: 1, Name: "dell xps"},
	{ID: 2, Name: "Macbook air 2020"},
	{ID: 3, Name: "dell latitude"},
}

// Seed returns a freshly allocated copy of the product seed, in order.
func Seed() []models.Product {
	products := make([]models.Product, len(seed))
	copy(products, seed[:])
	return products
}

type ProductRepository struct {
	Tracer trace.Tracer
}

func NewProductRepository(tracer trace.Tracer) *ProductRepository {
	return &ProductRepository{
		Tracer: tracer,
	}
}

func (r *ProductRepository) ListProducts(ctx context.Context) []models.Product {
	_, span := r.Tracer.Start(ctx, "Repository.ListProducts")
	defer span.End()

	return Seed()
}
