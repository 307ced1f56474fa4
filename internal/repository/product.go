package repository

import (
	"context"

	"catalog-api/internal/domain"
)

// ProductRepository exposes persistence operations for Product entities.
type ProductRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Exists(ctx context.Context, id string) (bool, error)
}
