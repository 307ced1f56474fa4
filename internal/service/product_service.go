package service

import (
	"context"
	"errors"
	"fmt"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
)

// ProductService coordinates catalog operations backed by the product
// repository, applying the same conflict-resolution policy as users.
type ProductService interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}

type productService struct {
	products repository.ProductRepository
}

func NewProductService(products repository.ProductRepository) ProductService {
	return &productService{products: products}
}

func (s *productService) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := s.products.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			taken, probeErr := s.products.Exists(ctx, product.ID)
			if probeErr != nil {
				return nil, probeErr
			}
			if taken {
				return nil, ErrConflict
			}
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, id string, product *domain.Product) error {
	if id != product.ID {
		return ErrIDMismatch
	}

	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrConcurrentUpdate) {
			exists, probeErr := s.products.Exists(ctx, id)
			if probeErr != nil {
				return probeErr
			}
			if !exists {
				return ErrNotFound
			}
			return fmt.Errorf("product %s modified concurrently: %w", id, err)
		}
		return err
	}
	return nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if _, err := s.products.Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) List(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}
