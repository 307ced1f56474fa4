package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
)

type spyProductRepo struct {
	calls int

	createFn func(ctx context.Context, product *domain.Product) error
	updateFn func(ctx context.Context, product *domain.Product) error
	deleteFn func(ctx context.Context, id string) error
	getFn    func(ctx context.Context, id string) (*domain.Product, error)
	listFn   func(ctx context.Context) ([]domain.Product, error)
	existsFn func(ctx context.Context, id string) (bool, error)
}

func (s *spyProductRepo) Init(ctx context.Context) error { return nil }

func (s *spyProductRepo) Create(ctx context.Context, product *domain.Product) error {
	s.calls++
	return s.createFn(ctx, product)
}

func (s *spyProductRepo) Update(ctx context.Context, product *domain.Product) error {
	s.calls++
	return s.updateFn(ctx, product)
}

func (s *spyProductRepo) Delete(ctx context.Context, id string) error {
	s.calls++
	return s.deleteFn(ctx, id)
}

func (s *spyProductRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	s.calls++
	return s.getFn(ctx, id)
}

func (s *spyProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	s.calls++
	return s.listFn(ctx)
}

func (s *spyProductRepo) Exists(ctx context.Context, id string) (bool, error) {
	s.calls++
	return s.existsFn(ctx, id)
}

const sampleProductID = "abcd1234-abcd-1234-abcd1234-abcd1234"

func sampleProduct() *domain.Product {
	return &domain.Product{
		ID:     sampleProductID,
		Name:   "produto-1",
		Value:  10,
		Active: true,
	}
}

func TestProductCreate_ConfirmedDuplicateIsConflict(t *testing.T) {
	t.Parallel()

	repo := &spyProductRepo{
		createFn: func(ctx context.Context, product *domain.Product) error {
			return repository.ErrDuplicateKey
		},
		existsFn: func(ctx context.Context, id string) (bool, error) {
			require.Equal(t, sampleProductID, id)
			return true, nil
		},
	}
	svc := NewProductService(repo)

	_, err := svc.Create(context.Background(), sampleProduct())
	assert.ErrorIs(t, err, ErrConflict)
}

func TestProductCreate_UnconfirmedDuplicateEscalates(t *testing.T) {
	t.Parallel()

	repo := &spyProductRepo{
		createFn: func(ctx context.Context, product *domain.Product) error {
			return repository.ErrDuplicateKey
		},
		existsFn: func(ctx context.Context, id string) (bool, error) {
			return false, nil
		},
	}
	svc := NewProductService(repo)

	_, err := svc.Create(context.Background(), sampleProduct())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestProductUpdate_IDMismatchSkipsStore(t *testing.T) {
	t.Parallel()

	repo := &spyProductRepo{}
	svc := NewProductService(repo)

	err := svc.Update(context.Background(), "ffff9999-ffff-9999-ffff9999-ffff9999", sampleProduct())
	assert.ErrorIs(t, err, ErrIDMismatch)
	assert.Zero(t, repo.calls)
}

func TestProductUpdate_VanishedRecordIsNotFound(t *testing.T) {
	t.Parallel()

	repo := &spyProductRepo{
		updateFn: func(ctx context.Context, product *domain.Product) error {
			return repository.ErrConcurrentUpdate
		},
		existsFn: func(ctx context.Context, id string) (bool, error) {
			return false, nil
		},
	}
	svc := NewProductService(repo)

	err := svc.Update(context.Background(), sampleProductID, sampleProduct())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductUpdate_GenuineRaceEscalates(t *testing.T) {
	t.Parallel()

	repo := &spyProductRepo{
		updateFn: func(ctx context.Context, product *domain.Product) error {
			return repository.ErrConcurrentUpdate
		},
		existsFn: func(ctx context.Context, id string) (bool, error) {
			return true, nil
		},
	}
	svc := NewProductService(repo)

	err := svc.Update(context.Background(), sampleProductID, sampleProduct())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, repository.ErrConcurrentUpdate)
}

func TestProductDelete_AbsentShortCircuits(t *testing.T) {
	t.Parallel()

	deleted := false
	repo := &spyProductRepo{
		getFn: func(ctx context.Context, id string) (*domain.Product, error) {
			return nil, repository.ErrNotFound
		},
		deleteFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := NewProductService(repo)

	err := svc.Delete(context.Background(), sampleProductID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, deleted)
}
