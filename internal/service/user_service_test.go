package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-api/internal/auth"
	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
)

// spyUserRepo counts every store access so tests can assert that some paths
// never touch the store at all.
type spyUserRepo struct {
	calls int

	createFn            func(ctx context.Context, user *domain.User) error
	updateFn            func(ctx context.Context, user *domain.User) error
	deleteFn            func(ctx context.Context, id string) error
	getFn               func(ctx context.Context, id string) (*domain.User, error)
	listFn              func(ctx context.Context) ([]domain.User, error)
	existsFn            func(ctx context.Context, id string) (bool, error)
	existsByIDOrEmailFn func(ctx context.Context, id, email string) (bool, error)
}

func (s *spyUserRepo) Init(ctx context.Context) error { return nil }

func (s *spyUserRepo) Create(ctx context.Context, user *domain.User) error {
	s.calls++
	return s.createFn(ctx, user)
}

func (s *spyUserRepo) Update(ctx context.Context, user *domain.User) error {
	s.calls++
	return s.updateFn(ctx, user)
}

func (s *spyUserRepo) Delete(ctx context.Context, id string) error {
	s.calls++
	return s.deleteFn(ctx, id)
}

func (s *spyUserRepo) Get(ctx context.Context, id string) (*domain.User, error) {
	s.calls++
	return s.getFn(ctx, id)
}

func (s *spyUserRepo) List(ctx context.Context) ([]domain.User, error) {
	s.calls++
	return s.listFn(ctx)
}

func (s *spyUserRepo) Exists(ctx context.Context, id string) (bool, error) {
	s.calls++
	return s.existsFn(ctx, id)
}

func (s *spyUserRepo) ExistsByIDOrEmail(ctx context.Context, id, email string) (bool, error) {
	s.calls++
	return s.existsByIDOrEmailFn(ctx, id, email)
}

func adminUser() *domain.User {
	return &domain.User{
		ID:       "admin-123",
		Name:     "admin",
		Email:    "admin@example.com",
		Password: "V1ZkU2RHRlhOSGhOYWsw",
	}
}

func TestAuthenticate_Success(t *testing.T) {
	t.Parallel()

	repo := &spyUserRepo{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			require.Equal(t, "admin-123", id)
			return adminUser(), nil
		},
	}
	svc := NewUserService(repo, []byte("secret"), time.Hour)

	token, err := svc.Authenticate(context.Background(), "admin-123", "admin123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := auth.ParseToken(token, []byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, "admin-123", subject)
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	t.Parallel()

	repo := &spyUserRepo{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			return adminUser(), nil
		},
	}
	svc := NewUserService(repo, []byte("secret"), time.Hour)

	_, err := svc.Authenticate(context.Background(), "admin-123", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_UnknownIDIndistinguishable(t *testing.T) {
	t.Parallel()

	repo := &spyUserRepo{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewUserService(repo, []byte("secret"), time.Hour)

	_, err := svc.Authenticate(context.Background(), "nobody-12", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_StoreFaultPropagates(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection refused")
	repo := &spyUserRepo{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, storeErr
		},
	}
	svc := NewUserService(repo, []byte("secret"), time.Hour)

	_, err := svc.Authenticate(context.Background(), "admin-123", "admin123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, storeErr)
}

func TestCreate_EncodesPasswordBeforeStore(t *testing.T) {
	t.Parallel()

	var stored string
	repo := &spyUserRepo{
		createFn: func(ctx context.Context, user *domain.User) error {
			stored = user.Password
			return nil
		},
	}
	svc := NewUserService(repo, []byte("secret"), time.Hour)

	created, err := svc.Create(context.Background(), adminUserWithPlaintext())
	require.NoError(t, err)
	assert.Equal(t, "V1ZkU2RHRlhOSGhOYWsw", stored)
	assert.Empty(t, created.Password, "responses must not carry the stored secret")
}

func adminUserWithPlaintext() *domain.User {
	u := adminUser()
	u.Password = "admin123"
	return u
}

func TestCreate_ConfirmedDuplicateIsConflict(t *testing.T) {
	t.Parallel()

	repo := &spyUserRepo{
		createFn: func(ctx context.Context, user *domain.User) error {
			return repository.ErrDuplicateKey
		},
		existsByIDOrEmailFn: func(ctx context.Context, id, email string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(repo, []byte("secret"), time.Hour)

	_, err := svc.Create(context.Background(), adminUserWithPlaintext())
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCreate_UnconfirmedDuplicateEscalates(t *testing.T) {
	t.Parallel()

	repo := &spyUserRepo{
		createFn: func(ctx context.Context, user *domain.User) error {
			return repository.ErrDuplicateKey
		},
		existsByIDOrEmailFn: func(ctx context.Context, id, email string) (bool, error) {
			// the uniqueness probe finds nothing: the store rejected for
			// an unrelated reason, which must not be downgraded
			return false, nil
		},
	}
	svc := NewUserService(repo, []byte("secret"), time.Hour)

	_, err := svc.Create(context.Background(), adminUserWithPlaintext())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestUpdate_IDMismatchSkipsStore(t *testing.T) {
	t.Parallel()

	repo := &spyUserRepo{}
	svc := NewUserService(repo, []byte("secret"), time.Hour)

	user := adminUserWithPlaintext()
	err := svc.Update(context.Background(), "other-456", user)
	assert.ErrorIs(t, err, ErrIDMismatch)
	assert.Zero(t, repo.calls, "id mismatch must be rejected before any store access")
}

func TestUpdate_VanishedRecordIsNotFound(t *testing.T) {
	t.Parallel()

	repo := &spyUserRepo{
		updateFn: func(ctx context.Context, user *domain.User) error {
			return repository.ErrConcurrentUpdate
		},
		existsFn: func(ctx context.Context, id string) (bool, error) {
			return false, nil
		},
	}
	svc := NewUserService(repo, []byte("secret"), time.Hour)

	err := svc.Update(context.Background(), "admin-123", adminUserWithPlaintext())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate_GenuineRaceEscalates(t *testing.T) {
	t.Parallel()

	repo := &spyUserRepo{
		updateFn: func(ctx context.Context, user *domain.User) error {
			return repository.ErrConcurrentUpdate
		},
		existsFn: func(ctx context.Context, id string) (bool, error) {
			return true, nil
		},
	}
	svc := NewUserService(repo, []byte("secret"), time.Hour)

	err := svc.Update(context.Background(), "admin-123", adminUserWithPlaintext())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, repository.ErrConcurrentUpdate)
}

func TestDelete_AbsentShortCircuits(t *testing.T) {
	t.Parallel()

	deleted := false
	repo := &spyUserRepo{
		getFn: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, repository.ErrNotFound
		},
		deleteFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := NewUserService(repo, []byte("secret"), time.Hour)

	err := svc.Delete(context.Background(), "admin-123")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, deleted, "missing record must not reach the delete statement")
}

func TestList_RedactsPasswords(t *testing.T) {
	t.Parallel()

	repo := &spyUserRepo{
		listFn: func(ctx context.Context) ([]domain.User, error) {
			return []domain.User{*adminUser()}, nil
		},
	}
	svc := NewUserService(repo, []byte("secret"), time.Hour)

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Empty(t, users[0].Password)
}
