package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"catalog-api/internal/auth"
	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
)

// UserService covers account lifecycle plus credential verification and
// token issuance.
type UserService interface {
	Authenticate(ctx context.Context, id, password string) (string, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, user *domain.User) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type userService struct {
	users       repository.UserRepository
	tokenSecret []byte
	tokenTTL    time.Duration
}

func NewUserService(users repository.UserRepository, tokenSecret []byte, tokenTTL time.Duration) UserService {
	return &userService{
		users:       users,
		tokenSecret: tokenSecret,
		tokenTTL:    tokenTTL,
	}
}

// Authenticate verifies the credentials against the stored normalized secret
// and mints a bearer token on success. One read, no writes; store faults
// other than not-found propagate untouched.
func (s *userService) Authenticate(ctx context.Context, id, password string) (string, error) {
	encoded := auth.EncodePassword(password)

	user, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if subtle.ConstantTimeCompare([]byte(user.Password), []byte(encoded)) != 1 {
		return "", ErrInvalidCredentials
	}

	return auth.GenerateToken(user.ID, s.tokenSecret, s.tokenTTL)
}

// Create inserts the account, with the password normalized first. A duplicate
// key fault is confirmed against the natural keys (id or email) before being
// reported as ErrConflict; an unconfirmed fault surfaces as-is.
func (s *userService) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	user.Password = auth.EncodePassword(user.Password)

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			taken, probeErr := s.users.ExistsByIDOrEmail(ctx, user.ID, user.Email)
			if probeErr != nil {
				return nil, probeErr
			}
			if taken {
				return nil, ErrConflict
			}
		}
		return nil, err
	}

	return redactUser(user), nil
}

// Update rejects a path/body id mismatch before touching the store. A
// concurrent-update fault is disambiguated with a single existence probe:
// vanished record means ErrNotFound, a record still present means a genuine
// lost-update race which surfaces as a fatal error for the caller to retry.
func (s *userService) Update(ctx context.Context, id string, user *domain.User) error {
	if id != user.ID {
		return ErrIDMismatch
	}
	user.Password = auth.EncodePassword(user.Password)

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConcurrentUpdate) {
			exists, probeErr := s.users.Exists(ctx, id)
			if probeErr != nil {
				return probeErr
			}
			if !exists {
				return ErrNotFound
			}
			return fmt.Errorf("user %s modified concurrently: %w", id, err)
		}
		return err
	}
	return nil
}

// Delete is a two-step lookup then delete; a missing record short-circuits
// before any mutation.
func (s *userService) Delete(ctx context.Context, id string) error {
	if _, err := s.users.Get(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return redactUser(user), nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func redactUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clone := *user
	clone.Password = ""
	return &clone
}
