package users

import (
	"context"
	"fmt"

	"github.com/dermalink/dermalink-backend/pkg/config"
	pkgerrors "github.com/dermalink/dermalink-backend/pkg/errors"
	"github.com/dermalink/dermalink-backend/pkg/security"
	"github.com/google/uuid"
)

// Service is the stable facade over the store. Besides password-change
// policy it adds no behavior of its own; it exists as the seam where
// auditing or caching would later land.
type Service struct {
	store       *Store
	passwordCfg config.PasswordConfig
}

// NewService wraps the provided store.
func NewService(store *Store, passwordCfg config.PasswordConfig) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("user store is required")
	}
	return &Service{store: store, passwordCfg: passwordCfg}, nil
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	return s.store.Create(ctx, dto)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.store.FindByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.store.FindByEmail(ctx, email)
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.store.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, patch UpdateUserDTO) (*User, error) {
	return s.store.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.store.Delete(ctx, id)
}

func (s *Service) AuthenticateWithPassword(ctx context.Context, email, password string) (*User, error) {
	return s.store.AuthenticateWithPassword(ctx, email, password)
}

// SetPassword hashes the plaintext and persists it on the user's record,
// converting an OAuth account into a password account if needed. When the
// store unexpectedly reports the id as absent the caller's copy is returned
// unchanged rather than failing the request.
func (s *Service) SetPassword(ctx context.Context, user *User, password string) (*User, error) {
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user is required")
	}
	if password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	updated, err := s.store.Update(ctx, user.ID, UpdateUserDTO{Credentials: PasswordCredentials{Hash: hash}})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return user, nil
	}
	return updated, nil
}
