package users

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dermalink/dermalink-backend/pkg/config"
	"github.com/dermalink/dermalink-backend/pkg/enums"
	pkgerrors "github.com/dermalink/dermalink-backend/pkg/errors"
	"github.com/dermalink/dermalink-backend/pkg/security"
	"github.com/google/uuid"
)

// Store is the in-memory registry of user identities. A single mutex guards
// the primary map and the email index so every mutation keeps the two
// consistent. Lookups that find nothing return (nil, nil): callers cannot
// distinguish an unknown email from a wrong password by error type.
type Store struct {
	mu          sync.Mutex
	byID        map[uuid.UUID]*User
	byEmail     map[string]uuid.UUID
	passwordCfg config.PasswordConfig
}

// NewStore constructs an empty store. State lives for the process lifetime;
// there is no durability layer behind it.
func NewStore(passwordCfg config.PasswordConfig) *Store {
	return &Store{
		byID:        make(map[uuid.UUID]*User),
		byEmail:     make(map[string]uuid.UUID),
		passwordCfg: passwordCfg,
	}
}

// Create registers a new identity. The email is normalized to lowercase and
// must be unique across the store; the password is hashed before the record
// is inserted. Exactly one of password or OAuth identity must be supplied.
func (s *Store) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(dto.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if dto.Password == "" && dto.OAuth == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}
	if dto.Password != "" && dto.OAuth != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account cannot carry both password and oauth credentials")
	}

	role := dto.Role
	if role == "" {
		role = enums.UserRolePatient
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", dto.Role))
	}

	var creds Credentials
	if dto.OAuth != nil {
		creds = *dto.OAuth
	} else {
		hash, err := security.HashPassword(dto.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		creds = PasswordCredentials{Hash: hash}
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.New(),
		Email:        email,
		Credentials:  creds,
		Name:         dto.Name,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		LastLoginAt:  now,
		RefreshToken: "refresh_" + uuid.NewString(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user with this email already exists")
	}

	s.byID[user.ID] = user
	s.byEmail[email] = user.ID

	return user.clone(), nil
}

// FindByEmail performs a case-insensitive lookup through the email index.
func (s *Store) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findByEmailLocked(email), nil
}

// FindByID returns the user with the given id, or nil when absent.
func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id].clone(), nil
}

// AuthenticateWithPassword resolves the email and verifies the password.
// Unknown email and wrong password both yield (nil, nil); an OAuth-only
// account is a distinct error so the client can be redirected to its
// provider. On success the record's last-login timestamp is refreshed.
func (s *Store) AuthenticateWithPassword(ctx context.Context, email, password string) (*User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	s.mu.Lock()
	user := s.findByEmailLocked(email)
	s.mu.Unlock()
	if user == nil {
		return nil, nil
	}

	creds, ok := user.Credentials.(PasswordCredentials)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnsupportedAuth, "this account uses OAuth authentication")
	}

	// Hashing is CPU-bound; keep it outside the store lock.
	valid, err := security.VerifyPassword(password, creds.Hash)
	if err != nil || !valid {
		// A malformed stored hash fails closed as a plain mismatch.
		return nil, nil
	}

	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	current, exists := s.byID[user.ID]
	if !exists {
		return nil, nil
	}
	current.LastLoginAt = now
	return current.clone(), nil
}

// Update merges the patch into the stored record. The email is immutable:
// the patch carries no email field, so the index can never drift. Returns
// (nil, nil) when the id is unknown.
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch UpdateUserDTO) (*User, error) {
	if patch.Role != nil && !patch.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid role %q", *patch.Role))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.byID[id]
	if !exists {
		return nil, nil
	}

	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	if patch.Credentials != nil {
		user.Credentials = patch.Credentials
	}

	return user.clone(), nil
}

// Delete removes the record and its email index entry in one critical
// section. Reports whether the id was present.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.byID[id]
	if !exists {
		return false, nil
	}

	delete(s.byID, id)
	delete(s.byEmail, user.Email)
	return true, nil
}

// List returns a snapshot of every record. Order is not part of the contract.
func (s *Store) List(ctx context.Context) ([]*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*User, 0, len(s.byID))
	for _, user := range s.byID {
		out = append(out, user.clone())
	}
	return out, nil
}

func (s *Store) findByEmailLocked(email string) *User {
	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil
	}
	return s.byID[id].clone()
}
