package users

import (
	"time"

	"github.com/dermalink/dermalink-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the transport shape that omits credentials and other internal
// fields. Boundary code must only ever expose this shape.
type UserDTO struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name,omitempty"`
	Role        enums.UserRole `json:"role"`
	IsActive    bool           `json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	LastLoginAt time.Time      `json:"last_login_at"`
}

// CreateUserDTO holds the data required to register a new identity. Password
// and OAuth are mutually exclusive; exactly one must be set.
type CreateUserDTO struct {
	Email    string
	Password string
	Name     string
	Role     enums.UserRole
	OAuth    *OAuthCredentials
}

// UpdateUserDTO is the patch applied by Store.Update. Nil fields are left
// untouched. There is deliberately no email field here.
type UpdateUserDTO struct {
	Name        *string
	Role        *enums.UserRole
	IsActive    *bool
	Credentials Credentials
}

// FromUser maps the full record onto its public transport shape.
func FromUser(u *User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
