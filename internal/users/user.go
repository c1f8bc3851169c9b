package users

import (
	"time"

	"github.com/dermalink/dermalink-backend/pkg/enums"
	"github.com/google/uuid"
)

// Credentials is the tagged variant separating password accounts from
// OAuth-backed accounts. A record carries exactly one of the two.
type Credentials interface {
	credentials()
}

// PasswordCredentials holds the Argon2id hash of a local password.
type PasswordCredentials struct {
	Hash string
}

func (PasswordCredentials) credentials() {}

// OAuthCredentials identifies an account authenticated by an external
// provider. Such accounts have no local password.
type OAuthCredentials struct {
	Provider   string
	ExternalID string
}

func (OAuthCredentials) credentials() {}

// User represents the canonical identity entity.
type User struct {
	ID          uuid.UUID
	Email       string
	Credentials Credentials
	Name        string
	Role        enums.UserRole
	IsActive    bool
	CreatedAt   time.Time
	LastLoginAt time.Time

	// RefreshToken is the opaque string generated when the record is created.
	// The signed refresh token minted at login is the credential actually
	// validated on refresh; this field survives for record-shape compatibility.
	RefreshToken string
}

func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}
