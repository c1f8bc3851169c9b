package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed token payload. The subject carries the user id and is
// the only application claim; clients depend on that exact shape.
type Claims struct {
	jwt.RegisteredClaims
}

// UserID returns the subject claim.
func (c *Claims) UserID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}
