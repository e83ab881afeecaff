// internal/pkg/token/claims.go
package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the signed token claims handed to clients.
// Subject, ExpiresAt, IssuedAt and ID (the session token reference)
// live in RegisteredClaims.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// HasRole checks if the claims contain a specific role
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin checks if the claims carry the admin role
func (c *Claims) IsAdmin() bool {
	return c.HasRole("admin")
}
