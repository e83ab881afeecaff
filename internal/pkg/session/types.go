// internal/pkg/session/types.go
package session

import "time"

// Session identifies an authenticated actor. The Token is the opaque lookup
// key; it is also embedded as the jti of the signed token handed to clients
// so that verification can confirm server-side liveness.
type Session struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HasRole checks if the session carries a specific role
func (s *Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if the session carries at least one of the given roles
func (s *Session) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if s.HasRole(r) {
			return true
		}
	}
	return false
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
