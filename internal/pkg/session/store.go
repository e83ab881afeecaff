// internal/pkg/session/store.go
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

// Store defines how sessions are stored and retrieved.
// Implementations must treat missing or corrupt records as absent (nil, nil),
// never as errors, and Delete must be idempotent.
type Store interface {
	Create(ctx context.Context, subject string, roles []string, ttl time.Duration) (*Session, error)
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteAll(ctx context.Context, subject string) error
}

// NewToken generates a cryptographically secure opaque session token.
// 32 bytes = 256 bits of entropy.
func NewToken() (string, error) {
	const size = 32

	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
