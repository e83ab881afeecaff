// internal/pkg/token/manager.go
package token

import (
	"fmt"
	"time"
)

type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

type Manager struct {
	Issuer   *Issuer
	Verifier *Verifier
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token secret is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %v", cfg.TTL)
	}

	secret := []byte(cfg.Secret)
	return &Manager{
		Issuer:   NewIssuer(secret, cfg.Issuer, cfg.Audience, cfg.TTL),
		Verifier: NewVerifier(secret, cfg.Issuer, cfg.Audience),
	}, nil
}
