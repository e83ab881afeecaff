// internal/pkg/token/issuer.go
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	Ttl      time.Duration
}

func NewIssuer(secret []byte, issuer, audience string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		Ttl:      ttl,
	}
}

// Sign creates a new signed token for the given subject and roles.
// jti links the token to a server-side session; pass "" to mint a fresh one.
// Returns the compact token string and the jti used.
func (i *Issuer) Sign(subject string, roles []string, jti string) (string, string, error) {
	if len(i.secret) == 0 {
		return "", "", fmt.Errorf("token issuer has empty secret")
	}

	now := time.Now()
	if jti == "" {
		jti = ulid.Make().String()
	}

	claims := &Claims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   subject,
			Audience:  []string{i.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(i.Ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	return signed, jti, err
}
