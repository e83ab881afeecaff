// internal/pkg/token/verifier.go
package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpired is returned when the token's expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrInvalidSignature is returned when the signature does not validate
	// or the token is otherwise malformed.
	ErrInvalidSignature = errors.New("invalid token signature")
)

type Verifier struct {
	secret   []byte
	issuer   string
	audience string
}

func NewVerifier(secret []byte, issuer, audience string) *Verifier {
	return &Verifier{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
	}
}

// Verify validates a signed token and returns the claims.
// Expiry and signature failures are distinguished so callers can report them
// separately.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("token verifier has empty secret")
	}

	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidSignature
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidSignature, claims.Issuer)
	}
	if v.audience != "" && !hasAudience(claims.Audience, v.audience) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidSignature)
	}

	return claims, nil
}

func hasAudience(aud jwt.ClaimStrings, expected string) bool {
	for _, a := range aud {
		if a == expected {
			return true
		}
	}
	return false
}
