// Package token issues and validates the HS256 bearer tokens that carry an
// authenticated identity between requests. The embedded role claim exists to
// let UI layers render without a round trip; it is advisory and is never an
// input to an authorization decision.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/skillmart/backend/domain"
)

const issuer = "skillmart"

// ErrInvalidToken indicates the token failed validation.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims used across the service. Role is the advisory
// role claim; SessionID links the token to its Redis session record.
type Claims struct {
	Role      string `json:"role,omitempty"`
	SessionID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// Generate signs a token for the given user.
func Generate(secret []byte, user *domain.User, sessionID string, ttl time.Duration) (string, error) {
	if user == nil || user.ID == "" {
		return "", errors.New("user is required")
	}
	if ttl <= 0 {
		return "", errors.New("ttl must be greater than zero")
	}
	if len(secret) == 0 {
		return "", errors.New("signing secret is not configured")
	}

	now := time.Now().UTC()
	claims := Claims{
		Role:      string(user.Role),
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Parse verifies the signature, issuer and expiry, and returns the claims.
// Any failure maps to ErrInvalidToken; callers fail closed.
func Parse(secret []byte, raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(secret) == 0 {
		return nil, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Issuer != issuer || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now().UTC()) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
