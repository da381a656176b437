// Package auth mints and verifies the signed access tokens carried on
// API requests. Tokens are short-lived HS256 JWTs; long-lived sessions
// are handled by opaque refresh tokens in the service layer.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the access-token payload. Tier is a snapshot for clients;
// servers re-resolve it against expiry on every authenticated request.
type Claims struct {
	Role string `json:"role"`
	Tier string `json:"tier"`
	jwt.RegisteredClaims
}

// ErrInvalidToken is returned for any token that fails signature,
// expiry, or shape checks.
var ErrInvalidToken = errors.New("invalid access token")

// Mint signs an access token for the user, valid for ttl.
func Mint(secret []byte, userID, role, tier string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: role,
		Tier: tier,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Parse verifies the token signature and expiry and returns its claims.
func Parse(secret []byte, token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
