// Package auth issues and validates the signed bearer tokens protecting
// the HTTP API. Tokens are HMAC-signed JWTs carrying the client name as
// subject; there is no user store, a token is the credential.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenService signs and verifies bearer tokens with a shared secret.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService. An empty secret disables
// authentication; callers should treat a nil service as "auth off".
func NewTokenService(secret string) *TokenService {
	if secret == "" {
		return nil
	}
	return &TokenService{secret: []byte(secret)}
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue creates a signed token for the named client, valid for ttl.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    "plotforge",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.secret)
}

// Validate verifies a token and returns its subject.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenStr, c, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	return c.Subject, nil
}
