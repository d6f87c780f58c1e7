// Package auth issues and verifies the bearer tokens handed out at login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenType is the token_type reported alongside every access token.
const TokenType = "bearer"

// ErrInvalidToken is returned for tokens that are malformed, expired, or
// signed with a different key or method.
var ErrInvalidToken = errors.New("invalid or expired token")

// Issuer signs HS256 tokens whose subject is the username.
type Issuer struct {
	Secret []byte
	TTL    time.Duration
	now    func() time.Time
}

// NewIssuer returns an Issuer for secret with tokens valid for ttl.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{Secret: []byte(secret), TTL: ttl, now: time.Now}
}

func (i *Issuer) clock() time.Time {
	if i.now == nil {
		return time.Now()
	}
	return i.now()
}

// Issue returns a signed token for username.
func (i *Issuer) Issue(username string) (string, error) {
	now := i.clock()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.TTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify checks raw and returns the username it was issued to.
func (i *Issuer) Verify(raw string) (string, error) {
	var claims jwt.RegisteredClaims

	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	_, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.Secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
