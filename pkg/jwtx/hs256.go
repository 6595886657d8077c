package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken reports a token that failed signature or claim checks.
	ErrInvalidToken = errors.New("jwtx: invalid token")
	// ErrMissingSecret reports an empty signing secret.
	ErrMissingSecret = errors.New("jwtx: signing secret is required")
)

// Signer mints access tokens.
type Signer interface {
	Sign(Claims) (string, error)
}

// Verifier validates access tokens and returns their claims.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

// HS256 signs and verifies tokens with a shared HMAC-SHA256 secret. The
// zero value is not usable; construct with NewHS256.
type HS256 struct {
	secret []byte
	issuer string
}

// NewHS256 returns an HMAC signer/verifier bound to an issuer. Tokens from a
// different issuer fail verification.
func NewHS256(secret []byte, issuer string) (*HS256, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	return &HS256{secret: secret, issuer: issuer}, nil
}

func (h *HS256) Sign(c Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

func (h *HS256) Verify(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("jwtx: unexpected signing method %q", t.Method.Alg())
			}
			return h.secret, nil
		},
		jwt.WithIssuer(h.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
