// Package token issues and verifies the signed bearer tokens that bind a
// request to a username. Tokens are HS256 JWTs signed with the process-wide
// session secret; nothing is persisted and there is no revocation - a token
// is valid until its expiry.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/langzhe001/cf-domain/internal/domain"
)

type Service struct {
	secret   []byte
	validity time.Duration
	clock    clockwork.Clock
}

func NewService(secret string, validity time.Duration, clock clockwork.Clock) *Service {
	return &Service{
		secret:   []byte(secret),
		validity: validity,
		clock:    clock,
	}
}

// Issue creates a signed token with subject = username and a fixed validity
// window starting now.
func (s *Service) Issue(username string) (string, error) {
	now := s.clock.Now()

	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.validity)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify validates signature and expiry and returns the embedded username.
// Malformed, badly signed and expired tokens all collapse into
// domain.ErrInvalidToken; callers must not distinguish between them.
func (s *Service) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil || !parsed.Valid {
		return "", domain.ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
