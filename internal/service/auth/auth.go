package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("missing or invalid token")

// Service verifies caller tokens. Token issuance happens elsewhere; this
// service only needs the shared secret.
type Service struct {
	secret []byte
}

// NewService builds a verifier for the given HS256 secret.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// ParseIdentity validates the token and returns the owner identity carried in
// its subject claim.
func (s *Service) ParseIdentity(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return uuid.Nil, ErrInvalidToken
	}

	identity, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return identity, nil
}

// IssueToken signs a token for the identity, used by tests and local tooling.
func (s *Service) IssueToken(identity uuid.UUID, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   identity.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
