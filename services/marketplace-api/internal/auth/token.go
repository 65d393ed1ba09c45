package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"toolplanet/shared/pkg/apperr"
)

// ErrInvalidToken is returned for every verification failure so callers cannot
// tell malformed input from tampering.
var ErrInvalidToken = fmt.Errorf("%w: invalid token", apperr.ErrForbidden)

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 tokens bound to an email.
// A zero ttl issues tokens without an exp claim.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: token secret is empty")
	}
	if ttl < 0 {
		return nil, errors.New("auth: token ttl must not be negative")
	}
	s := &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	return s, nil
}

func (s *TokenService) Issue(id Identity) (string, error) {
	if id.Email == "" {
		return "", fmt.Errorf("%w: email is required", apperr.ErrInvalid)
	}
	now := s.now()
	c := claims{
		Email:            id.Email,
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now)},
	}
	if s.ttl > 0 {
		c.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
}

func (s *TokenService) Verify(token string) (Identity, error) {
	var c claims
	t, err := s.parser.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !t.Valid || c.Email == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{Email: c.Email}, nil
}
