package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domain "github.com/bryanwahyu/csv-sentiment/internal/domain/auth"
)

// Algorithm is the only signing method accepted.
const Algorithm = "HS256"

// ErrEmptySubject is returned for tokens without a `sub` claim.
var ErrEmptySubject = errors.New("token has no subject")

// JWT signs and verifies HS256 access tokens with a shared secret.
type JWT struct {
	key []byte
}

func NewJWT(secret string) (*JWT, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &JWT{key: []byte(secret)}, nil
}

// Issue implements domain.TokenIssuer.
func (j *JWT) Issue(subject string, now time.Time, ttl time.Duration) (domain.AccessToken, error) {
	if subject == "" {
		return domain.AccessToken{}, ErrEmptySubject
	}
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.key)
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("sign token: %w", err)
	}
	return domain.AccessToken{
		Value:     signed,
		Type:      domain.TokenTypeBearer,
		Subject:   subject,
		ExpiresAt: exp,
	}, nil
}

// Verify implements domain.TokenIssuer. Expiry is checked against now.
func (j *JWT) Verify(raw string, now time.Time) (domain.Principal, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return j.key, nil },
		jwt.WithValidMethods([]string{Algorithm}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return domain.Principal{}, err
	}
	if claims.Subject == "" {
		return domain.Principal{}, ErrEmptySubject
	}
	return domain.Principal{Subject: claims.Subject}, nil
}
