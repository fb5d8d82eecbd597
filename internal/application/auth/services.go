package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bryanwahyu/csv-sentiment/internal/application"
	domain "github.com/bryanwahyu/csv-sentiment/internal/domain/auth"
)

// DefaultTokenTTL is used when Service.TTL is zero.
const DefaultTokenTTL = time.Hour

// Service implements login and token authentication. It holds no per-request
// state; Users must not change after startup.
type Service struct {
	Users  domain.UserStore
	Tokens domain.TokenIssuer
	Clock  application.Clock
	TTL    time.Duration
}

type LoginCommand struct {
	Username string
	Password string
}

// Login issues an access token for an exact credential match.
func (s *Service) Login(ctx context.Context, cmd LoginCommand) (domain.AccessToken, error) {
	cred, ok := s.Users.Lookup(cmd.Username)
	if !ok || !cred.Matches(cmd.Password) {
		return domain.AccessToken{}, domain.ErrInvalidCredentials
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	tok, err := s.Tokens.Issue(cred.Username, s.Clock.Now(), ttl)
	if err != nil {
		return domain.AccessToken{}, fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}

// Authenticate resolves a raw bearer token into a Principal.
func (s *Service) Authenticate(ctx context.Context, raw string) (domain.Principal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Principal{}, domain.ErrMissingToken
	}
	p, err := s.Tokens.Verify(raw, s.Clock.Now())
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	return p, nil
}
