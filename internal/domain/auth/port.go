package auth

import (
	"context"
	"time"
)

// UserStore port (read-only after startup)
type UserStore interface {
	Lookup(username string) (Credential, bool)
}

// TokenIssuer port (signs and verifies access tokens)
type TokenIssuer interface {
	Issue(subject string, now time.Time, ttl time.Duration) (AccessToken, error)
	Verify(raw string, now time.Time) (Principal, error)
}

// CredentialSource port (where the startup credential list comes from)
type CredentialSource interface {
	LoadCredentials(ctx context.Context) ([]Credential, error)
}
