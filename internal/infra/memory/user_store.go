package memory

import (
	domain "github.com/bryanwahyu/csv-sentiment/internal/domain/auth"
)

// UserStore implements domain.UserStore over a map built once at startup.
// It is never written after construction, so concurrent reads need no lock.
type UserStore struct {
	users map[string]domain.Credential
}

// NewUserStore copies creds; later duplicates of a username win.
func NewUserStore(creds []domain.Credential) *UserStore {
	users := make(map[string]domain.Credential, len(creds))
	for _, c := range creds {
		if c.Username == "" {
			continue
		}
		users[c.Username] = c
	}
	return &UserStore{users: users}
}

// Lookup finds a credential by exact username.
func (s *UserStore) Lookup(username string) (domain.Credential, bool) {
	c, ok := s.users[username]
	return c, ok
}

// Len returns the number of usernames.
func (s *UserStore) Len() int { return len(s.users) }
