package auth

import (
	"crypto/subtle"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "bearer"

// Principal is the authenticated subject of a request.
type Principal struct {
	Subject string `json:"sub"`
}

// AccessToken is a signed, time-bounded credential for a Principal.
type AccessToken struct {
	Value     string    `json:"access_token"`
	Type      string    `json:"token_type"`
	Subject   string    `json:"-"`
	ExpiresAt time.Time `json:"-"`
}

// Credential is one entry of the startup credential store. Password holds
// either a bcrypt hash or the plaintext secret.
type Credential struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"-"`
}

// Hashed reports whether the stored password is a bcrypt hash.
func (c Credential) Hashed() bool {
	for _, p := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(c.Password, p) {
			return true
		}
	}
	return false
}

// Matches checks password against the stored secret. Plaintext secrets need an
// exact match.
func (c Credential) Matches(password string) bool {
	if c.Hashed() {
		return bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(c.Password), []byte(password)) == 1
}
