package auth

import "errors"

var (
	// ErrInvalidCredentials is a failed login (unknown user or wrong password).
	ErrInvalidCredentials = errors.New("Incorrect username or password")
	// ErrMissingToken means no bearer token came with the request.
	ErrMissingToken = errors.New("Not authenticated")
	// ErrInvalidToken covers malformed, expired or wrongly signed tokens.
	ErrInvalidToken = errors.New("Could not validate credentials")
)
