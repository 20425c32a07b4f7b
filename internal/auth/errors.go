package auth

import (
	"errors"

	"github.com/VladKovDev/tguser-api/internal/domain/entity"
)

var (
	// ErrInvalidCredentials is returned when email or password do not match
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenNotFound is returned when a request carries no bearer token
	ErrTokenNotFound = errors.New("bearer token not found")
	// ErrInvalidToken is returned for tokens that cannot be opened or decoded
	ErrInvalidToken = errors.New("invalid bearer token")
	// ErrExpiredToken is returned for tokens past their expiry
	ErrExpiredToken = errors.New("expired bearer token")
	// ErrRevokedToken is returned for tokens on the revocation list
	ErrRevokedToken = errors.New("revoked bearer token")
)

// IsUnauthorized reports whether err should be answered with 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, entity.ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrTokenNotFound) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrRevokedToken)
}
