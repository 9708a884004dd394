package auth

import "errors"

var (
	ErrMissingSecret      = errors.New("JWT secret is not set")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
