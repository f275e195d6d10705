package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrMissingCredential   = errors.New("missing authorization header")
	ErrMalformedCredential = errors.New("malformed authorization header")
	ErrTokenRevoked        = errors.New("token has been revoked")
	ErrInvalidToken        = errors.New("invalid token")
)
