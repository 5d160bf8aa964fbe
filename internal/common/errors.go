// Package common defines shared constants and sentinel errors used across
// the server and client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Request errors.
	ErrorValidation = errors.New("validation error")

	// Login failed: unknown name or wrong password. Callers never learn which.
	ErrorInvalidCredentials = errors.New("invalid username or password")

	// Missing, malformed, forged or expired token, or a token whose subject
	// no longer exists.
	ErrorUnauthenticated = errors.New("unauthenticated")

	// Store unreachable or failing. Never reported as an auth rejection.
	ErrorInfrastructure = errors.New("infrastructure error")
)
