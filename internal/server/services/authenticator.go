// Package services contains the server-side business logic: credential
// checks, identity resolution for protected calls, and account registration
// and login.
package services

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/collabogames/collabo-auth/internal/common"
	"github.com/collabogames/collabo-auth/internal/server/hasher"
	"github.com/collabogames/collabo-auth/internal/server/models"
	"github.com/collabogames/collabo-auth/internal/server/repositories/users"
)

// Authenticator checks a name and secret pair against the account store.
type Authenticator struct {
	users  users.Repository
	hasher hasher.Hasher

	// dummy is verified when the name is unknown so that both failure paths
	// spend comparable time in the hasher.
	dummy string
}

// NewAuthenticator hashes a random throwaway secret up front to obtain the
// dummy stored form.
func NewAuthenticator(repo users.Repository, h hasher.Hasher) (*Authenticator, error) {
	dummy, err := h.Hash(hex.EncodeToString(common.GenerateRandByteArray(16)))
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Authenticator{users: repo, hasher: h, dummy: dummy}, nil
}

// Authenticate returns the account named name when secret matches its
// stored hash. Unknown names and wrong secrets both yield
// common.ErrorInvalidCredentials.
func (a *Authenticator) Authenticate(ctx context.Context, name, secret string) (*models.User, error) {
	user, err := a.users.GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			a.hasher.Verify(secret, a.dummy)
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInfrastructure, err)
	}

	if !a.hasher.Verify(secret, user.PasswordHash) {
		return nil, common.ErrorInvalidCredentials
	}
	return user, nil
}
