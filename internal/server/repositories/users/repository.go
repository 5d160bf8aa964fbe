// Package users stores registered accounts.
package users

import (
	"context"

	"github.com/collabogames/collabo-auth/internal/server/models"
)

// Repository is the account store consumed by the authentication core.
// Missing records are reported as common.ErrorNotFound and duplicate names as
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByName(ctx context.Context, name string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}
