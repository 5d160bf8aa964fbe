// Package repomanager hands out repository implementations for the selected
// storage backend and owns its lifecycle (migrations, transactions, closing).
package repomanager

import (
	"context"

	"github.com/collabogames/collabo-auth/internal/server/repositories/users"
)

// TxFunc runs inside a unit of work with repositories bound to it.
type TxFunc func(ctx context.Context, users users.Repository) error

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	WithinTx(ctx context.Context, fn TxFunc) error
	Close() error
}
