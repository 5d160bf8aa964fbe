package repomanager

import (
	"context"

	"github.com/collabogames/collabo-auth/internal/server/repositories/users"
)

// MemoryRepositoryManager serves everything from a single in-process store.
// WithinTx offers no rollback.
type MemoryRepositoryManager struct {
	users *users.MemoryRepository
}

// NewMemoryRepositoryManager uses store, or a fresh store when nil.
func NewMemoryRepositoryManager(store *users.MemoryRepository) *MemoryRepositoryManager {
	if store == nil {
		store = users.NewMemoryRepository()
	}
	return &MemoryRepositoryManager{users: store}
}

func (m *MemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) WithinTx(ctx context.Context, fn TxFunc) error {
	return fn(ctx, m.users)
}

func (m *MemoryRepositoryManager) Close() error { return nil }
