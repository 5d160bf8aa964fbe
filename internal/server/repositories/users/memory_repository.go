package users

import (
	"context"
	"sync"
	"time"

	"github.com/collabogames/collabo-auth/internal/common"
	"github.com/collabogames/collabo-auth/internal/server/models"
)

// MemoryRepository keeps accounts in process memory. It backs the "memory"
// DSN used for local runs and tests. Records are copied on the way in and out.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*models.User
	byName map[string]int64
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[int64]*models.User),
		byName: make(map[string]int64),
		now:    time.Now,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[user.Name]; ok {
		return nil, common.ErrorAlreadyExists
	}

	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = r.now().UTC()

	r.byID[user.ID] = user.Clone()
	r.byName[user.Name] = user.ID
	return user, nil
}

func (r *MemoryRepository) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.byID[id].Clone(), nil
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u.Clone(), nil
}

// Delete removes an account. The service itself never deletes users; this
// exists for operators and tests.
func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.byName, u.Name)
	delete(r.byID, id)
	return nil
}
