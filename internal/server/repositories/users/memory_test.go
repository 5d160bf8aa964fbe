package users

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/collabogames/collabo-auth/internal/common"
	"github.com/collabogames/collabo-auth/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_CreateAndGet(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	u, err := r.Create(ctx, &models.User{Name: "alice", PasswordHash: "h", Categories: []string{"rpg"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	byName, err := r.GetUserByName(ctx, "alice")
	require.NoError(t, err)
	byID, err := r.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, byName, byID)
	assert.Equal(t, []string{"rpg"}, byID.Categories)
}

func TestMemory_Duplicate(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	_, err := r.Create(ctx, &models.User{Name: "alice"})
	require.NoError(t, err)
	_, err = r.Create(ctx, &models.User{Name: "alice"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestMemory_NotFound(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	_, err := r.GetUserByName(ctx, "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.GetUserByID(ctx, 1)
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, r.Delete(ctx, 1), common.ErrorNotFound)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	_, err := r.Create(ctx, &models.User{Name: "alice", Categories: []string{"a"}})
	require.NoError(t, err)

	got, err := r.GetUserByName(ctx, "alice")
	require.NoError(t, err)
	got.Categories[0] = "mutated"
	got.Name = "mallory"

	again, err := r.GetUserByID(ctx, got.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Name)
	assert.Equal(t, []string{"a"}, again.Categories)
}

func TestMemory_Delete(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	u, err := r.Create(ctx, &models.User{Name: "alice"})
	require.NoError(t, err)
	require.NoError(t, r.Delete(ctx, u.ID))

	_, err = r.GetUserByID(ctx, u.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	// the name is free again, ids are never reused
	u2, err := r.Create(ctx, &models.User{Name: "alice"})
	require.NoError(t, err)
	assert.NotEqual(t, u.ID, u2.ID)
}

func TestMemory_CancelledContext(t *testing.T) {
	r := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Create(ctx, &models.User{Name: "alice"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = r.GetUserByID(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemory_ConcurrentCreate(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = r.Create(ctx, &models.User{Name: fmt.Sprintf("user-%d", i%10)})
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		_, err := r.GetUserByName(ctx, fmt.Sprintf("user-%d", i))
		require.NoError(t, err)
	}
	_, err := r.GetUserByID(ctx, 11)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
