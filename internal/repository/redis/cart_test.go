package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func setupTestRedis(t *testing.T) (*CartRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	repo := NewCartRepository(client, 24*time.Hour)
	return repo, mr
}

func sampleCart() *domain.Cart {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.Cart{
		SessionID: "sess-001",
		Items: []domain.CartItem{
			{
				ProductID: 1,
				Name:      "Widget",
				Price:     1990,
				Image:     "https://img.example.com/w.jpg",
				Quantity:  2,
				MaxStock:  5,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ---------------------------------------------------------------------------
// Get
// ---------------------------------------------------------------------------

func TestCartRepository_Get_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	data, err := json.Marshal(cart)
	require.NoError(t, err)

	// Set data directly in miniredis.
	require.NoError(t, mr.Set("cart:"+cart.SessionID, string(data)))

	got, err := repo.Get(context.Background(), cart.SessionID)
	require.NoError(t, err)
	assert.Equal(t, cart.SessionID, got.SessionID)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(1), got.Items[0].ProductID)
	assert.Equal(t, "Widget", got.Items[0].Name)
	assert.Equal(t, int64(1990), got.Items[0].Price)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, 5, got.Items[0].MaxStock)
}

func TestCartRepository_Get_NotFound(t *testing.T) {
	repo, _ := setupTestRedis(t)

	got, err := repo.Get(context.Background(), "nonexistent-session")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCartRepository_Get_InvalidJSON(t *testing.T) {
	repo, mr := setupTestRedis(t)

	// Set corrupted JSON data.
	require.NoError(t, mr.Set("cart:sess-bad", "{{not-valid-json"))

	got, err := repo.Get(context.Background(), "sess-bad")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStoreRead)
	assert.Contains(t, err.Error(), "unmarshal cart")
}

// ---------------------------------------------------------------------------
// Save
// ---------------------------------------------------------------------------

func TestCartRepository_Save_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	err := repo.Save(context.Background(), cart)
	require.NoError(t, err)

	// Verify key exists in Redis.
	assert.True(t, mr.Exists("cart:"+cart.SessionID))

	// Verify JSON content.
	raw, err := mr.Get("cart:" + cart.SessionID)
	require.NoError(t, err)

	var stored domain.Cart
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Equal(t, cart.SessionID, stored.SessionID)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, int64(1), stored.Items[0].ProductID)
}

func TestCartRepository_Save_Overwrites(t *testing.T) {
	repo, _ := setupTestRedis(t)

	cart := sampleCart()
	require.NoError(t, repo.Save(context.Background(), cart))

	cart.Items = append(cart.Items, domain.CartItem{
		ProductID: 2,
		Name:      "Gadget",
		Price:     4500,
		Quantity:  1,
		MaxStock:  3,
	})
	require.NoError(t, repo.Save(context.Background(), cart))

	got, err := repo.Get(context.Background(), cart.SessionID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
}

func TestCartRepository_Save_TTL(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	err := repo.Save(context.Background(), cart)
	require.NoError(t, err)

	ttl := mr.TTL("cart:" + cart.SessionID)
	// TTL should be approximately 24 hours (allow some margin for test execution).
	assert.True(t, ttl > 23*time.Hour, "expected TTL > 23h, got %v", ttl)
	assert.True(t, ttl <= 24*time.Hour, "expected TTL <= 24h, got %v", ttl)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestCartRepository_Delete_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	err := repo.Save(context.Background(), cart)
	require.NoError(t, err)
	assert.True(t, mr.Exists("cart:"+cart.SessionID))

	err = repo.Delete(context.Background(), cart.SessionID)
	require.NoError(t, err)

	// Verify key was removed.
	assert.False(t, mr.Exists("cart:"+cart.SessionID))
}

func TestCartRepository_Delete_NonExistent(t *testing.T) {
	repo, _ := setupTestRedis(t)

	// Deleting a key that doesn't exist should not return an error.
	err := repo.Delete(context.Background(), "nonexistent-session")
	assert.NoError(t, err)
}
