package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshmarket/freshmarket/internal/domain"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
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
		ID:     "cart-001",
		UserID: "user-001",
		Items: []domain.CartItem{
			{
				ProductID:  "prod-1",
				Name:       "Heirloom Tomatoes",
				PriceCents: 450,
				Quantity:   2,
			},
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(24 * time.Hour),
	}
}

func TestCartRepository_Get_Success(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	data, err := json.Marshal(cart)
	require.NoError(t, err)

	// Set data directly in miniredis.
	require.NoError(t, mr.Set("cart:"+cart.OwnerKey(), string(data)))

	got, err := repo.Get(context.Background(), cart.OwnerKey())
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)
	assert.Equal(t, cart.UserID, got.UserID)
	assert.Equal(t, cart.Version, got.Version)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "prod-1", got.Items[0].ProductID)
	assert.Equal(t, int64(450), got.Items[0].PriceCents)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestCartRepository_Get_NotFound(t *testing.T) {
	repo, _ := setupTestRedis(t)

	_, err := repo.Get(context.Background(), "user:missing")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestCartRepository_Save_RoundTrip(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	cart.Version = 0
	require.NoError(t, repo.Save(context.Background(), cart))
	assert.Equal(t, 1, cart.Version)

	got, err := repo.Get(context.Background(), cart.OwnerKey())
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)
	assert.Equal(t, 1, got.Version)

	// TTL is set on the key.
	assert.Greater(t, mr.TTL("cart:"+cart.OwnerKey()), time.Duration(0))
}

func TestCartRepository_Save_SessionOwner(t *testing.T) {
	repo, _ := setupTestRedis(t)

	cart := sampleCart()
	cart.UserID = ""
	cart.SessionID = "sess-42"
	require.NoError(t, repo.Save(context.Background(), cart))

	got, err := repo.Get(context.Background(), "session:sess-42")
	require.NoError(t, err)
	assert.Equal(t, cart.ID, got.ID)
}

func TestCartRepository_SaveIfVersion_Success(t *testing.T) {
	repo, _ := setupTestRedis(t)

	cart := sampleCart()
	cart.Version = 0
	require.NoError(t, repo.Save(context.Background(), cart)) // version 1

	cart.Items[0].Quantity = 3
	require.NoError(t, repo.SaveIfVersion(context.Background(), cart, 1))

	got, err := repo.Get(context.Background(), cart.OwnerKey())
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)
	assert.Equal(t, 3, got.Items[0].Quantity)
}

func TestCartRepository_SaveIfVersion_StaleVersion(t *testing.T) {
	repo, _ := setupTestRedis(t)

	cart := sampleCart()
	cart.Version = 0
	require.NoError(t, repo.Save(context.Background(), cart)) // version 1

	err := repo.SaveIfVersion(context.Background(), cart, 5)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestCartRepository_SaveIfVersion_NewCart(t *testing.T) {
	repo, _ := setupTestRedis(t)

	cart := sampleCart()
	cart.Version = 0
	require.NoError(t, repo.SaveIfVersion(context.Background(), cart, 0))

	got, err := repo.Get(context.Background(), cart.OwnerKey())
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
}

func TestCartRepository_SaveIfVersion_MissingButExpected(t *testing.T) {
	repo, _ := setupTestRedis(t)

	cart := sampleCart()
	err := repo.SaveIfVersion(context.Background(), cart, 3)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestCartRepository_Delete(t *testing.T) {
	repo, mr := setupTestRedis(t)

	cart := sampleCart()
	require.NoError(t, repo.Save(context.Background(), cart))
	require.NoError(t, repo.Delete(context.Background(), cart.OwnerKey()))

	assert.False(t, mr.Exists("cart:"+cart.OwnerKey()))

	_, err := repo.Get(context.Background(), cart.OwnerKey())
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}
