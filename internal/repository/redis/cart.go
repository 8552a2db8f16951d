// Package redis implements the cart repository on Redis. Carts are stored as
// JSON blobs keyed by owner and expire after a configurable TTL.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/freshmarket/freshmarket/internal/domain"
	apperrors "github.com/freshmarket/freshmarket/pkg/errors"
)

const keyPrefix = "cart:"

// CartRepository implements repository.CartRepository using Redis.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a new Redis-backed cart repository.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a cart by its owner key from Redis.
func (r *CartRepository) Get(ctx context.Context, ownerKey string) (*domain.Cart, error) {
	key := keyPrefix + ownerKey

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("cart", ownerKey)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	return &cart, nil
}

// Save persists a cart to Redis with the configured TTL, bumping its version.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	cart.Version++
	cart.UpdatedAt = time.Now().UTC()
	cart.ExpiresAt = cart.UpdatedAt.Add(r.ttl)

	key := keyPrefix + cart.OwnerKey()

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// SaveIfVersion persists a cart only if the stored cart still carries the
// expected version. A missing cart counts as version zero. Concurrent writers
// that lose the WATCH race get ErrConflict and should re-read and retry.
func (r *CartRepository) SaveIfVersion(ctx context.Context, cart *domain.Cart, expectedVersion int) error {
	key := keyPrefix + cart.OwnerKey()

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if expectedVersion != 0 {
				return apperrors.Conflict("cart was modified concurrently")
			}
		case err != nil:
			return fmt.Errorf("redis get cart: %w", err)
		default:
			var stored domain.Cart
			if err := json.Unmarshal(current, &stored); err != nil {
				return fmt.Errorf("unmarshal cart: %w", err)
			}
			if stored.Version != expectedVersion {
				return apperrors.Conflict("cart was modified concurrently")
			}
		}

		cart.Version = expectedVersion + 1
		cart.UpdatedAt = time.Now().UTC()
		cart.ExpiresAt = cart.UpdatedAt.Add(r.ttl)

		data, err := json.Marshal(cart)
		if err != nil {
			return fmt.Errorf("marshal cart: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	}

	err := r.client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		return apperrors.Conflict("cart was modified concurrently")
	}
	return err
}

// Delete removes a cart from Redis by its owner key.
func (r *CartRepository) Delete(ctx context.Context, ownerKey string) error {
	key := keyPrefix + ownerKey

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
