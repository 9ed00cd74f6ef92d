package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/solemart/storefront/internal/domain"
	apperrors "github.com/solemart/storefront/pkg/errors"
)

const cartKeyPrefix = "storefront:cart:"

// CartRepository implements repository.CartRepository using Redis.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a Redis-backed cart repository. A zero ttl means
// carts never expire.
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the cart for an owner. A stored value that does not parse is
// reported as not found, so a schema change produces a fresh empty cart on the
// next read rather than an error surfaced to the shopper.
func (r *CartRepository) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	key := cartKeyPrefix + ownerID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart", ownerID)
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, apperrors.NotFound("cart", ownerID)
	}

	return &cart, nil
}

// Save persists the full cart with the configured TTL.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	key := cartKeyPrefix + cart.OwnerID

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}

	return nil
}

// Delete removes the owner's cart. Absent keys are not an error.
func (r *CartRepository) Delete(ctx context.Context, ownerID string) error {
	key := cartKeyPrefix + ownerID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}

	return nil
}
