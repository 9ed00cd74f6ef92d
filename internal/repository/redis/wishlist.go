package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/solemart/storefront/internal/domain"
	apperrors "github.com/solemart/storefront/pkg/errors"
)

const wishlistKeyPrefix = "storefront:wishlist:"

// WishlistRepository implements repository.WishlistRepository using Redis.
// Wishlists are kept without expiry.
type WishlistRepository struct {
	client *redis.Client
}

// NewWishlistRepository creates a Redis-backed wishlist repository.
func NewWishlistRepository(client *redis.Client) *WishlistRepository {
	return &WishlistRepository{client: client}
}

// Get retrieves the wishlist for an owner, with the same degrade-to-absent
// behavior as the cart repository for unreadable data.
func (r *WishlistRepository) Get(ctx context.Context, ownerID string) (*domain.Wishlist, error) {
	key := wishlistKeyPrefix + ownerID

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("wishlist", ownerID)
		}
		return nil, fmt.Errorf("redis get wishlist: %w", err)
	}

	var wishlist domain.Wishlist
	if err := json.Unmarshal(data, &wishlist); err != nil {
		return nil, apperrors.NotFound("wishlist", ownerID)
	}

	return &wishlist, nil
}

// Save persists the full wishlist without expiry.
func (r *WishlistRepository) Save(ctx context.Context, wishlist *domain.Wishlist) error {
	key := wishlistKeyPrefix + wishlist.OwnerID

	data, err := json.Marshal(wishlist)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}

	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set wishlist: %w", err)
	}

	return nil
}

// Delete removes the owner's wishlist.
func (r *WishlistRepository) Delete(ctx context.Context, ownerID string) error {
	key := wishlistKeyPrefix + ownerID

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del wishlist: %w", err)
	}

	return nil
}
