package repository

import (
	"context"

	"github.com/solemart/storefront/internal/domain"
)

// CartRepository is the persistence port for carts. Implementations must
// treat unreadable stored data as absence so a corrupt entry degrades to a
// fresh empty cart instead of a hard failure.
type CartRepository interface {
	// Get retrieves the cart for an owner. Returns an error wrapping
	// errors.ErrNotFound when no readable cart exists.
	Get(ctx context.Context, ownerID string) (*domain.Cart, error)

	// Save persists the full cart, overwriting any existing one.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the owner's cart. Deleting an absent cart is not an error.
	Delete(ctx context.Context, ownerID string) error
}

// WishlistRepository is the persistence port for wishlists, stored under a
// separate key from carts with the same absence semantics.
type WishlistRepository interface {
	Get(ctx context.Context, ownerID string) (*domain.Wishlist, error)
	Save(ctx context.Context, wishlist *domain.Wishlist) error
	Delete(ctx context.Context, ownerID string) error
}
