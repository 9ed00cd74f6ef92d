// Package memory provides in-process implementations of the persistence
// ports. They back the service test suites and double as a storage fallback
// for local development without Redis.
package memory

import (
	"context"
	"sync"

	"github.com/solemart/storefront/internal/domain"
	apperrors "github.com/solemart/storefront/pkg/errors"
)

// CartRepository is a map-backed repository.CartRepository.
type CartRepository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

// NewCartRepository creates an empty in-memory cart repository.
func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[string]*domain.Cart)}
}

// Get returns a copy of the stored cart so callers cannot mutate shared state.
func (r *CartRepository) Get(_ context.Context, ownerID string) (*domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[ownerID]
	if !ok {
		return nil, apperrors.NotFound("cart", ownerID)
	}
	return copyCart(cart), nil
}

// Save stores a copy of the cart.
func (r *CartRepository) Save(_ context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[cart.OwnerID] = copyCart(cart)
	return nil
}

// Delete removes the owner's cart.
func (r *CartRepository) Delete(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, ownerID)
	return nil
}

// Len reports the number of stored carts (test helper).
func (r *CartRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.carts)
}

func copyCart(c *domain.Cart) *domain.Cart {
	cp := *c
	cp.Items = append([]domain.LineItem(nil), c.Items...)
	return &cp
}

// WishlistRepository is a map-backed repository.WishlistRepository.
type WishlistRepository struct {
	mu        sync.RWMutex
	wishlists map[string]*domain.Wishlist
}

// NewWishlistRepository creates an empty in-memory wishlist repository.
func NewWishlistRepository() *WishlistRepository {
	return &WishlistRepository{wishlists: make(map[string]*domain.Wishlist)}
}

func (r *WishlistRepository) Get(_ context.Context, ownerID string) (*domain.Wishlist, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.wishlists[ownerID]
	if !ok {
		return nil, apperrors.NotFound("wishlist", ownerID)
	}
	return copyWishlist(w), nil
}

func (r *WishlistRepository) Save(_ context.Context, wishlist *domain.Wishlist) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wishlists[wishlist.OwnerID] = copyWishlist(wishlist)
	return nil
}

func (r *WishlistRepository) Delete(_ context.Context, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.wishlists, ownerID)
	return nil
}

func copyWishlist(w *domain.Wishlist) *domain.Wishlist {
	cp := *w
	cp.Items = append([]domain.WishlistItem(nil), w.Items...)
	return &cp
}
