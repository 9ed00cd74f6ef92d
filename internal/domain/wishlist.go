package domain

import "time"

// Wishlist is the persisted set of products an owner has saved for later.
// A product appears at most once; the saved variant is informational and does
// not participate in membership.
type Wishlist struct {
	ID        string         `json:"id"`
	OwnerID   string         `json:"owner_id"`
	Items     []WishlistItem `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// WishlistItem is one saved product, with the variant that was on screen when
// it was saved (nil when added from a listing without a variant choice).
type WishlistItem struct {
	ID      string           `json:"id"`
	Product ProductSnapshot  `json:"product"`
	Variant *VariantSnapshot `json:"variant,omitempty"`
	AddedAt time.Time        `json:"added_at"`
}

// Contains reports whether the product is wishlisted, regardless of variant.
func (w *Wishlist) Contains(productID string) bool {
	return w.indexOf(productID) >= 0
}

func (w *Wishlist) indexOf(productID string) int {
	for i := range w.Items {
		if w.Items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}
