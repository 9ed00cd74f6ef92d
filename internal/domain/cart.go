package domain

import "time"

// Cart is the persisted shopping cart for one owner (user or guest session).
// Line items keep their insertion order for display.
type Cart struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Items     []LineItem `json:"items"`
	Currency  string     `json:"currency"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// LineItem is one cart entry, uniquely keyed by (product ID, variant ID).
// Product and variant data are denormalized snapshots taken at add time so
// the cart renders without re-fetching the catalog.
type LineItem struct {
	ID       string          `json:"id"`
	Product  ProductSnapshot `json:"product"`
	Variant  VariantSnapshot `json:"variant"`
	Quantity int             `json:"quantity"`
}

// ProductSnapshot is the product data captured when a line item is created.
type ProductSnapshot struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	Images         []string `json:"images"`
	NormalPrice    int64    `json:"normal_price"`
	OfferPrice     *int64   `json:"offer_price,omitempty"`
	WholesalePrice *int64   `json:"wholesale_price,omitempty"`
}

// VariantSnapshot is the variant data captured when a line item is created.
// Price is the resolved display price for the caller at add time; Stock is
// the stock observed at add time and is not re-validated afterwards.
type VariantSnapshot struct {
	ID    string `json:"id"`
	Color string `json:"color"`
	Size  string `json:"size"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
	SKU   string `json:"sku"`
}

// Subtotal is the sum of price-at-add times quantity across all lines.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Variant.Price * int64(item.Quantity)
	}
	return total
}

// ItemCount returns the total quantity across all line items.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindLine returns the index of the line item matching the product and
// variant identity, or -1. Merge-by-identity is built on this lookup.
func (c *Cart) FindLine(productID, variantID string) int {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID && c.Items[i].Variant.ID == variantID {
			return i
		}
	}
	return -1
}

// FindLineByID returns the index of the line item with the given line ID, or -1.
func (c *Cart) FindLineByID(lineID string) int {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			return i
		}
	}
	return -1
}
