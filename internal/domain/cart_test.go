package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Cart.Subtotal
// ============================================================================

func TestSubtotal_SingleLine(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			{Variant: VariantSnapshot{Price: 1999}, Quantity: 2},
		},
	}
	assert.Equal(t, int64(3998), c.Subtotal())
}

func TestSubtotal_MultipleLines(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			{Variant: VariantSnapshot{Price: 1000}, Quantity: 2},
			{Variant: VariantSnapshot{Price: 500}, Quantity: 3},
			{Variant: VariantSnapshot{Price: 2500}, Quantity: 1},
		},
	}
	// 2000 + 1500 + 2500 = 6000
	assert.Equal(t, int64(6000), c.Subtotal())
}

func TestSubtotal_EmptyCart(t *testing.T) {
	c := &Cart{Items: []LineItem{}}
	assert.Equal(t, int64(0), c.Subtotal())
}

func TestSubtotal_NilItems(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, int64(0), c.Subtotal())
}

// ============================================================================
// Cart.ItemCount
// ============================================================================

func TestItemCount(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			{Quantity: 2},
			{Quantity: 3},
		},
	}
	assert.Equal(t, 5, c.ItemCount())
}

func TestItemCount_Empty(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, 0, c.ItemCount())
}

// ============================================================================
// Cart.FindLine / FindLineByID
// ============================================================================

func TestFindLine(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			{ID: "l-1", Product: ProductSnapshot{ID: "prod-1"}, Variant: VariantSnapshot{ID: "var-1"}},
			{ID: "l-2", Product: ProductSnapshot{ID: "prod-2"}, Variant: VariantSnapshot{ID: "var-2"}},
		},
	}
	assert.Equal(t, 0, c.FindLine("prod-1", "var-1"))
	assert.Equal(t, 1, c.FindLine("prod-2", "var-2"))
	assert.Equal(t, -1, c.FindLine("prod-1", "var-2"))
	assert.Equal(t, -1, c.FindLine("prod-9", "var-9"))
}

func TestFindLineByID(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			{ID: "l-1"},
			{ID: "l-2"},
		},
	}
	assert.Equal(t, 1, c.FindLineByID("l-2"))
	assert.Equal(t, -1, c.FindLineByID("l-9"))
}

// ============================================================================
// Wishlist.Contains
// ============================================================================

func TestWishlistContains_IgnoresVariant(t *testing.T) {
	w := &Wishlist{
		Items: []WishlistItem{
			{Product: ProductSnapshot{ID: "prod-1"}, Variant: &VariantSnapshot{ID: "var-1"}},
			{Product: ProductSnapshot{ID: "prod-2"}},
		},
	}
	assert.True(t, w.Contains("prod-1"))
	assert.True(t, w.Contains("prod-2"))
	assert.False(t, w.Contains("prod-3"))
}

// ============================================================================
// Variant helpers
// ============================================================================

func TestVariantPrimaryImage(t *testing.T) {
	v := Variant{Images: []VariantImage{
		{URL: "a.jpg"},
		{URL: "b.jpg", IsPrimary: true},
	}}
	assert.Equal(t, "b.jpg", v.PrimaryImage())

	v = Variant{Images: []VariantImage{{URL: "a.jpg"}}}
	assert.Equal(t, "a.jpg", v.PrimaryImage())

	v = Variant{}
	assert.Equal(t, PlaceholderImage, v.PrimaryImage())
}

func TestProductColors(t *testing.T) {
	p := shirtProduct()
	assert.Equal(t, []string{"Red", "Blue"}, p.Colors())
}

func TestProductImages_PlaceholderWhenEmpty(t *testing.T) {
	p := &Product{Variants: []Variant{{ID: "v-1"}}}
	assert.Equal(t, []string{PlaceholderImage}, p.Images())
}
