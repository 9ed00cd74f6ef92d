package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v int64) *int64 { return &v }

// ============================================================================
// ResolvePrice precedence
// ============================================================================

func TestResolvePrice_WholesaleWins(t *testing.T) {
	p := &Product{NormalPrice: 1000, OfferPrice: price(800), WholesalePrice: price(600)}

	q := ResolvePrice(p, true)

	assert.Equal(t, int64(600), q.DisplayPrice)
	require.NotNil(t, q.OriginalPrice)
	assert.Equal(t, int64(800), *q.OriginalPrice)
	assert.Equal(t, PriceLabelWholesale, q.Label)
}

func TestResolvePrice_WholesaleWithoutOffer(t *testing.T) {
	p := &Product{NormalPrice: 1000, WholesalePrice: price(600)}

	q := ResolvePrice(p, true)

	assert.Equal(t, int64(600), q.DisplayPrice)
	require.NotNil(t, q.OriginalPrice)
	assert.Equal(t, int64(1000), *q.OriginalPrice)
	assert.Equal(t, PriceLabelWholesale, q.Label)
}

func TestResolvePrice_WholesaleRoleDoesNotGuaranteeDiscount(t *testing.T) {
	// A wholesale caller on a product without a wholesale price falls
	// through to the offer rule.
	p := &Product{NormalPrice: 1000, OfferPrice: price(800)}

	q := ResolvePrice(p, true)

	assert.Equal(t, int64(800), q.DisplayPrice)
	assert.Equal(t, PriceLabelOffer, q.Label)
}

func TestResolvePrice_Offer(t *testing.T) {
	p := &Product{NormalPrice: 1000, OfferPrice: price(800)}

	q := ResolvePrice(p, false)

	assert.Equal(t, int64(800), q.DisplayPrice)
	require.NotNil(t, q.OriginalPrice)
	assert.Equal(t, int64(1000), *q.OriginalPrice)
	assert.Equal(t, PriceLabelOffer, q.Label)
}

func TestResolvePrice_OfferNotBelowNormalIgnored(t *testing.T) {
	p := &Product{NormalPrice: 1000, OfferPrice: price(1000)}

	q := ResolvePrice(p, false)

	assert.Equal(t, int64(1000), q.DisplayPrice)
	assert.Nil(t, q.OriginalPrice)
	assert.Equal(t, PriceLabelNone, q.Label)
}

func TestResolvePrice_Fallback(t *testing.T) {
	p := &Product{NormalPrice: 1000}

	q := ResolvePrice(p, false)

	assert.Equal(t, int64(1000), q.DisplayPrice)
	assert.Nil(t, q.OriginalPrice)
	assert.Equal(t, PriceLabelNone, q.Label)
	assert.Zero(t, q.DiscountPercent)
}

func TestResolvePrice_MissingNormalPrice(t *testing.T) {
	q := ResolvePrice(&Product{}, false)

	assert.Equal(t, int64(0), q.DisplayPrice)
	assert.Nil(t, q.OriginalPrice)
}

// Retail caller sees the offer tier, wholesale caller sees the wholesale tier.
func TestResolvePrice_ThreeTierScenario(t *testing.T) {
	p := &Product{NormalPrice: 1000, OfferPrice: price(800), WholesalePrice: price(600)}

	retail := ResolvePrice(p, false)
	assert.Equal(t, int64(800), retail.DisplayPrice)
	require.NotNil(t, retail.OriginalPrice)
	assert.Equal(t, int64(1000), *retail.OriginalPrice)
	assert.Equal(t, PriceLabelOffer, retail.Label)

	wholesale := ResolvePrice(p, true)
	assert.Equal(t, int64(600), wholesale.DisplayPrice)
	require.NotNil(t, wholesale.OriginalPrice)
	assert.Equal(t, int64(800), *wholesale.OriginalPrice)
	assert.Equal(t, PriceLabelWholesale, wholesale.Label)
}

// ============================================================================
// Discount percent
// ============================================================================

func TestResolvePrice_DiscountPercent(t *testing.T) {
	p := &Product{NormalPrice: 1000, OfferPrice: price(800)}

	q := ResolvePrice(p, false)
	assert.Equal(t, 20, q.DiscountPercent)
}

func TestResolvePrice_DiscountPercentRounds(t *testing.T) {
	p := &Product{NormalPrice: 2999, OfferPrice: price(1999)}

	q := ResolvePrice(p, false)
	// (2999-1999)/2999 = 33.34%
	assert.Equal(t, 33, q.DiscountPercent)
}

func TestResolvePrice_NoDiscountWithoutOffer(t *testing.T) {
	p := &Product{NormalPrice: 1000, WholesalePrice: price(600)}

	q := ResolvePrice(p, true)
	assert.Zero(t, q.DiscountPercent)
}
