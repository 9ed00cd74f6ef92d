package domain

import "math"

// PriceLabel qualifies which price rule produced a quote.
type PriceLabel string

const (
	PriceLabelNone      PriceLabel = ""
	PriceLabelOffer     PriceLabel = "Offer"
	PriceLabelWholesale PriceLabel = "Wholesale"
)

// PriceQuote is the resolved display price for one product and one caller.
// OriginalPrice is nil when no reduced price applies.
type PriceQuote struct {
	DisplayPrice    int64      `json:"display_price"`
	OriginalPrice   *int64     `json:"original_price,omitempty"`
	Label           PriceLabel `json:"label"`
	DiscountPercent int        `json:"discount_percent,omitempty"`
}

// ResolvePrice maps a product's price fields to the price shown to a caller.
// Precedence, first match wins:
//
//  1. wholesale caller and wholesalePrice set: wholesale price, original is
//     offer price when set, otherwise normal price.
//  2. offerPrice set and strictly below normalPrice: offer price against normal.
//  3. normal price, no original.
//
// A missing normal price resolves to 0; the function never fails. A wholesale
// caller on a product without a wholesale price falls through to rules 2-3.
func ResolvePrice(p *Product, callerIsWholesale bool) PriceQuote {
	if callerIsWholesale && p.WholesalePrice != nil {
		original := p.NormalPrice
		if p.OfferPrice != nil {
			original = *p.OfferPrice
		}
		return PriceQuote{
			DisplayPrice:    *p.WholesalePrice,
			OriginalPrice:   &original,
			Label:           PriceLabelWholesale,
			DiscountPercent: discountPercent(p),
		}
	}

	if p.OfferPrice != nil && *p.OfferPrice < p.NormalPrice {
		original := p.NormalPrice
		return PriceQuote{
			DisplayPrice:    *p.OfferPrice,
			OriginalPrice:   &original,
			Label:           PriceLabelOffer,
			DiscountPercent: discountPercent(p),
		}
	}

	return PriceQuote{DisplayPrice: p.NormalPrice}
}

// discountPercent computes the offer discount against the normal price.
// Only defined when an offer price exists and the normal price is positive.
func discountPercent(p *Product) int {
	if p.OfferPrice == nil || p.NormalPrice <= 0 {
		return 0
	}
	return int(math.Round(float64(p.NormalPrice-*p.OfferPrice) / float64(p.NormalPrice) * 100))
}
