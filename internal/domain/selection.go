package domain

// Selection is the variant picker state for a single product view: a chosen
// color and size, the variant they resolve to, and a desired quantity.
// The zero value is not useful; build one with NewSelection.
type Selection struct {
	product  *Product
	Color    string   `json:"color"`
	Size     string   `json:"size"`
	Variant  *Variant `json:"variant"`
	Quantity int      `json:"quantity"`
}

// NewSelection builds the default selection for a product: the first variant
// with stock, or the first variant at all when everything is sold out (so a
// sold-out product still renders with a default, shown as unavailable).
// Products without variants yield a selection with a nil Variant.
func NewSelection(p *Product) Selection {
	s := Selection{product: p, Quantity: 1}
	if len(p.Variants) == 0 {
		return s
	}

	chosen := &p.Variants[0]
	for i := range p.Variants {
		if p.Variants[i].Purchasable() {
			chosen = &p.Variants[i]
			break
		}
	}
	s.setVariant(chosen)
	return s
}

// SelectColor switches to the given color, picking the first in-stock variant
// of that color (or the first of that color when all are sold out). The size
// follows the picked variant. An unknown color leaves the selection unchanged.
func (s *Selection) SelectColor(color string) {
	candidates := s.product.VariantsOfColor(color)
	if len(candidates) == 0 {
		return
	}

	chosen := candidates[0]
	for _, v := range candidates {
		if v.Purchasable() {
			chosen = v
			break
		}
	}
	// Re-resolve against the product slice so Variant points into the product,
	// not at a local copy.
	s.setVariant(s.product.VariantByID(chosen.ID))
}

// SelectSize picks the exact (current color, size) variant. It reports false
// and leaves the state untouched when the size does not exist under the
// current color or the variant has no stock. Disabling sold-out size controls
// is the UI's job; this re-check is the last line of defense.
func (s *Selection) SelectSize(size string) bool {
	for _, v := range s.product.VariantsOfColor(s.Color) {
		if v.Size != size {
			continue
		}
		if !v.Purchasable() {
			return false
		}
		s.setVariant(s.product.VariantByID(v.ID))
		return true
	}
	return false
}

// ChangeQuantity adjusts the desired quantity by delta. Results outside
// [1, variant stock] are ignored rather than clamped, matching stepper
// controls that simply stop at the bounds.
func (s *Selection) ChangeQuantity(delta int) {
	if s.Variant == nil {
		return
	}
	next := s.Quantity + delta
	if next < 1 || next > s.Variant.Stock {
		return
	}
	s.Quantity = next
}

// setVariant updates the resolved variant and the color/size shown for it,
// resetting quantity when it would exceed the new variant's stock.
func (s *Selection) setVariant(v *Variant) {
	if v == nil {
		return
	}
	s.Variant = v
	s.Color = v.Color
	s.Size = v.Size
	if s.Quantity < 1 || (v.Stock > 0 && s.Quantity > v.Stock) {
		s.Quantity = 1
	}
}
