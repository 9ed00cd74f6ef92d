package domain

// PlaceholderImage is served when a product or variant carries no images.
const PlaceholderImage = "/assets/placeholder-product.png"

// UncategorizedLabel is the category shown for products without one.
const UncategorizedLabel = "Uncategorized"

// Product is the canonical catalog product as seen by the storefront.
// Instances are produced exclusively by the catalog normalization boundary;
// all fallbacks (missing prices, images, category) have already
// been applied by the time a Product exists.
type Product struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	NormalPrice    int64     `json:"normal_price"`
	OfferPrice     *int64    `json:"offer_price,omitempty"`
	WholesalePrice *int64    `json:"wholesale_price,omitempty"`
	Variants       []Variant `json:"variants"`
	AvgRating      float64   `json:"avg_rating"`
	TotalRatings   int       `json:"total_ratings"`
	Featured       bool      `json:"featured"`
	BestSeller     bool      `json:"is_best_seller"`
	NewArrival     bool      `json:"is_new_arrival"`
}

// Variant is a purchasable color/size combination with its own stock and SKU.
// Identity is (product ID, variant ID); color and size are descriptive only.
type Variant struct {
	ID     string         `json:"id"`
	Color  string         `json:"color"`
	Size   string         `json:"size"`
	Stock  int            `json:"stock"`
	SKU    string         `json:"sku"`
	Images []VariantImage `json:"images,omitempty"`
}

// VariantImage is a single image attached to a variant.
type VariantImage struct {
	URL       string `json:"image_url"`
	IsPrimary bool   `json:"is_primary"`
}

// Purchasable reports whether the variant can currently be added to a cart.
func (v Variant) Purchasable() bool {
	return v.Stock > 0
}

// PrimaryImage returns the variant's primary image URL, falling back to the
// first image and then to the placeholder.
func (v Variant) PrimaryImage() string {
	for _, img := range v.Images {
		if img.IsPrimary && img.URL != "" {
			return img.URL
		}
	}
	if len(v.Images) > 0 && v.Images[0].URL != "" {
		return v.Images[0].URL
	}
	return PlaceholderImage
}

// VariantByID returns the variant with the given ID, or nil if the product
// has no such variant.
func (p *Product) VariantByID(variantID string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}

// Colors returns the distinct variant colors in declaration order.
func (p *Product) Colors() []string {
	seen := make(map[string]struct{}, len(p.Variants))
	var colors []string
	for _, v := range p.Variants {
		if _, ok := seen[v.Color]; ok {
			continue
		}
		seen[v.Color] = struct{}{}
		colors = append(colors, v.Color)
	}
	return colors
}

// VariantsOfColor returns the variants matching the given color, preserving order.
func (p *Product) VariantsOfColor(color string) []Variant {
	var out []Variant
	for _, v := range p.Variants {
		if v.Color == color {
			out = append(out, v)
		}
	}
	return out
}

// Images returns the product gallery: every variant image in variant order,
// or the placeholder when no variant carries an image.
func (p *Product) Images() []string {
	var urls []string
	for _, v := range p.Variants {
		for _, img := range v.Images {
			if img.URL != "" {
				urls = append(urls, img.URL)
			}
		}
	}
	if len(urls) == 0 {
		return []string{PlaceholderImage}
	}
	return urls
}
