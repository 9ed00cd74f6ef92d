package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/solemart/storefront/internal/domain"
)

// wireProduct mirrors a product as the backend API serializes it. Fields the
// backend omits or nulls are normalized before the product reaches the rest
// of the app.
type wireProduct struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Category       string        `json:"category"`
	NormalPrice    *int64        `json:"normal_price"`
	OfferPrice     *int64        `json:"offer_price"`
	WholesalePrice *int64        `json:"wholesale_price"`
	Variants       []wireVariant `json:"variants"`
	AvgRating      float64       `json:"avg_rating"`
	TotalRatings   int           `json:"total_ratings"`
	Featured       bool          `json:"featured"`
	BestSeller     bool          `json:"is_best_seller"`
	NewArrival     bool          `json:"is_new_arrival"`
}

type wireVariant struct {
	ID     string      `json:"id"`
	Color  string      `json:"color"`
	Size   string      `json:"size"`
	Stock  int         `json:"stock"`
	SKU    string      `json:"sku"`
	Images []wireImage `json:"images"`
}

type wireImage struct {
	URL       string `json:"image_url"`
	IsPrimary bool   `json:"is_primary"`
}

// productEnvelope matches the two enveloped list shapes the backend is known
// to emit: {"data":{"products":[...],"total_count":N}} and {"data":[...]}.
type productEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type productListData struct {
	Products   []wireProduct `json:"products"`
	TotalCount int           `json:"total_count"`
}

// decodeProductList parses a product list response in any of the accepted
// wire shapes and returns the normalized products plus the total count when
// the envelope reports one (zero means "not reported"). Any other shape is an
// error; callers never branch on response shape themselves.
func decodeProductList(body []byte) ([]domain.Product, int, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, 0, fmt.Errorf("empty product list response")
	}

	// Bare array.
	if body[0] == '[' {
		var wire []wireProduct
		if err := json.Unmarshal(body, &wire); err != nil {
			return nil, 0, fmt.Errorf("decode product array: %w", err)
		}
		return normalizeProducts(wire), 0, nil
	}

	var env productEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, 0, fmt.Errorf("decode product envelope: %w", err)
	}
	if len(env.Data) == 0 {
		return nil, 0, fmt.Errorf("unrecognized product list shape: missing data field")
	}

	data := bytes.TrimSpace(env.Data)
	switch data[0] {
	case '[':
		// {"data":[...]}
		var wire []wireProduct
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, 0, fmt.Errorf("decode product array in envelope: %w", err)
		}
		return normalizeProducts(wire), 0, nil
	case '{':
		// {"data":{"products":[...]}}
		var listData productListData
		if err := json.Unmarshal(data, &listData); err != nil {
			return nil, 0, fmt.Errorf("decode product list data: %w", err)
		}
		if listData.Products == nil {
			return nil, 0, fmt.Errorf("unrecognized product list shape: data object without products")
		}
		return normalizeProducts(listData.Products), listData.TotalCount, nil
	default:
		return nil, 0, fmt.Errorf("unrecognized product list shape")
	}
}

// decodeProduct parses a single-product response, enveloped or bare.
func decodeProduct(body []byte) (*domain.Product, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, fmt.Errorf("unrecognized product shape")
	}

	var env productEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}

	raw := body
	if len(env.Data) > 0 {
		raw = bytes.TrimSpace(env.Data)
		if len(raw) == 0 || raw[0] != '{' {
			return nil, fmt.Errorf("unrecognized product shape in envelope")
		}
	}

	var wire wireProduct
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("decode product body: %w", err)
	}
	if wire.ID == "" {
		return nil, fmt.Errorf("product response missing id")
	}

	p := normalizeProduct(wire)
	return &p, nil
}

func normalizeProducts(wire []wireProduct) []domain.Product {
	out := make([]domain.Product, 0, len(wire))
	for _, wp := range wire {
		out = append(out, normalizeProduct(wp))
	}
	return out
}

// normalizeProduct applies the fallbacks once, at the boundary:
// missing category becomes "Uncategorized", missing prices become 0, and
// image fallbacks are left to the domain accessors.
func normalizeProduct(wp wireProduct) domain.Product {
	p := domain.Product{
		ID:             wp.ID,
		Name:           wp.Name,
		Description:    wp.Description,
		Category:       wp.Category,
		OfferPrice:     wp.OfferPrice,
		WholesalePrice: wp.WholesalePrice,
		AvgRating:      wp.AvgRating,
		TotalRatings:   wp.TotalRatings,
		Featured:       wp.Featured,
		BestSeller:     wp.BestSeller,
		NewArrival:     wp.NewArrival,
	}

	if wp.NormalPrice != nil {
		p.NormalPrice = *wp.NormalPrice
	}
	if p.Category == "" {
		p.Category = domain.UncategorizedLabel
	}

	p.Variants = make([]domain.Variant, 0, len(wp.Variants))
	for _, wv := range wp.Variants {
		v := domain.Variant{
			ID:    wv.ID,
			Color: wv.Color,
			Size:  wv.Size,
			Stock: wv.Stock,
			SKU:   wv.SKU,
		}
		if wv.Stock < 0 {
			v.Stock = 0
		}
		for _, wi := range wv.Images {
			if wi.URL == "" {
				continue
			}
			v.Images = append(v.Images, domain.VariantImage{URL: wi.URL, IsPrimary: wi.IsPrimary})
		}
		p.Variants = append(p.Variants, v)
	}

	return p
}
