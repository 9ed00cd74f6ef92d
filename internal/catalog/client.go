package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/solemart/storefront/internal/domain"
	"github.com/solemart/storefront/pkg/httpclient"
	"github.com/solemart/storefront/pkg/pagination"
)

// maxResponseBytes caps how much of an upstream body is read.
const maxResponseBytes = 4 << 20

// HTTPDoer is the interface for executing HTTP requests. Both
// httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Category is a catalog category as listed by the backend.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Slider is a home page hero slide.
type Slider struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
	Link     string `json:"link"`
}

// ListFilter narrows a product listing.
type ListFilter struct {
	Category   string
	Search     string
	Featured   bool
	BestSeller bool
	NewArrival bool
}

// Client talks to the backend catalog API. All responses pass through the
// normalization boundary before leaving this package.
type Client struct {
	http    HTTPDoer
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a catalog client; baseURL is the backend API root
// without a trailing slash.
func NewClient(doer HTTPDoer, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    doer,
		baseURL: baseURL,
		logger:  logger,
	}
}

// ListProducts fetches a page of products, forwarding the filter and
// pagination to the backend. The returned total count falls back to the page
// length when the backend does not report one.
func (c *Client) ListProducts(ctx context.Context, filter ListFilter, page pagination.Params) ([]domain.Product, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page.Page))
	q.Set("per_page", strconv.Itoa(page.PerPage))
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Featured {
		q.Set("featured", "true")
	}
	if filter.BestSeller {
		q.Set("best_seller", "true")
	}
	if filter.NewArrival {
		q.Set("new_arrival", "true")
	}

	body, err := c.get(ctx, "/api/v1/products?"+q.Encode())
	if err != nil {
		return nil, 0, err
	}

	products, total, err := decodeProductList(body)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	if total == 0 {
		total = len(products)
	}
	return products, total, nil
}

// GetProduct fetches a single product by ID. A missing product surfaces as
// an AppError carrying 404, translated from the backend's error envelope.
func (c *Client) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	body, err := c.get(ctx, "/api/v1/products/"+url.PathEscape(productID))
	if err != nil {
		return nil, err
	}

	product, err := decodeProduct(body)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}
	return product, nil
}

// ListCategories fetches the category list for navigation.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	body, err := c.get(ctx, "/api/v1/categories")
	if err != nil {
		return nil, err
	}

	var env struct {
		Data []Category `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}

	var bare []Category
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, fmt.Errorf("list categories: unrecognized response shape: %w", err)
	}
	return bare, nil
}

// ListSliders fetches the home page hero slides.
func (c *Client) ListSliders(ctx context.Context) ([]Slider, error) {
	body, err := c.get(ctx, "/api/v1/sliders")
	if err != nil {
		return nil, err
	}

	var env struct {
		Data []Slider `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}

	var bare []Slider
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, fmt.Errorf("list sliders: unrecognized response shape: %w", err)
	}
	return bare, nil
}

// get performs a GET against the backend and returns the response body for
// 2xx responses. Error responses are translated via the shared envelope
// parser so upstream 404s keep their semantics.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("catalog request %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpclient.ParseResponseError(resp, "catalog")
	}

	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}
	return body, nil
}
