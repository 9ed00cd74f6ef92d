package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/solemart/storefront/internal/domain"
	apperrors "github.com/solemart/storefront/pkg/errors"
	"github.com/solemart/storefront/pkg/httpclient"
)

// CircuitOpenFallback is the fallback for the order API circuit breaker.
// When the circuit is open it returns a structured error with a retry hint
// instead of letting the raw ErrCircuitOpen propagate.
func CircuitOpenFallback(_ context.Context, _ error) (*http.Response, error) {
	return nil, apperrors.ServiceUnavailable("order service is temporarily unavailable, please retry after 30 seconds")
}

// HTTPDoer is the interface for executing HTTP requests. Both
// httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// StockReader provides live product data for the optional pre-checkout stock
// revalidation. The catalog client satisfies this.
type StockReader interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

// CheckoutResult is the backend's answer to a submitted cart.
type CheckoutResult struct {
	OrderID  string `json:"order_id"`
	Status   string `json:"status"`
	Subtotal int64  `json:"subtotal"`
	Currency string `json:"currency"`
}

// CheckoutService hands the cart to the backend order API. The storefront
// owns nothing past this point: on acceptance it clears the cart, publishes
// the initiated event, and returns the backend's order reference.
type CheckoutService struct {
	carts           *CartService
	catalog         StockReader
	httpClient      HTTPDoer
	publisher       EventPublisher
	logger          *slog.Logger
	orderAPIURL     string
	revalidateStock bool
}

// NewCheckoutService creates a checkout service. revalidateStock enables the
// pre-submission live stock check; it is off by default so checkout succeeds
// or fails on the backend's authority alone.
func NewCheckoutService(
	carts *CartService,
	catalog StockReader,
	httpClient HTTPDoer,
	publisher EventPublisher,
	logger *slog.Logger,
	orderAPIURL string,
	revalidateStock bool,
) *CheckoutService {
	return &CheckoutService{
		carts:           carts,
		catalog:         catalog,
		httpClient:      httpClient,
		publisher:       publisher,
		logger:          logger,
		orderAPIURL:     orderAPIURL,
		revalidateStock: revalidateStock,
	}
}

// orderRequest is the payload posted to the backend order API.
type orderRequest struct {
	UserID   string             `json:"user_id"`
	Currency string             `json:"currency"`
	Subtotal int64              `json:"subtotal"`
	Items    []orderRequestItem `json:"items"`
}

type orderRequestItem struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

type orderResponse struct {
	Data struct {
		OrderID string `json:"order_id"`
		ID      string `json:"id"`
		Status  string `json:"status"`
	} `json:"data"`
}

// Initiate submits the owner's cart to the order API. An empty cart is
// rejected. On acceptance the cart is cleared and the initiated event
// published; failures on either follow-up are logged, not returned, since
// the order already exists.
func (s *CheckoutService) Initiate(ctx context.Context, ownerID string) (*CheckoutResult, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("owner id is required")
	}

	cart, err := s.carts.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	if s.revalidateStock {
		if err := s.revalidate(ctx, cart); err != nil {
			return nil, err
		}
	}

	result, err := s.submit(ctx, cart)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, ownerID); err != nil {
		s.logger.ErrorContext(ctx, "order accepted but cart clear failed",
			slog.String("owner_id", ownerID),
			slog.String("order_id", result.OrderID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.publisher.PublishCheckoutInitiated(ctx, ownerID, result.OrderID, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish checkout.initiated event",
			slog.String("order_id", result.OrderID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "checkout initiated",
		slog.String("owner_id", ownerID),
		slog.String("order_id", result.OrderID),
		slog.Int64("subtotal", result.Subtotal),
	)

	return result, nil
}

// revalidate re-fetches live stock for each line and rejects quantities that
// exceed it. Products that vanished from the catalog also fail the check.
func (s *CheckoutService) revalidate(ctx context.Context, cart *domain.Cart) error {
	products := make(map[string]*domain.Product, len(cart.Items))

	for _, line := range cart.Items {
		product, ok := products[line.Product.ID]
		if !ok {
			var err error
			product, err = s.catalog.GetProduct(ctx, line.Product.ID)
			if err != nil {
				return fmt.Errorf("revalidate stock for product %s: %w", line.Product.ID, err)
			}
			products[line.Product.ID] = product
		}

		variant := product.VariantByID(line.Variant.ID)
		if variant == nil || variant.Stock < line.Quantity {
			return apperrors.OutOfStock(line.Product.ID, line.Variant.ID)
		}
	}

	return nil
}

func (s *CheckoutService) submit(ctx context.Context, cart *domain.Cart) (*CheckoutResult, error) {
	payload := orderRequest{
		UserID:   cart.OwnerID,
		Currency: cart.Currency,
		Subtotal: cart.Subtotal(),
		Items:    make([]orderRequestItem, len(cart.Items)),
	}
	for i, line := range cart.Items {
		payload.Items[i] = orderRequestItem{
			ProductID: line.Product.ID,
			VariantID: line.Variant.ID,
			Name:      line.Product.Name,
			SKU:       line.Variant.SKU,
			Price:     line.Variant.Price,
			Quantity:  line.Quantity,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.orderAPIURL+"/api/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "order")
	}

	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read order response: %w", err)
	}

	var parsed orderResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	orderID := parsed.Data.OrderID
	if orderID == "" {
		orderID = parsed.Data.ID
	}
	if orderID == "" {
		return nil, fmt.Errorf("order response missing order id")
	}

	status := parsed.Data.Status
	if status == "" {
		status = "initiated"
	}

	return &CheckoutResult{
		OrderID:  orderID,
		Status:   status,
		Subtotal: payload.Subtotal,
		Currency: payload.Currency,
	}, nil
}
