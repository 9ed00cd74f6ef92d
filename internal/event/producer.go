package event

import (
	"context"
	"fmt"
	"time"

	"github.com/solemart/storefront/internal/domain"
	"github.com/solemart/storefront/pkg/kafka"
	"github.com/solemart/storefront/pkg/logger"
)

// Topics published by the storefront.
const (
	TopicCartUpdated       = "storefront.cart.updated"
	TopicCartCleared       = "storefront.cart.cleared"
	TopicWishlistUpdated   = "storefront.wishlist.updated"
	TopicCheckoutInitiated = "storefront.checkout.initiated"
)

const source = "storefront"

// Publisher is the interface for the underlying Kafka producer, satisfied by
// kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Producer publishes storefront domain events in the platform envelope.
type Producer struct {
	publisher Publisher
}

// NewProducer creates an event producer on top of a Kafka publisher.
func NewProducer(publisher Publisher) *Producer {
	return &Producer{publisher: publisher}
}

// CartUpdatedPayload is the data payload for cart.updated events.
type CartUpdatedPayload struct {
	CartID    string    `json:"cart_id"`
	OwnerID   string    `json:"owner_id"`
	ItemCount int       `json:"item_count"`
	Subtotal  int64     `json:"subtotal"`
	Currency  string    `json:"currency"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartClearedPayload is the data payload for cart.cleared events.
type CartClearedPayload struct {
	OwnerID   string    `json:"owner_id"`
	ClearedAt time.Time `json:"cleared_at"`
}

// WishlistUpdatedPayload is the data payload for wishlist.updated events.
type WishlistUpdatedPayload struct {
	WishlistID string    `json:"wishlist_id"`
	OwnerID    string    `json:"owner_id"`
	ProductIDs []string  `json:"product_ids"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CheckoutInitiatedPayload is the data payload for checkout.initiated events.
type CheckoutInitiatedPayload struct {
	OrderID   string `json:"order_id"`
	OwnerID   string `json:"owner_id"`
	ItemCount int    `json:"item_count"`
	Subtotal  int64  `json:"subtotal"`
	Currency  string `json:"currency"`
}

// PublishCartUpdated emits a cart.updated event keyed by the cart ID.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	payload := CartUpdatedPayload{
		CartID:    cart.ID,
		OwnerID:   cart.OwnerID,
		ItemCount: cart.ItemCount(),
		Subtotal:  cart.Subtotal(),
		Currency:  cart.Currency,
		UpdatedAt: cart.UpdatedAt,
	}
	return p.publish(ctx, TopicCartUpdated, cart.ID, "cart", payload)
}

// PublishCartCleared emits a cart.cleared event keyed by the owner ID, since
// the cart itself no longer exists.
func (p *Producer) PublishCartCleared(ctx context.Context, ownerID string) error {
	payload := CartClearedPayload{
		OwnerID:   ownerID,
		ClearedAt: time.Now().UTC(),
	}
	return p.publish(ctx, TopicCartCleared, ownerID, "cart", payload)
}

// PublishWishlistUpdated emits a wishlist.updated event keyed by the wishlist ID.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, wishlist *domain.Wishlist) error {
	productIDs := make([]string, len(wishlist.Items))
	for i, item := range wishlist.Items {
		productIDs[i] = item.Product.ID
	}
	payload := WishlistUpdatedPayload{
		WishlistID: wishlist.ID,
		OwnerID:    wishlist.OwnerID,
		ProductIDs: productIDs,
		UpdatedAt:  wishlist.UpdatedAt,
	}
	return p.publish(ctx, TopicWishlistUpdated, wishlist.ID, "wishlist", payload)
}

// PublishCheckoutInitiated emits a checkout.initiated event keyed by the order ID.
func (p *Producer) PublishCheckoutInitiated(ctx context.Context, ownerID, orderID string, cart *domain.Cart) error {
	payload := CheckoutInitiatedPayload{
		OrderID:   orderID,
		OwnerID:   ownerID,
		ItemCount: cart.ItemCount(),
		Subtotal:  cart.Subtotal(),
		Currency:  cart.Currency,
	}
	return p.publish(ctx, TopicCheckoutInitiated, orderID, "checkout", payload)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, payload any) error {
	evt, err := kafka.NewEvent(topic, aggregateID, aggregateType, source, payload)
	if err != nil {
		return fmt.Errorf("build %s event: %w", topic, err)
	}
	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		evt.WithCorrelationID(correlationID)
	}
	if err := p.publisher.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}
