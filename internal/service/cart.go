package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/solemart/storefront/internal/domain"
	"github.com/solemart/storefront/internal/repository"
	apperrors "github.com/solemart/storefront/pkg/errors"
)

// DefaultCurrency is used for carts until the backend quotes another one.
const DefaultCurrency = "USD"

// EventPublisher is the port for emitting domain events. Implementations
// must be safe for concurrent use; publish failures are logged by callers
// and never fail the user-facing operation.
type EventPublisher interface {
	PublishCartUpdated(ctx context.Context, cart *domain.Cart) error
	PublishCartCleared(ctx context.Context, ownerID string) error
	PublishWishlistUpdated(ctx context.Context, wishlist *domain.Wishlist) error
	PublishCheckoutInitiated(ctx context.Context, ownerID, orderID string, cart *domain.Cart) error
}

// CartService owns cart state for both authenticated users and guest
// sessions. Every mutation persists the whole cart synchronously before
// returning; an unreadable stored cart degrades to a fresh empty one.
type CartService struct {
	repo      repository.CartRepository
	publisher EventPublisher
	logger    *slog.Logger
}

// NewCartService creates a cart service.
func NewCartService(repo repository.CartRepository, publisher EventPublisher, logger *slog.Logger) *CartService {
	return &CartService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Get returns the owner's cart, or a fresh empty cart when none is stored.
// The fresh cart is not persisted until the first mutation.
func (s *CartService) Get(ctx context.Context, ownerID string) (*domain.Cart, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("owner id is required")
	}

	cart, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.DebugContext(ctx, "no stored cart, starting fresh",
				slog.String("owner_id", ownerID),
			)
			return s.newCart(ownerID), nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart, nil
}

// AddItem adds the variant to the cart, merging into an existing line with
// the same (product, variant) identity. Quantity below 1 is coerced to 1 and
// the resulting line quantity is clamped to the stock observed now. Price is
// the display price already resolved for this caller.
func (s *CartService) AddItem(ctx context.Context, ownerID string, product *domain.Product, variant *domain.Variant, quantity int, price int64) (*domain.Cart, error) {
	if product == nil || variant == nil {
		return nil, apperrors.InvalidInput("product and variant are required")
	}
	if quantity < 1 {
		quantity = 1
	}

	cart, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if idx := cart.FindLine(product.ID, variant.ID); idx >= 0 {
		line := &cart.Items[idx]
		line.Quantity += quantity
		if line.Variant.Stock > 0 && line.Quantity > line.Variant.Stock {
			line.Quantity = line.Variant.Stock
		}
	} else {
		if variant.Stock > 0 && quantity > variant.Stock {
			quantity = variant.Stock
		}
		cart.Items = append(cart.Items, domain.LineItem{
			ID:       uuid.New().String(),
			Product:  snapshotProduct(product),
			Variant:  snapshotVariant(variant, price),
			Quantity: quantity,
		})
	}

	return s.persist(ctx, cart)
}

// UpdateQuantity sets a line's quantity directly, without re-checking stock.
// A quantity below 1 removes the line. An unknown line ID is a not-found
// error, unlike removal, because the caller named a line it expects to exist.
func (s *CartService) UpdateQuantity(ctx context.Context, ownerID, lineID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return s.RemoveLine(ctx, ownerID, lineID)
	}

	cart, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindLineByID(lineID)
	if idx < 0 {
		return nil, apperrors.NotFound("cart line", lineID)
	}
	cart.Items[idx].Quantity = quantity

	return s.persist(ctx, cart)
}

// RemoveLine removes a line unconditionally. Removing an absent line is not
// an error; the cart is returned unchanged.
func (s *CartService) RemoveLine(ctx context.Context, ownerID, lineID string) (*domain.Cart, error) {
	cart, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindLineByID(lineID)
	if idx < 0 {
		return cart, nil
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)

	return s.persist(ctx, cart)
}

// Clear empties the cart and erases the persisted key.
func (s *CartService) Clear(ctx context.Context, ownerID string) error {
	if ownerID == "" {
		return apperrors.InvalidInput("owner id is required")
	}

	if err := s.repo.Delete(ctx, ownerID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err := s.publisher.PublishCartCleared(ctx, ownerID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("owner_id", ownerID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared", slog.String("owner_id", ownerID))
	return nil
}

// persist saves the cart and publishes the update event.
func (s *CartService) persist(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	cart.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	if err := s.publisher.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("cart_id", cart.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart persisted",
		slog.String("cart_id", cart.ID),
		slog.String("owner_id", cart.OwnerID),
		slog.Int("item_count", cart.ItemCount()),
		slog.Int64("subtotal", cart.Subtotal()),
	)

	return cart, nil
}

func (s *CartService) newCart(ownerID string) *domain.Cart {
	now := time.Now().UTC()
	return &domain.Cart{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Items:     []domain.LineItem{},
		Currency:  DefaultCurrency,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func snapshotProduct(p *domain.Product) domain.ProductSnapshot {
	return domain.ProductSnapshot{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Category:       p.Category,
		Images:         p.Images(),
		NormalPrice:    p.NormalPrice,
		OfferPrice:     p.OfferPrice,
		WholesalePrice: p.WholesalePrice,
	}
}

func snapshotVariant(v *domain.Variant, price int64) domain.VariantSnapshot {
	return domain.VariantSnapshot{
		ID:    v.ID,
		Color: v.Color,
		Size:  v.Size,
		Price: price,
		Stock: v.Stock,
		SKU:   v.SKU,
	}
}
