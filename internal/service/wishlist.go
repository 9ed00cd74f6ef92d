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

// WishlistService owns wishlist state. Membership is by product only; the
// saved variant is whatever was on screen when the product was added.
type WishlistService struct {
	repo      repository.WishlistRepository
	publisher EventPublisher
	logger    *slog.Logger
}

// NewWishlistService creates a wishlist service.
func NewWishlistService(repo repository.WishlistRepository, publisher EventPublisher, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Get returns the owner's wishlist, or a fresh empty one when none is stored.
func (s *WishlistService) Get(ctx context.Context, ownerID string) (*domain.Wishlist, error) {
	if ownerID == "" {
		return nil, apperrors.InvalidInput("owner id is required")
	}

	wishlist, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return s.newWishlist(ownerID), nil
		}
		return nil, fmt.Errorf("load wishlist: %w", err)
	}
	return wishlist, nil
}

// Add saves the product to the wishlist. Adding a product that is already
// present is a no-op regardless of variant.
func (s *WishlistService) Add(ctx context.Context, ownerID string, product *domain.Product, variant *domain.Variant) (*domain.Wishlist, error) {
	if product == nil {
		return nil, apperrors.InvalidInput("product is required")
	}

	wishlist, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if wishlist.Contains(product.ID) {
		return wishlist, nil
	}

	item := domain.WishlistItem{
		ID:      uuid.New().String(),
		Product: snapshotProduct(product),
		AddedAt: time.Now().UTC(),
	}
	if variant != nil {
		snap := snapshotVariant(variant, 0)
		item.Variant = &snap
	}
	wishlist.Items = append(wishlist.Items, item)

	return s.persist(ctx, wishlist)
}

// Remove deletes the product from the wishlist by product ID. Removing an
// absent product is not an error.
func (s *WishlistService) Remove(ctx context.Context, ownerID, productID string) (*domain.Wishlist, error) {
	wishlist, err := s.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	kept := wishlist.Items[:0]
	removed := false
	for _, item := range wishlist.Items {
		if item.Product.ID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	if !removed {
		return wishlist, nil
	}
	wishlist.Items = kept

	return s.persist(ctx, wishlist)
}

func (s *WishlistService) persist(ctx context.Context, wishlist *domain.Wishlist) (*domain.Wishlist, error) {
	wishlist.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, wishlist); err != nil {
		return nil, fmt.Errorf("save wishlist: %w", err)
	}

	if err := s.publisher.PublishWishlistUpdated(ctx, wishlist); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.String("wishlist_id", wishlist.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "wishlist persisted",
		slog.String("wishlist_id", wishlist.ID),
		slog.String("owner_id", wishlist.OwnerID),
		slog.Int("items", len(wishlist.Items)),
	)

	return wishlist, nil
}

func (s *WishlistService) newWishlist(ownerID string) *domain.Wishlist {
	now := time.Now().UTC()
	return &domain.Wishlist{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Items:     []domain.WishlistItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
