package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solemart/storefront/internal/domain"
	apperrors "github.com/solemart/storefront/pkg/errors"
)

func sampleWishlist(ownerID string) *domain.Wishlist {
	now := time.Now().UTC().Truncate(time.Second)
	variant := domain.VariantSnapshot{ID: "v-1", Color: "Blue", Size: "M", SKU: "LS-BL-M"}
	return &domain.Wishlist{
		ID:      "wl-" + ownerID,
		OwnerID: ownerID,
		Items: []domain.WishlistItem{
			{
				ID:      "item-1",
				Product: domain.ProductSnapshot{ID: "p-1", Name: "Linen Shirt"},
				Variant: &variant,
				AddedAt: now,
			},
			{
				ID:      "item-2",
				Product: domain.ProductSnapshot{ID: "p-2", Name: "Wool Scarf"},
				AddedAt: now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestWishlistRepository_SaveAndGet(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewWishlistRepository(client)

	wl := sampleWishlist("owner-1")
	require.NoError(t, repo.Save(context.Background(), wl))

	got, err := repo.Get(context.Background(), "owner-1")
	require.NoError(t, err)

	require.Len(t, got.Items, 2)
	assert.True(t, got.Contains("p-1"))
	assert.True(t, got.Contains("p-2"))
	require.NotNil(t, got.Items[0].Variant)
	assert.Equal(t, "v-1", got.Items[0].Variant.ID)
	assert.Nil(t, got.Items[1].Variant)
}

func TestWishlistRepository_NoExpiry(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewWishlistRepository(client)

	require.NoError(t, repo.Save(context.Background(), sampleWishlist("owner-1")))
	assert.Zero(t, mr.TTL("storefront:wishlist:owner-1"))
}

func TestWishlistRepository_GetAbsent(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewWishlistRepository(client)

	_, err := repo.Get(context.Background(), "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWishlistRepository_MalformedDataDegradesToAbsent(t *testing.T) {
	mr, client := newTestRedis(t)
	repo := NewWishlistRepository(client)

	require.NoError(t, mr.Set("storefront:wishlist:owner-1", "[[["))

	_, err := repo.Get(context.Background(), "owner-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWishlistRepository_Delete(t *testing.T) {
	_, client := newTestRedis(t)
	repo := NewWishlistRepository(client)

	require.NoError(t, repo.Save(context.Background(), sampleWishlist("owner-1")))
	require.NoError(t, repo.Delete(context.Background(), "owner-1"))

	_, err := repo.Get(context.Background(), "owner-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
