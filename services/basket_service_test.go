package services

import (
	"context"
	"testing"
	"time"

	apperrors "heritage-backend/common/errors"
	"heritage-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBasketRepo struct {
	baskets map[string]*models.Basket
}

func newFakeBasketRepo() *fakeBasketRepo {
	return &fakeBasketRepo{baskets: make(map[string]*models.Basket)}
}

func (r *fakeBasketRepo) Get(ctx context.Context, basketID string) (*models.Basket, error) {
	b, ok := r.baskets[basketID]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBasketRepo) Save(ctx context.Context, basket *models.Basket) error {
	basket.UpdatedAt = time.Now()
	cp := *basket
	r.baskets[basket.ID] = &cp
	return nil
}

func (r *fakeBasketRepo) Delete(ctx context.Context, basketID string) error {
	delete(r.baskets, basketID)
	return nil
}

func newBasketFixture() (*BasketService, *fakeProductRepo) {
	products := newFakeProductRepo()
	return NewBasketService(newFakeBasketRepo(), products), products
}

func TestBasketGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBasketFixture()

	t.Run("missing basket comes back empty", func(t *testing.T) {
		basket, err := svc.Get(ctx, "cart-1")
		require.NoError(t, err)
		assert.Equal(t, "cart-1", basket.ID)
		assert.Empty(t, basket.Items)
	})

	t.Run("blank id is rejected", func(t *testing.T) {
		_, err := svc.Get(ctx, "")
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestBasketSave(t *testing.T) {
	ctx := context.Background()

	t.Run("prices come from the catalog, not the client", func(t *testing.T) {
		svc, products := newBasketFixture()
		products.put(&models.Product{ID: 1, Name: "Painting", Price: 250000, Quantity: 5, Status: models.ProductActive})

		saved, err := svc.Save(ctx, &models.Basket{
			ID: "cart-1",
			Items: []models.BasketItem{
				{ProductID: 1, ProductName: "hacked", Price: 1, Quantity: 2},
			},
		})
		require.NoError(t, err)

		require.Len(t, saved.Items, 1)
		assert.Equal(t, int64(250000), saved.Items[0].Price)
		assert.Equal(t, "Painting", saved.Items[0].ProductName)
		assert.Equal(t, int64(500000), saved.Total())
	})

	t.Run("inactive product is rejected", func(t *testing.T) {
		svc, products := newBasketFixture()
		products.put(&models.Product{ID: 1, Name: "Retired", Price: 100, Quantity: 5, Status: models.ProductInactive})

		_, err := svc.Save(ctx, &models.Basket{
			ID:    "cart-1",
			Items: []models.BasketItem{{ProductID: 1, Quantity: 1}},
		})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("unknown product is rejected", func(t *testing.T) {
		svc, _ := newBasketFixture()
		_, err := svc.Save(ctx, &models.Basket{
			ID:    "cart-1",
			Items: []models.BasketItem{{ProductID: 99, Quantity: 1}},
		})
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("non-positive quantity is rejected", func(t *testing.T) {
		svc, products := newBasketFixture()
		products.put(&models.Product{ID: 1, Name: "Painting", Price: 100, Quantity: 5, Status: models.ProductActive})

		_, err := svc.Save(ctx, &models.Basket{
			ID:    "cart-1",
			Items: []models.BasketItem{{ProductID: 1, Quantity: 0}},
		})
		assert.True(t, apperrors.IsValidation(err))
	})
}
