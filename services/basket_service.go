package services

import (
	"context"

	apperrors "heritage-backend/common/errors"
	"heritage-backend/models"
	"heritage-backend/repository"
)

// BasketService stores client carts in Redis. Prices in a saved basket are
// re-read from the catalog on save so a stale client cannot undercharge
// itself.
type BasketService struct {
	baskets  repository.BasketRepository
	products repository.ProductRepository
}

func NewBasketService(baskets repository.BasketRepository, products repository.ProductRepository) *BasketService {
	return &BasketService{baskets: baskets, products: products}
}

// Get returns the basket for an id, or an empty basket when none exists.
func (s *BasketService) Get(ctx context.Context, basketID string) (*models.Basket, error) {
	if basketID == "" {
		return nil, apperrors.Validation("basket id is required")
	}
	basket, err := s.baskets.Get(ctx, basketID)
	if err != nil {
		return nil, err
	}
	if basket == nil {
		return &models.Basket{ID: basketID, Items: []models.BasketItem{}}, nil
	}
	return basket, nil
}

// Save replaces the basket contents. Every line is validated against the
// live catalog: the product must exist, be ACTIVE, and the stored price and
// name come from the catalog, not the client.
func (s *BasketService) Save(ctx context.Context, basket *models.Basket) (*models.Basket, error) {
	if basket.ID == "" {
		return nil, apperrors.Validation("basket id is required")
	}

	validated := make([]models.BasketItem, 0, len(basket.Items))
	for _, item := range basket.Items {
		if item.Quantity <= 0 {
			return nil, apperrors.Validation("item quantity must be positive")
		}
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Status != models.ProductActive {
			return nil, apperrors.Validation("product " + product.Name + " is not available")
		}
		validated = append(validated, models.BasketItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.Price,
			Quantity:    item.Quantity,
			PictureURL:  product.PictureURL,
		})
	}

	basket.Items = validated
	if err := s.baskets.Save(ctx, basket); err != nil {
		return nil, err
	}
	return basket, nil
}

// Delete removes a basket, typically after checkout.
func (s *BasketService) Delete(ctx context.Context, basketID string) error {
	if basketID == "" {
		return apperrors.Validation("basket id is required")
	}
	return s.baskets.Delete(ctx, basketID)
}
