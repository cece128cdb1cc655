package repository

import (
	"context"
	"errors"
	"fmt"

	apperrors "heritage-backend/common/errors"
	"heritage-backend/models"

	"gorm.io/gorm"
)

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindActive(ctx context.Context, page, limit int) ([]models.Product, int64, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	SearchActiveByKeyword(ctx context.Context, keyword string) ([]models.Product, error)
	FindActiveByType(ctx context.Context, typeID uint) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uint) error
	DeleteAll(ctx context.Context) error
	// DecrementQuantity subtracts qty from the product's stock in a single
	// conditional UPDATE. It returns a Conflict error when the remaining
	// stock is insufficient, without mutating the row.
	DecrementQuantity(ctx context.Context, id uint, qty int) error
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Type").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindActive(ctx context.Context, page, limit int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("status = ?", models.ProductActive)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Type").
		Offset(offset).
		Limit(limit).
		Order("id ASC").
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *GormProductRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Preload("Type").Order("id ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) SearchActiveByKeyword(ctx context.Context, keyword string) ([]models.Product, error) {
	var products []models.Product
	pattern := "%" + keyword + "%"
	if err := r.db.WithContext(ctx).
		Preload("Type").
		Where("status = ?", models.ProductActive).
		Where("name ILIKE ? OR description ILIKE ?", pattern, pattern).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) FindActiveByType(ctx context.Context, typeID uint) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Preload("Type").
		Where("status = ? AND type_id = ?", models.ProductActive, typeID).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *GormProductRepository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *GormProductRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}

func (r *GormProductRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Product{}).Error
}

func (r *GormProductRepository) DecrementQuantity(ctx context.Context, id uint, qty int) error {
	// The quantity >= qty guard makes concurrent confirmations safe: two
	// racing decrements of the last unit cannot both match the row.
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Count(&count).Error; err == nil && count == 0 {
			return apperrors.NotFound("product", id)
		}
		return apperrors.Conflict(fmt.Sprintf("insufficient stock for product %d: requested %d", id, qty))
	}
	return nil
}
