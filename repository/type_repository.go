package repository

import (
	"context"
	"errors"

	apperrors "heritage-backend/common/errors"
	"heritage-backend/models"

	"gorm.io/gorm"
)

// TypeRepository defines the interface for product category data access.
type TypeRepository interface {
	FindAll(ctx context.Context) ([]models.Type, error)
	FindByID(ctx context.Context, id uint) (*models.Type, error)
	Create(ctx context.Context, t *models.Type) error
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) error
}

type GormTypeRepository struct {
	db *gorm.DB
}

func NewGormTypeRepository(db *gorm.DB) TypeRepository {
	return &GormTypeRepository{db: db}
}

func (r *GormTypeRepository) FindAll(ctx context.Context) ([]models.Type, error) {
	var types []models.Type
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *GormTypeRepository) FindByID(ctx context.Context, id uint) (*models.Type, error) {
	var t models.Type
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("type", id)
		}
		return nil, err
	}
	return &t, nil
}

func (r *GormTypeRepository) Create(ctx context.Context, t *models.Type) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *GormTypeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Type{}).Count(&count).Error
	return count, err
}

func (r *GormTypeRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Type{}).Error
}
