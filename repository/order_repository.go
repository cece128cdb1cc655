package repository

import (
	"context"
	"errors"

	apperrors "heritage-backend/common/errors"
	"heritage-backend/models"

	"gorm.io/gorm"
)

// OrderStatistics aggregates order counts and revenue for dashboards.
type OrderStatistics struct {
	TotalOrders     int64 `json:"totalOrders"`
	PaidOrders      int64 `json:"paidOrders"`
	PendingOrders   int64 `json:"pendingOrders"`
	CancelledOrders int64 `json:"cancelledOrders"`
	TotalRevenue    int64 `json:"totalRevenue"`
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindByCode(ctx context.Context, orderCode string) (*models.Order, error)
	FindByPaymentRef(ctx context.Context, paymentRef int64) (*models.Order, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error)
	FindByUserID(ctx context.Context, userID uint) ([]models.Order, error)
	FindByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	FindPaid(ctx context.Context) ([]models.Order, error)
	FindGuest(ctx context.Context, page, limit int) ([]models.Order, int64, error)
	Create(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
	Statistics(ctx context.Context) (*OrderStatistics, error)
}

// paidStatuses are the states an order reaches only after payment.
var paidStatuses = []models.OrderStatus{models.OrderConfirmed, models.OrderShipping, models.OrderDelivered}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").Preload("User").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByCode(ctx context.Context, orderCode string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").Preload("User").
		Where("order_code = ?", orderCode).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", orderCode)
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByPaymentRef(ctx context.Context, paymentRef int64) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").Preload("User").
		Where("payment_ref = ?", paymentRef).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", paymentRef)
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Preload("User").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *GormOrderRepository) FindByUserID(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormOrderRepository) FindByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("User").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormOrderRepository) FindPaid(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("User").
		Where("status IN ?", paidStatuses).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormOrderRepository) FindGuest(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{}).Where("user_id IS NULL")
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *GormOrderRepository) Statistics(ctx context.Context) (*OrderStatistics, error) {
	stats := &OrderStatistics{}
	db := r.db.WithContext(ctx).Model(&models.Order{})

	if err := db.Session(&gorm.Session{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status IN ?", paidStatuses).Count(&stats.PaidOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", models.OrderPending).Count(&stats.PendingOrders).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", models.OrderCancelled).Count(&stats.CancelledOrders).Error; err != nil {
		return nil, err
	}

	var revenue *int64
	if err := db.Session(&gorm.Session{}).
		Select("SUM(total_amount)").
		Where("status IN ?", paidStatuses).
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	if revenue != nil {
		stats.TotalRevenue = *revenue
	}
	return stats, nil
}
