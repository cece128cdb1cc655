package repository

import (
	"context"
	"errors"

	apperrors "heritage-backend/common/errors"
	"heritage-backend/models"

	"gorm.io/gorm"
)

// PaymentStatistics aggregates payment counts and amounts for dashboards.
type PaymentStatistics struct {
	TotalPayments      int64 `json:"totalPayments"`
	SuccessfulPayments int64 `json:"successfulPayments"`
	FailedPayments     int64 `json:"failedPayments"`
	PendingPayments    int64 `json:"pendingPayments"`
	TotalAmount        int64 `json:"totalAmount"`
	SuccessfulAmount   int64 `json:"successfulAmount"`
}

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	FindByCode(ctx context.Context, paymentCode string) (*models.Payment, error)
	FindByOrderID(ctx context.Context, orderID uint) (*models.Payment, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Payment, int64, error)
	FindByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error)
	FindByUserID(ctx context.Context, userID uint) ([]models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	Statistics(ctx context.Context) (*PaymentStatistics, error)
}

// GormPaymentRepository implements PaymentRepository using GORM.
type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) PaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Preload("Order").Preload("Order.User").First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payment", id)
		}
		return nil, err
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindByCode(ctx context.Context, paymentCode string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Preload("Order").Preload("Order.User").
		Where("payment_code = ?", paymentCode).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payment", paymentCode)
		}
		return nil, err
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindByOrderID(ctx context.Context, orderID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Preload("Order").Preload("Order.User").
		Where("order_id = ?", orderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payment for order", orderID)
		}
		return nil, err
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindAll(ctx context.Context, page, limit int) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Payment{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Order").
		Preload("Order.User").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, 0, err
	}

	return payments, total, nil
}

func (r *GormPaymentRepository) FindByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Preload("Order").
		Preload("Order.User").
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *GormPaymentRepository) FindByUserID(ctx context.Context, userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.WithContext(ctx).
		Preload("Order").
		Joins("JOIN orders ON orders.id = payments.order_id").
		Where("orders.user_id = ?", userID).
		Order("payments.created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *GormPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *GormPaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *GormPaymentRepository) Statistics(ctx context.Context) (*PaymentStatistics, error) {
	stats := &PaymentStatistics{}
	db := r.db.WithContext(ctx).Model(&models.Payment{})

	if err := db.Session(&gorm.Session{}).Count(&stats.TotalPayments).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", models.PaymentSuccess).Count(&stats.SuccessfulPayments).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", models.PaymentFailed).Count(&stats.FailedPayments).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Where("status = ?", models.PaymentPending).Count(&stats.PendingPayments).Error; err != nil {
		return nil, err
	}

	var total, successful *int64
	if err := db.Session(&gorm.Session{}).Select("SUM(amount)").Scan(&total).Error; err != nil {
		return nil, err
	}
	if err := db.Session(&gorm.Session{}).Select("SUM(amount)").Where("status = ?", models.PaymentSuccess).Scan(&successful).Error; err != nil {
		return nil, err
	}
	if total != nil {
		stats.TotalAmount = *total
	}
	if successful != nil {
		stats.SuccessfulAmount = *successful
	}
	return stats, nil
}
