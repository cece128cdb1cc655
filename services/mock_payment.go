package services

import (
	"context"
	"time"

	apperrors "heritage-backend/common/errors"
	"heritage-backend/common/logger"
	"heritage-backend/config"
	"heritage-backend/models"

	"go.uber.org/zap"
)

// MockPaymentService simulates a successful provider callback for manual
// testing without real PayOS credentials. It is disabled unless explicitly
// switched on, and config validation refuses to enable it in production.
type MockPaymentService struct {
	enabled  bool
	delay    time.Duration
	orders   *OrderService
	payments *PaymentService
}

func NewMockPaymentService(cfg *config.Config, orders *OrderService, payments *PaymentService) *MockPaymentService {
	return &MockPaymentService{
		enabled:  cfg.MockPaymentEnabled,
		delay:    cfg.MockPaymentDelay,
		orders:   orders,
		payments: payments,
	}
}

// Enabled reports whether the mock path is switched on.
func (s *MockPaymentService) Enabled() bool {
	return s.enabled
}

// SimulatePayment waits the configured settlement delay, then runs the same
// confirmation path a real provider callback would.
func (s *MockPaymentService) SimulatePayment(ctx context.Context, orderCode string) (*models.Order, error) {
	if !s.enabled {
		return nil, apperrors.Validation("mock payment is disabled")
	}

	logger.Log.Info("Simulating payment settlement",
		zap.String("order_code", orderCode),
		zap.Duration("delay", s.delay),
	)

	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := s.orders.ProcessOrderPayment(ctx, orderCode); err != nil {
		return nil, err
	}
	return s.orders.GetOrderByCode(ctx, orderCode)
}
