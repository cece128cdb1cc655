package services

import (
	"context"
	"fmt"
	"time"

	"heritage-backend/models"
	"heritage-backend/repository"
)

// PaymentListResponse is a paginated payment listing.
type PaymentListResponse struct {
	Payments []models.PaymentResponse `json:"payments"`
	Meta     MetaData                 `json:"meta"`
}

// PaymentService records and queries payment attempts. Each order carries at
// most one payment row; the row's code embeds the order code for operator
// greppability.
type PaymentService struct {
	payments repository.PaymentRepository
}

func NewPaymentService(payments repository.PaymentRepository) *PaymentService {
	return &PaymentService{payments: payments}
}

// NewPaymentCode derives the payment code for an order.
func NewPaymentCode(orderCode string) string {
	return fmt.Sprintf("PAY%d_%s", time.Now().UnixMilli(), orderCode)
}

// CreateForOrder records a PENDING payment attempt against an order.
func (s *PaymentService) CreateForOrder(ctx context.Context, order *models.Order, method string) (*models.Payment, error) {
	payment := &models.Payment{
		OrderID:       order.ID,
		PaymentCode:   NewPaymentCode(order.OrderCode),
		Amount:        order.TotalAmount,
		PaymentMethod: method,
		Status:        models.PaymentPending,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// AttachPaymentURL stores the provider checkout URL on an existing payment.
func (s *PaymentService) AttachPaymentURL(ctx context.Context, payment *models.Payment, url string) error {
	payment.PaymentURL = url
	return s.payments.Update(ctx, payment)
}

// GetByID retrieves one payment by its database id.
func (s *PaymentService) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	return s.payments.FindByID(ctx, id)
}

// GetByCode retrieves one payment by its public code.
func (s *PaymentService) GetByCode(ctx context.Context, paymentCode string) (*models.Payment, error) {
	return s.payments.FindByCode(ctx, paymentCode)
}

// GetByOrderID retrieves the payment attached to an order.
func (s *PaymentService) GetByOrderID(ctx context.Context, orderID uint) (*models.Payment, error) {
	return s.payments.FindByOrderID(ctx, orderID)
}

// GetAll returns a paginated payment listing.
func (s *PaymentService) GetAll(ctx context.Context, page, limit int) (*PaymentListResponse, error) {
	payments, total, err := s.payments.FindAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &PaymentListResponse{
		Payments: toPaymentResponses(payments),
		Meta: MetaData{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: calculateTotalPages(total, limit),
			HasMore:    total > int64(page*limit),
		},
	}, nil
}

// GetByStatus filters payments by status.
func (s *PaymentService) GetByStatus(ctx context.Context, status models.PaymentStatus) ([]models.PaymentResponse, error) {
	payments, err := s.payments.FindByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return toPaymentResponses(payments), nil
}

// GetByUserID lists the payments behind a user's orders.
func (s *PaymentService) GetByUserID(ctx context.Context, userID uint) ([]models.PaymentResponse, error) {
	payments, err := s.payments.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toPaymentResponses(payments), nil
}

// GetStatistics aggregates payment counts and amounts.
func (s *PaymentService) GetStatistics(ctx context.Context) (*repository.PaymentStatistics, error) {
	return s.payments.Statistics(ctx)
}

func toPaymentResponses(payments []models.Payment) []models.PaymentResponse {
	responses := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}
	return responses
}
