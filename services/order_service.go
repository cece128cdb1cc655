package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	apperrors "heritage-backend/common/errors"
	"heritage-backend/common/logger"
	"heritage-backend/models"
	"heritage-backend/repository"

	"go.uber.org/zap"
)

// CheckoutRequest is the client-submitted cart plus shipping snapshot used to
// create an order. UserID is nil for guest checkout.
type CheckoutRequest struct {
	UserID *uint `json:"userId"`

	Items []CheckoutItem `json:"items" binding:"required,dive"`

	TotalAmount int64  `json:"totalAmount" binding:"required,gt=0"`
	Note        string `json:"note"`

	ShipFullName string `json:"shipFullName" binding:"required"`
	ShipPhone    string `json:"shipPhone" binding:"required"`
	ShipEmail    string `json:"shipEmail" binding:"required,email"`
	ShipStreet   string `json:"shipStreet" binding:"required"`
	ShipWard     string `json:"shipWard" binding:"required"`
	ShipDistrict string `json:"shipDistrict" binding:"required"`
	ShipProvince string `json:"shipProvince" binding:"required"`
}

// CheckoutItem is one cart line in a checkout request.
type CheckoutItem struct {
	ProductID    uint   `json:"productId" binding:"required"`
	ProductName  string `json:"productName" binding:"required"`
	ProductPrice int64  `json:"productPrice" binding:"required,gte=0"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
	ProductImage string `json:"productImage"`
}

// OrderListResponse is a paginated order listing.
type OrderListResponse struct {
	Orders []models.OrderResponse `json:"orders"`
	Meta   MetaData               `json:"meta"`
}

// MetaData describes pagination state.
type MetaData struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

// EmailSender dispatches order confirmation mail. Failures are logged, never
// propagated into the checkout flow.
type EmailSender interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
}

// OrderService orchestrates order creation, payment confirmation, and status
// transitions.
type OrderService struct {
	orders   repository.OrderRepository
	users    repository.UserRepository
	payments repository.PaymentRepository
	tx       repository.TxManager
	mailer   EmailSender
}

func NewOrderService(orders repository.OrderRepository, users repository.UserRepository, payments repository.PaymentRepository, tx repository.TxManager, mailer EmailSender) *OrderService {
	return &OrderService{
		orders:   orders,
		users:    users,
		payments: payments,
		tx:       tx,
		mailer:   mailer,
	}
}

// newPaymentRef issues the numeric correlation id the payment provider keys
// on. The order code is derived from it so both always agree.
func newPaymentRef() int64 {
	return time.Now().UnixMilli()
}

// OrderCodeFromRef renders the public order code for a payment reference.
func OrderCodeFromRef(ref int64) string {
	return "ORD" + strconv.FormatInt(ref, 10)
}

// CreateOrder validates the checkout request, snapshots the cart into an
// order with PENDING status, and persists it. A confirmation email is
// attempted afterwards; its failure never rolls back the order.
func (s *OrderService) CreateOrder(ctx context.Context, req *CheckoutRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("items list cannot be empty")
	}
	if req.TotalAmount <= 0 {
		return nil, apperrors.Validation("total amount must be positive")
	}

	// A supplied user id must resolve; absence means guest checkout.
	var userID *uint
	if req.UserID != nil {
		user, err := s.users.FindByID(ctx, *req.UserID)
		if err != nil {
			return nil, err
		}
		userID = &user.ID
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
			TotalPrice:   item.ProductPrice * int64(item.Quantity),
			ProductImage: item.ProductImage,
		})
	}

	var order *models.Order
	// Millisecond refs can collide under bursty checkouts; the unique index
	// rejects the duplicate and we retry with a fresh ref.
	for attempt := 0; attempt < 3; attempt++ {
		ref := newPaymentRef() + int64(attempt)
		candidate := &models.Order{
			OrderCode:     OrderCodeFromRef(ref),
			PaymentRef:    ref,
			UserID:        userID,
			TotalAmount:   req.TotalAmount,
			Status:        models.OrderPending,
			PaymentMethod: "DIRECT",
			PaymentStatus: "PENDING",
			ShipFullName:  req.ShipFullName,
			ShipPhone:     req.ShipPhone,
			ShipEmail:     req.ShipEmail,
			ShipStreet:    req.ShipStreet,
			ShipWard:      req.ShipWard,
			ShipDistrict:  req.ShipDistrict,
			ShipProvince:  req.ShipProvince,
			Note:          req.Note,
			Items:         items,
		}
		err := s.orders.Create(ctx, candidate)
		if err == nil {
			order = candidate
			break
		}
		if attempt == 2 || !isDuplicateKey(err) {
			return nil, apperrors.From(err)
		}
		time.Sleep(time.Millisecond)
	}

	logger.Log.Info("Order created",
		zap.String("order_code", order.OrderCode),
		zap.Int64("total_amount", order.TotalAmount),
		zap.Bool("guest", order.UserID == nil),
	)

	if s.mailer != nil {
		if err := s.mailer.SendOrderConfirmation(ctx, order); err != nil {
			logger.Log.Warn("Order confirmation email failed",
				zap.String("order_code", order.OrderCode),
				zap.Error(err),
			)
		}
	}

	return order, nil
}

// SetPaymentMethod records which payment channel the order is taking.
func (s *OrderService) SetPaymentMethod(ctx context.Context, order *models.Order, method string) error {
	order.PaymentMethod = method
	return s.orders.Update(ctx, order)
}

// ProcessOrderPayment confirms a paid order: within one transaction it
// decrements stock for every line item, then flips the order to CONFIRMED and
// the payment to SUCCESS. Any stock shortfall aborts the whole transaction.
// Re-invocation on an already confirmed order is a no-op, so a provider
// return plus a webhook for the same order cannot double-decrement.
func (s *OrderService) ProcessOrderPayment(ctx context.Context, orderCode string) error {
	return s.tx.Do(ctx, func(repos repository.TxRepos) error {
		order, err := repos.Orders.FindByCode(ctx, orderCode)
		if err != nil {
			return err
		}

		if order.Status == models.OrderConfirmed {
			logger.Log.Info("Order already confirmed, skipping",
				zap.String("order_code", orderCode))
			return nil
		}
		if !order.Status.CanTransition(models.OrderConfirmed) {
			return apperrors.Validation("order " + orderCode + " cannot be confirmed from status " + string(order.Status))
		}

		// Stock is debited before the status flip commits; a shortfall on
		// any line leaves every product untouched.
		for _, item := range order.Items {
			if err := repos.Products.DecrementQuantity(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		order.Status = models.OrderConfirmed
		order.PaymentStatus = string(models.PaymentSuccess)
		if err := repos.Orders.Update(ctx, order); err != nil {
			return err
		}

		payment, err := repos.Payments.FindByOrderID(ctx, order.ID)
		if err != nil {
			if apperrors.IsNotFound(err) {
				// Orders confirmed by an admin before any payment record
				// exists are still valid.
				return nil
			}
			return err
		}
		payment.Status = models.PaymentSuccess
		return repos.Payments.Update(ctx, payment)
	})
}

// UpdateOrderStatusByID applies a status transition, rejecting moves the
// transition table forbids.
func (s *OrderService) UpdateOrderStatusByID(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.applyTransition(ctx, order, status)
}

// UpdateOrderStatusByCode is UpdateOrderStatusByID keyed by order code.
func (s *OrderService) UpdateOrderStatusByCode(ctx context.Context, orderCode string, status models.OrderStatus) (*models.Order, error) {
	order, err := s.orders.FindByCode(ctx, orderCode)
	if err != nil {
		return nil, err
	}
	return s.applyTransition(ctx, order, status)
}

func (s *OrderService) applyTransition(ctx context.Context, order *models.Order, status models.OrderStatus) (*models.Order, error) {
	if order.Status == status {
		return order, nil
	}
	if !order.Status.CanTransition(status) {
		return nil, apperrors.Validation(
			"illegal status transition " + string(order.Status) + " -> " + string(status))
	}
	order.Status = status
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}
	logger.Log.Info("Order status updated",
		zap.String("order_code", order.OrderCode),
		zap.String("status", string(status)),
	)
	return order, nil
}

// GetOrderByCode retrieves one order by its public code.
func (s *OrderService) GetOrderByCode(ctx context.Context, orderCode string) (*models.Order, error) {
	return s.orders.FindByCode(ctx, orderCode)
}

// GetOrderByID retrieves one order by primary key.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID uint) (*models.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

// GetOrderByPaymentRef retrieves the order a provider callback references.
func (s *OrderService) GetOrderByPaymentRef(ctx context.Context, ref int64) (*models.Order, error) {
	return s.orders.FindByPaymentRef(ctx, ref)
}

// GetAllOrders returns a paginated listing of every order.
func (s *OrderService) GetAllOrders(ctx context.Context, page, limit int) (*OrderListResponse, error) {
	orders, total, err := s.orders.FindAll(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return buildOrderList(orders, total, page, limit), nil
}

// GetOrdersByUserID returns every order belonging to a user.
func (s *OrderService) GetOrdersByUserID(ctx context.Context, userID uint) ([]models.OrderResponse, error) {
	orders, err := s.orders.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// GetOrdersByStatus filters orders by a parsed status.
func (s *OrderService) GetOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.OrderResponse, error) {
	orders, err := s.orders.FindByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// GetPaidOrders returns orders in a paid state (CONFIRMED and later).
func (s *OrderService) GetPaidOrders(ctx context.Context) ([]models.OrderResponse, error) {
	orders, err := s.orders.FindPaid(ctx)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(orders), nil
}

// GetGuestOrders returns paginated orders with no owning user.
func (s *OrderService) GetGuestOrders(ctx context.Context, page, limit int) (*OrderListResponse, error) {
	orders, total, err := s.orders.FindGuest(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return buildOrderList(orders, total, page, limit), nil
}

// GetStatistics aggregates order counts and revenue.
func (s *OrderService) GetStatistics(ctx context.Context) (*repository.OrderStatistics, error) {
	return s.orders.Statistics(ctx)
}

func buildOrderList(orders []models.Order, total int64, page, limit int) *OrderListResponse {
	return &OrderListResponse{
		Orders: toOrderResponses(orders),
		Meta: MetaData{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: calculateTotalPages(total, limit),
			HasMore:    total > int64(page*limit),
		},
	}
}

func toOrderResponses(orders []models.Order) []models.OrderResponse {
	responses := make([]models.OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, orders[i].ToResponse())
	}
	return responses
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
