package services

import (
	"context"
	"fmt"
	"sync"

	apperrors "heritage-backend/common/errors"
	"heritage-backend/models"
	"heritage-backend/repository"
)

// In-memory repository fakes backing the service tests.

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uint]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uint]*models.Product)}
}

func (r *fakeProductRepo) put(p *models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ID] = &cp
}

func (r *fakeProductRepo) quantity(id uint) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Quantity
}

func (r *fakeProductRepo) snapshot() map[uint]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[uint]int, len(r.products))
	for id, p := range r.products {
		snap[id] = p.Quantity
	}
	return snap
}

func (r *fakeProductRepo) restore(snap map[uint]int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, qty := range snap {
		if p, ok := r.products[id]; ok {
			p.Quantity = qty
		}
	}
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", id)
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) FindActive(ctx context.Context, page, limit int) ([]models.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, p := range r.products {
		if p.Status == models.ProductActive {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) FindAll(ctx context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProductRepo) SearchActiveByKeyword(ctx context.Context, keyword string) ([]models.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) FindActiveByType(ctx context.Context, typeID uint) ([]models.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	product.ID = uint(len(r.products) + 1)
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *models.Product) error {
	r.put(product)
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return apperrors.NotFound("product", id)
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = make(map[uint]*models.Product)
	return nil
}

func (r *fakeProductRepo) DecrementQuantity(ctx context.Context, id uint, qty int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return apperrors.NotFound("product", id)
	}
	if p.Quantity < qty {
		return apperrors.Conflict(fmt.Sprintf("insufficient stock for product %d: requested %d", id, qty))
	}
	p.Quantity -= qty
	return nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[uint]*models.Order
	nextID uint
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uint]*models.Order), nextID: 1}
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order", id)
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) FindByCode(ctx context.Context, orderCode string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderCode == orderCode {
			cp := *o
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("order", orderCode)
}

func (r *fakeOrderRepo) FindByPaymentRef(ctx context.Context, ref int64) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.PaymentRef == ref {
			cp := *o
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("order", ref)
}

func (r *fakeOrderRepo) FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) FindByUserID(ctx context.Context, userID uint) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindPaid(ctx context.Context) ([]models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		switch o.Status {
		case models.OrderConfirmed, models.OrderShipping, models.OrderDelivered:
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindGuest(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Order
	for _, o := range r.orders {
		if o.UserID == nil {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.PaymentRef == order.PaymentRef || o.OrderCode == order.OrderCode {
			return fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	order.ID = r.nextID
	r.nextID++
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return apperrors.NotFound("order", order.ID)
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) Statistics(ctx context.Context) (*repository.OrderStatistics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &repository.OrderStatistics{}
	for _, o := range r.orders {
		stats.TotalOrders++
		switch o.Status {
		case models.OrderConfirmed, models.OrderShipping, models.OrderDelivered:
			stats.PaidOrders++
			stats.TotalRevenue += o.TotalAmount
		case models.OrderPending:
			stats.PendingOrders++
		case models.OrderCancelled:
			stats.CancelledOrders++
		}
	}
	return stats, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*models.User)}
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", id)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("user", username)
}

func (r *fakeUserRepo) FindAll(ctx context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uint(len(r.users) + 1)
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.NotFound("user", user.ID)
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return apperrors.NotFound("user", id)
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uint]*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uint]*models.Payment)}
}

func (r *fakePaymentRepo) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, apperrors.NotFound("payment", id)
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) FindByCode(ctx context.Context, code string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.PaymentCode == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("payment", code)
}

func (r *fakePaymentRepo) FindByOrderID(ctx context.Context, orderID uint) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.OrderID == orderID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("payment for order", orderID)
}

func (r *fakePaymentRepo) FindAll(ctx context.Context, page, limit int) ([]models.Payment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Payment
	for _, p := range r.payments {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePaymentRepo) FindByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Payment
	for _, p := range r.payments {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) FindByUserID(ctx context.Context, userID uint) ([]models.Payment, error) {
	return nil, nil
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment.ID = uint(len(r.payments) + 1)
	cp := *payment
	r.payments[payment.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[payment.ID]; !ok {
		return apperrors.NotFound("payment", payment.ID)
	}
	cp := *payment
	r.payments[payment.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) Statistics(ctx context.Context) (*repository.PaymentStatistics, error) {
	return &repository.PaymentStatistics{}, nil
}

// fakeTxManager serializes transactions with a mutex and rolls product stock
// back when the function fails, mirroring the all-or-nothing commit.
type fakeTxManager struct {
	mu       sync.Mutex
	orders   *fakeOrderRepo
	products *fakeProductRepo
	payments *fakePaymentRepo
}

func newFakeTxManager(orders *fakeOrderRepo, products *fakeProductRepo, payments *fakePaymentRepo) *fakeTxManager {
	return &fakeTxManager{orders: orders, products: products, payments: payments}
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.products.snapshot()
	err := fn(repository.TxRepos{
		Orders:   m.orders,
		Products: m.products,
		Payments: m.payments,
	})
	if err != nil {
		m.products.restore(snap)
	}
	return err
}

var (
	_ repository.ProductRepository = (*fakeProductRepo)(nil)
	_ repository.OrderRepository   = (*fakeOrderRepo)(nil)
	_ repository.UserRepository    = (*fakeUserRepo)(nil)
	_ repository.PaymentRepository = (*fakePaymentRepo)(nil)
	_ repository.TxManager         = (*fakeTxManager)(nil)
)
