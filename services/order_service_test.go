package services

import (
	"context"
	"os"
	"strconv"
	"sync"
	"testing"

	apperrors "heritage-backend/common/errors"
	"heritage-backend/common/logger"
	"heritage-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Initialize("test")
	os.Exit(m.Run())
}

type orderFixture struct {
	orders   *fakeOrderRepo
	users    *fakeUserRepo
	payments *fakePaymentRepo
	products *fakeProductRepo
	service  *OrderService
}

func newOrderFixture() *orderFixture {
	orders := newFakeOrderRepo()
	users := newFakeUserRepo()
	payments := newFakePaymentRepo()
	products := newFakeProductRepo()
	tx := newFakeTxManager(orders, products, payments)
	return &orderFixture{
		orders:   orders,
		users:    users,
		payments: payments,
		products: products,
		service:  NewOrderService(orders, users, payments, tx, nil),
	}
}

func validCheckout() *CheckoutRequest {
	return &CheckoutRequest{
		Items: []CheckoutItem{
			{ProductID: 1, ProductName: "Lacquer painting", ProductPrice: 250000, Quantity: 2},
			{ProductID: 2, ProductName: "Silver ring", ProductPrice: 420000, Quantity: 1},
		},
		TotalAmount:  920000,
		ShipFullName: "Nguyen Van A",
		ShipPhone:    "0987654321",
		ShipEmail:    "a@example.com",
		ShipStreet:   "123 Main St",
		ShipWard:     "Ward 1",
		ShipDistrict: "District 1",
		ShipProvince: "HCMC",
	}
}

func TestCreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending order with snapshot items", func(t *testing.T) {
		f := newOrderFixture()

		order, err := f.service.CreateOrder(ctx, validCheckout())
		require.NoError(t, err)

		assert.Equal(t, models.OrderPending, order.Status)
		assert.Equal(t, "ORD"+strconv.FormatInt(order.PaymentRef, 10), order.OrderCode)
		assert.Nil(t, order.UserID)

		require.Len(t, order.Items, 2)
		assert.Equal(t, int64(500000), order.Items[0].TotalPrice)
		assert.Equal(t, int64(420000), order.Items[1].TotalPrice)
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		f := newOrderFixture()
		req := validCheckout()
		req.Items = nil
		req.TotalAmount = 100

		_, err := f.service.CreateOrder(ctx, req)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("rejects non-positive total", func(t *testing.T) {
		f := newOrderFixture()
		req := validCheckout()
		req.TotalAmount = 0

		_, err := f.service.CreateOrder(ctx, req)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("resolves the owning user", func(t *testing.T) {
		f := newOrderFixture()
		user := &models.User{Username: "customer1", Email: "c1@example.com", Password: "x"}
		require.NoError(t, f.users.Create(ctx, user))

		req := validCheckout()
		req.UserID = &user.ID

		order, err := f.service.CreateOrder(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, order.UserID)
		assert.Equal(t, user.ID, *order.UserID)
	})

	t.Run("fails when the user does not exist", func(t *testing.T) {
		f := newOrderFixture()
		missing := uint(99)
		req := validCheckout()
		req.UserID = &missing

		_, err := f.service.CreateOrder(ctx, req)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestProcessOrderPayment(t *testing.T) {
	ctx := context.Background()

	seed := func(f *orderFixture, qty1, qty2 int) *models.Order {
		f.products.put(&models.Product{ID: 1, Name: "Painting", Quantity: qty1, Status: models.ProductActive})
		f.products.put(&models.Product{ID: 2, Name: "Ring", Quantity: qty2, Status: models.ProductActive})

		order, err := f.service.CreateOrder(ctx, validCheckout())
		if err != nil {
			t.Fatalf("seeding order: %v", err)
		}
		return order
	}

	t.Run("decrements stock and confirms", func(t *testing.T) {
		f := newOrderFixture()
		order := seed(f, 5, 5)

		payment := &models.Payment{OrderID: order.ID, PaymentCode: "PAY1_" + order.OrderCode, Amount: order.TotalAmount, Status: models.PaymentPending}
		require.NoError(t, f.payments.Create(ctx, payment))

		require.NoError(t, f.service.ProcessOrderPayment(ctx, order.OrderCode))

		assert.Equal(t, 3, f.products.quantity(1))
		assert.Equal(t, 4, f.products.quantity(2))

		updated, err := f.orders.FindByCode(ctx, order.OrderCode)
		require.NoError(t, err)
		assert.Equal(t, models.OrderConfirmed, updated.Status)
		assert.Equal(t, string(models.PaymentSuccess), updated.PaymentStatus)

		p, err := f.payments.FindByOrderID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentSuccess, p.Status)
	})

	t.Run("re-invocation does not decrement twice", func(t *testing.T) {
		f := newOrderFixture()
		order := seed(f, 5, 5)

		require.NoError(t, f.service.ProcessOrderPayment(ctx, order.OrderCode))
		require.NoError(t, f.service.ProcessOrderPayment(ctx, order.OrderCode))

		assert.Equal(t, 3, f.products.quantity(1))
		assert.Equal(t, 4, f.products.quantity(2))
	})

	t.Run("shortfall on one line leaves all stock untouched", func(t *testing.T) {
		f := newOrderFixture()
		// First line is satisfiable, second is not.
		order := seed(f, 5, 0)

		err := f.service.ProcessOrderPayment(ctx, order.OrderCode)
		assert.True(t, apperrors.IsConflict(err))

		assert.Equal(t, 5, f.products.quantity(1))
		assert.Equal(t, 0, f.products.quantity(2))

		updated, findErr := f.orders.FindByCode(ctx, order.OrderCode)
		require.NoError(t, findErr)
		assert.Equal(t, models.OrderPending, updated.Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newOrderFixture()
		err := f.service.ProcessOrderPayment(ctx, "ORD0")
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("two orders racing for the last unit", func(t *testing.T) {
		f := newOrderFixture()
		f.products.put(&models.Product{ID: 1, Name: "Painting", Quantity: 1, Status: models.ProductActive})

		newSingleItemOrder := func() *models.Order {
			req := &CheckoutRequest{
				Items:        []CheckoutItem{{ProductID: 1, ProductName: "Painting", ProductPrice: 250000, Quantity: 1}},
				TotalAmount:  250000,
				ShipFullName: "A",
				ShipPhone:    "1",
				ShipEmail:    "a@example.com",
				ShipStreet:   "s",
				ShipWard:     "w",
				ShipDistrict: "d",
				ShipProvince: "p",
			}
			order, err := f.service.CreateOrder(ctx, req)
			require.NoError(t, err)
			return order
		}

		first := newSingleItemOrder()
		second := newSingleItemOrder()

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, code := range []string{first.OrderCode, second.OrderCode} {
			wg.Add(1)
			go func(i int, code string) {
				defer wg.Done()
				errs[i] = f.service.ProcessOrderPayment(ctx, code)
			}(i, code)
		}
		wg.Wait()

		succeeded, conflicted := 0, 0
		for _, err := range errs {
			switch {
			case err == nil:
				succeeded++
			case apperrors.IsConflict(err):
				conflicted++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, succeeded)
		assert.Equal(t, 1, conflicted)
		assert.Equal(t, 0, f.products.quantity(1))
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	create := func(f *orderFixture) *models.Order {
		order, err := f.service.CreateOrder(ctx, validCheckout())
		require.NoError(t, err)
		return order
	}

	t.Run("allows pending to cancelled", func(t *testing.T) {
		f := newOrderFixture()
		order := create(f)

		updated, err := f.service.UpdateOrderStatusByID(ctx, order.ID, models.OrderCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.OrderCancelled, updated.Status)
	})

	t.Run("rejects pending to delivered", func(t *testing.T) {
		f := newOrderFixture()
		order := create(f)

		_, err := f.service.UpdateOrderStatusByID(ctx, order.ID, models.OrderDelivered)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("rejects transitions out of a terminal state", func(t *testing.T) {
		f := newOrderFixture()
		order := create(f)

		_, err := f.service.UpdateOrderStatusByID(ctx, order.ID, models.OrderCancelled)
		require.NoError(t, err)

		_, err = f.service.UpdateOrderStatusByCode(ctx, order.OrderCode, models.OrderConfirmed)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		f := newOrderFixture()
		order := create(f)

		updated, err := f.service.UpdateOrderStatusByID(ctx, order.ID, models.OrderPending)
		require.NoError(t, err)
		assert.Equal(t, models.OrderPending, updated.Status)
	})
}
