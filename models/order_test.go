package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	for _, valid := range []string{"PENDING", "CONFIRMED", "SHIPPING", "DELIVERED", "CANCELLED"} {
		status, err := ParseOrderStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, OrderStatus(valid), status)
	}

	for _, invalid := range []string{"", "pending", "PAID", "UNKNOWN"} {
		_, err := ParseOrderStatus(invalid)
		assert.Error(t, err, "status %q should not parse", invalid)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderShipping, false},
		{OrderPending, OrderDelivered, false},
		{OrderConfirmed, OrderShipping, true},
		{OrderConfirmed, OrderCancelled, true},
		{OrderConfirmed, OrderPending, false},
		{OrderShipping, OrderDelivered, true},
		{OrderShipping, OrderCancelled, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderDelivered, OrderPending, false},
		{OrderCancelled, OrderConfirmed, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestGuestOrderView(t *testing.T) {
	order := Order{
		OrderCode:     "ORD1700000000000",
		Status:        OrderConfirmed,
		PaymentStatus: "SUCCESS",
		TotalAmount:   920000,
		ShipFullName:  "Nguyen Van A",
		ShipPhone:     "0987654321",
		ShipStreet:    "123 Main St",
		ShipProvince:  "HCMC",
		Items: []OrderItem{
			{ProductName: "Painting", ProductPrice: 250000, Quantity: 2, TotalPrice: 500000},
		},
	}

	view := order.ToGuestResponse()
	assert.Equal(t, "ORD1700000000000", view.OrderCode)
	assert.Equal(t, OrderConfirmed, view.Status)
	assert.Equal(t, "SUCCESS", view.PaymentStatus)
	assert.Equal(t, int64(920000), view.TotalAmount)
	assert.Equal(t, "Nguyen Van A", view.ShipFullName)

	// Guests only get the summary; line items stay out of the payload.
	encoded, err := json.Marshal(view)
	assert.NoError(t, err)
	assert.NotContains(t, string(encoded), "items")
	assert.NotContains(t, string(encoded), "Painting")
}

func TestOrderItemSnapshot(t *testing.T) {
	order := Order{
		OrderCode: "ORD1700000000000",
		Items: []OrderItem{
			{ProductName: "Painting", ProductPrice: 250000, Quantity: 2, TotalPrice: 500000},
		},
	}

	resp := order.ToResponse()
	assert.Equal(t, "ORD1700000000000", resp.OrderCode)
	assert.Equal(t, int64(500000), resp.Items[0].TotalPrice)
	assert.Empty(t, resp.UserFullName)
}
