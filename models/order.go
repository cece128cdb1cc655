package models

import (
	"fmt"
	"time"

	apperrors "heritage-backend/common/errors"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipping  OrderStatus = "SHIPPING"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// ParseOrderStatus converts a client-supplied string into an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderPending, OrderConfirmed, OrderShipping, OrderDelivered, OrderCancelled:
		return OrderStatus(s), nil
	}
	return "", apperrors.Validation(fmt.Sprintf("invalid order status: %q", s))
}

// orderTransitions is the allowed status transition table. DELIVERED and
// CANCELLED are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderShipping, OrderCancelled},
	OrderShipping:  {OrderDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is a purchase snapshot. Shipping fields are denormalized so the order
// survives later edits to user addresses. PaymentRef is the numeric
// correlation id the payment provider requires; it is assigned once at
// creation and OrderCode is derived from it, never the other way around.
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	OrderCode     string      `gorm:"type:varchar(64);uniqueIndex;not null" json:"orderCode"`
	PaymentRef    int64       `gorm:"uniqueIndex;not null" json:"paymentRef"`
	UserID        *uint       `gorm:"index" json:"userId"`
	User          *User       `gorm:"foreignKey:UserID" json:"-"`
	TotalAmount   int64       `gorm:"not null" json:"totalAmount"`
	Status        OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	PaymentMethod string      `gorm:"type:varchar(20)" json:"paymentMethod"`
	PaymentStatus string      `gorm:"type:varchar(20)" json:"paymentStatus"`
	ShipFullName  string      `gorm:"type:varchar(255)" json:"shipFullName"`
	ShipPhone     string      `gorm:"type:varchar(20)" json:"shipPhone"`
	ShipEmail     string      `gorm:"type:varchar(255)" json:"shipEmail"`
	ShipStreet    string      `gorm:"type:varchar(255)" json:"shipStreet"`
	ShipWard      string      `gorm:"type:varchar(255)" json:"shipWard"`
	ShipDistrict  string      `gorm:"type:varchar(255)" json:"shipDistrict"`
	ShipProvince  string      `gorm:"type:varchar(255)" json:"shipProvince"`
	Note          string      `gorm:"type:text" json:"note"`
	Items         []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

// OrderItem is a product snapshot at purchase time. ProductID is deliberately
// not a foreign key; the line item must stay intact even if the product is
// later deleted. TotalPrice is computed once at creation.
type OrderItem struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	OrderID      uint   `gorm:"not null;index" json:"-"`
	ProductID    uint   `gorm:"not null" json:"productId"`
	ProductName  string `gorm:"type:varchar(255)" json:"productName"`
	ProductPrice int64  `gorm:"not null" json:"productPrice"`
	Quantity     int    `gorm:"not null" json:"quantity"`
	TotalPrice   int64  `gorm:"not null" json:"totalPrice"`
	ProductImage string `gorm:"type:varchar(512)" json:"productImage"`
}

// OrderResponse is the flattened order view returned by the API; it avoids
// serializing the lazy user association.
type OrderResponse struct {
	ID            uint        `json:"id"`
	OrderCode     string      `json:"orderCode"`
	UserID        *uint       `json:"userId"`
	UserFullName  string      `json:"userFullName,omitempty"`
	TotalAmount   int64       `json:"totalAmount"`
	Status        OrderStatus `json:"status"`
	PaymentMethod string      `json:"paymentMethod"`
	PaymentStatus string      `json:"paymentStatus"`
	ShipFullName  string      `json:"shipFullName"`
	ShipPhone     string      `json:"shipPhone"`
	ShipEmail     string      `json:"shipEmail"`
	ShipStreet    string      `json:"shipStreet"`
	ShipWard      string      `json:"shipWard"`
	ShipDistrict  string      `json:"shipDistrict"`
	ShipProvince  string      `json:"shipProvince"`
	Note          string      `json:"note,omitempty"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// GuestOrderResponse is the public tracking view returned by the
// unauthenticated lookup endpoint: order progress and the shipping snapshot,
// without line items or account details.
type GuestOrderResponse struct {
	OrderCode     string      `json:"orderCode"`
	Status        OrderStatus `json:"status"`
	PaymentStatus string      `json:"paymentStatus"`
	TotalAmount   int64       `json:"totalAmount"`
	ShipFullName  string      `json:"shipFullName"`
	ShipPhone     string      `json:"shipPhone"`
	ShipStreet    string      `json:"shipStreet"`
	ShipWard      string      `json:"shipWard"`
	ShipDistrict  string      `json:"shipDistrict"`
	ShipProvince  string      `json:"shipProvince"`
	CreatedAt     time.Time   `json:"createdAt"`
}

func (o *Order) ToGuestResponse() GuestOrderResponse {
	return GuestOrderResponse{
		OrderCode:     o.OrderCode,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		TotalAmount:   o.TotalAmount,
		ShipFullName:  o.ShipFullName,
		ShipPhone:     o.ShipPhone,
		ShipStreet:    o.ShipStreet,
		ShipWard:      o.ShipWard,
		ShipDistrict:  o.ShipDistrict,
		ShipProvince:  o.ShipProvince,
		CreatedAt:     o.CreatedAt,
	}
}

func (o *Order) ToResponse() OrderResponse {
	resp := OrderResponse{
		ID:            o.ID,
		OrderCode:     o.OrderCode,
		UserID:        o.UserID,
		TotalAmount:   o.TotalAmount,
		Status:        o.Status,
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		ShipFullName:  o.ShipFullName,
		ShipPhone:     o.ShipPhone,
		ShipEmail:     o.ShipEmail,
		ShipStreet:    o.ShipStreet,
		ShipWard:      o.ShipWard,
		ShipDistrict:  o.ShipDistrict,
		ShipProvince:  o.ShipProvince,
		Note:          o.Note,
		Items:         o.Items,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.User != nil {
		resp.UserFullName = o.User.FullName()
	}
	return resp
}
