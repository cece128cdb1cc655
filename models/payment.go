package models

import (
	"fmt"
	"time"

	apperrors "heritage-backend/common/errors"
)

// PaymentStatus is the payment lifecycle state.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentSuccess   PaymentStatus = "SUCCESS"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

// ParsePaymentStatus converts a client-supplied string into a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentSuccess, PaymentFailed, PaymentCancelled:
		return PaymentStatus(s), nil
	}
	return "", apperrors.Validation(fmt.Sprintf("invalid payment status: %q", s))
}

// Payment tracks the provider-side settlement of a single order.
type Payment struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	OrderID       uint          `gorm:"uniqueIndex;not null" json:"orderId"`
	Order         *Order        `gorm:"foreignKey:OrderID" json:"-"`
	PaymentCode   string        `gorm:"type:varchar(128);uniqueIndex;not null" json:"paymentCode"`
	Amount        int64         `gorm:"not null" json:"amount"`
	PaymentMethod string        `gorm:"type:varchar(20)" json:"paymentMethod"`
	Status        PaymentStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	PaymentURL    string        `gorm:"type:varchar(1024)" json:"paymentUrl,omitempty"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}

// PaymentResponse is the API view of a payment with a slim order summary.
type PaymentResponse struct {
	ID            uint              `json:"id"`
	PaymentCode   string            `json:"paymentCode"`
	Amount        int64             `json:"amount"`
	PaymentMethod string            `json:"paymentMethod"`
	Status        PaymentStatus     `json:"status"`
	PaymentURL    string            `json:"paymentUrl,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	Order         *PaymentOrderInfo `json:"order,omitempty"`
}

// PaymentOrderInfo summarizes the order a payment belongs to.
type PaymentOrderInfo struct {
	ID           uint        `json:"id"`
	OrderCode    string      `json:"orderCode"`
	TotalAmount  int64       `json:"totalAmount"`
	Status       OrderStatus `json:"status"`
	UserFullName string      `json:"userFullName,omitempty"`
	UserEmail    string      `json:"userEmail,omitempty"`
}

func (p *Payment) ToResponse() PaymentResponse {
	resp := PaymentResponse{
		ID:            p.ID,
		PaymentCode:   p.PaymentCode,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		Status:        p.Status,
		PaymentURL:    p.PaymentURL,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Order != nil {
		info := &PaymentOrderInfo{
			ID:          p.Order.ID,
			OrderCode:   p.Order.OrderCode,
			TotalAmount: p.Order.TotalAmount,
			Status:      p.Order.Status,
		}
		if p.Order.User != nil {
			info.UserFullName = p.Order.User.FullName()
			info.UserEmail = p.Order.User.Email
		}
		resp.Order = info
	}
	return resp
}
