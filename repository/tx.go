package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRepos bundles the repositories participating in a payment confirmation
// so the whole read-modify-write chain commits or rolls back together.
type TxRepos struct {
	Orders   OrderRepository
	Products ProductRepository
	Payments PaymentRepository
}

// TxManager runs a function within one database transaction.
type TxManager interface {
	Do(ctx context.Context, fn func(repos TxRepos) error) error
}

type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) TxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) Do(ctx context.Context, fn func(repos TxRepos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(TxRepos{
			Orders:   NewGormOrderRepository(tx),
			Products: NewGormProductRepository(tx),
			Payments: NewGormPaymentRepository(tx),
		})
	})
}
