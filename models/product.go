package models

import (
	"fmt"
	"time"

	apperrors "heritage-backend/common/errors"
)

// ProductStatus is the lifecycle state of a catalog product.
type ProductStatus string

const (
	ProductActive       ProductStatus = "ACTIVE"
	ProductInactive     ProductStatus = "INACTIVE"
	ProductDiscontinued ProductStatus = "DISCONTINUED"
)

// ParseProductStatus converts a client-supplied string into a ProductStatus.
func ParseProductStatus(s string) (ProductStatus, error) {
	switch ProductStatus(s) {
	case ProductActive, ProductInactive, ProductDiscontinued:
		return ProductStatus(s), nil
	}
	return "", apperrors.Validation(fmt.Sprintf("invalid product status: %q", s))
}

// Type is a flat product category.
type Type struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);unique;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// Product is a catalog item. Price is in minor currency units (VND has no
// fractional unit, so price is the display amount). Quantity never goes
// negative; it is only decremented through the conditional update in the
// product repository.
type Product struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"type:varchar(255);not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	Price       int64         `gorm:"not null" json:"price"`
	PictureURL  string        `gorm:"type:varchar(512)" json:"pictureUrl"`
	Quantity    int           `gorm:"not null;default:0" json:"quantity"`
	Status      ProductStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	TypeID      *uint         `gorm:"index" json:"typeId"`
	Type        *Type         `gorm:"foreignKey:TypeID" json:"type,omitempty"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"-"`
	UpdatedAt   time.Time     `gorm:"autoUpdateTime" json:"-"`
}

// ProductResponse is the customer-facing product view.
type ProductResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	PictureURL  string `json:"pictureUrl"`
	Quantity    int    `json:"quantity"`
	ProductType string `json:"productType"`
}

func (p *Product) ToResponse() ProductResponse {
	typeName := "Uncategorized"
	if p.Type != nil {
		typeName = p.Type.Name
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		PictureURL:  p.PictureURL,
		Quantity:    p.Quantity,
		ProductType: typeName,
	}
}
