package services

import (
	"context"
	"strings"

	apperrors "heritage-backend/common/errors"
	"heritage-backend/common/logger"
	"heritage-backend/models"
	"heritage-backend/repository"

	"go.uber.org/zap"
)

// ProductListResponse is a paginated catalog listing.
type ProductListResponse struct {
	Products []models.ProductResponse `json:"products"`
	Meta     MetaData                 `json:"meta"`
}

// CreateProductRequest is the admin payload for creating a product.
type CreateProductRequest struct {
	Name        string `form:"name" json:"name" binding:"required"`
	Description string `form:"description" json:"description"`
	Price       int64  `form:"price" json:"price" binding:"required,gt=0"`
	Quantity    int    `form:"quantity" json:"quantity" binding:"gte=0"`
	TypeID      *uint  `form:"typeId" json:"typeId"`
	Status      string `form:"status" json:"status"`
}

// UpdateProductRequest carries optional product edits; nil means unchanged.
type UpdateProductRequest struct {
	Name        *string `form:"name" json:"name"`
	Description *string `form:"description" json:"description"`
	Price       *int64  `form:"price" json:"price"`
	Quantity    *int    `form:"quantity" json:"quantity"`
	TypeID      *uint   `form:"typeId" json:"typeId"`
	Status      *string `form:"status" json:"status"`
}

// ProductService handles catalog reads for customers and catalog writes for
// admins.
type ProductService struct {
	products repository.ProductRepository
	types    repository.TypeRepository
}

func NewProductService(products repository.ProductRepository, types repository.TypeRepository) *ProductService {
	return &ProductService{products: products, types: types}
}

// GetByID returns one product regardless of status; the admin surface needs
// inactive products too.
func (s *ProductService) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.products.FindByID(ctx, id)
}

// GetActive returns the paginated customer-facing catalog: ACTIVE products
// only.
func (s *ProductService) GetActive(ctx context.Context, page, limit int) (*ProductListResponse, error) {
	products, total, err := s.products.FindActive(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	return &ProductListResponse{
		Products: toProductResponses(products),
		Meta: MetaData{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: calculateTotalPages(total, limit),
			HasMore:    total > int64(page*limit),
		},
	}, nil
}

// GetAllForAdmin returns every product in every status.
func (s *ProductService) GetAllForAdmin(ctx context.Context) ([]models.Product, error) {
	return s.products.FindAll(ctx)
}

// Search finds ACTIVE products whose name or description contains the
// keyword, case-insensitive. A blank keyword matches nothing.
func (s *ProductService) Search(ctx context.Context, keyword string) ([]models.ProductResponse, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []models.ProductResponse{}, nil
	}
	products, err := s.products.SearchActiveByKeyword(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// GetByType lists ACTIVE products in one category.
func (s *ProductService) GetByType(ctx context.Context, typeID uint) ([]models.ProductResponse, error) {
	if _, err := s.types.FindByID(ctx, typeID); err != nil {
		return nil, err
	}
	products, err := s.products.FindActiveByType(ctx, typeID)
	if err != nil {
		return nil, err
	}
	return toProductResponses(products), nil
}

// GetTypes lists the product categories.
func (s *ProductService) GetTypes(ctx context.Context) ([]models.Type, error) {
	return s.types.FindAll(ctx)
}

// CreateType adds a product category.
func (s *ProductService) CreateType(ctx context.Context, name string) (*models.Type, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.Validation("type name is required")
	}
	t := &models.Type{Name: name}
	if err := s.types.Create(ctx, t); err != nil {
		return nil, apperrors.From(err)
	}
	return t, nil
}

// Create adds a product to the catalog. An unspecified status defaults to
// ACTIVE; a specified one must parse.
func (s *ProductService) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, error) {
	status := models.ProductActive
	if req.Status != "" {
		parsed, err := models.ParseProductStatus(req.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	if req.TypeID != nil {
		if _, err := s.types.FindByID(ctx, *req.TypeID); err != nil {
			return nil, err
		}
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Status:      status,
		TypeID:      req.TypeID,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	logger.Log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
	)
	return product, nil
}

// Update applies the provided edits to an existing product.
func (s *ProductService) Update(ctx context.Context, id uint, req *UpdateProductRequest) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, apperrors.Validation("price must be positive")
		}
		product.Price = *req.Price
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, apperrors.Validation("quantity cannot be negative")
		}
		product.Quantity = *req.Quantity
	}
	if req.TypeID != nil {
		if _, err := s.types.FindByID(ctx, *req.TypeID); err != nil {
			return nil, err
		}
		product.TypeID = req.TypeID
	}
	if req.Status != nil {
		status, err := models.ParseProductStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		product.Status = status
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// SetPicture stores the uploaded image URL on a product.
func (s *ProductService) SetPicture(ctx context.Context, id uint, url string) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.PictureURL = url
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product from the catalog. Existing order items keep
// their snapshot, so history is unaffected.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	return s.products.Delete(ctx, id)
}

func toProductResponses(products []models.Product) []models.ProductResponse {
	responses := make([]models.ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, products[i].ToResponse())
	}
	return responses
}
