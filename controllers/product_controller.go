package controllers

import (
	"net/http"

	"heritage-backend/services"

	"github.com/gin-gonic/gin"
)

// ProductController serves the public catalog.
type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// List handles GET /api/products: the paginated ACTIVE catalog.
func (ctrl *ProductController) List(c *gin.Context) {
	page, limit := pagination(c)
	resp, err := ctrl.products.GetActive(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/products/:id.
func (ctrl *ProductController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := ctrl.products.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product.ToResponse())
}

// Search handles GET /api/products/search?keyword=.
func (ctrl *ProductController) Search(c *gin.Context) {
	results, err := ctrl.products.Search(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// ByType handles GET /api/products/type/:typeId.
func (ctrl *ProductController) ByType(c *gin.Context) {
	typeID, ok := pathID(c, "typeId")
	if !ok {
		return
	}
	results, err := ctrl.products.GetByType(c.Request.Context(), typeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// Types handles GET /api/products/types.
func (ctrl *ProductController) Types(c *gin.Context) {
	types, err := ctrl.products.GetTypes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}
