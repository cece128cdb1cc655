package controllers

import (
	"mime/multipart"
	"net/http"

	"heritage-backend/services"

	"github.com/gin-gonic/gin"
)

// AdminProductController handles catalog management, including image upload.
type AdminProductController struct {
	products *services.ProductService
	files    services.FileStore
}

func NewAdminProductController(products *services.ProductService, files services.FileStore) *AdminProductController {
	return &AdminProductController{products: products, files: files}
}

// List handles GET /api/admin/products: every product in every status.
func (ctrl *AdminProductController) List(c *gin.Context) {
	products, err := ctrl.products.GetAllForAdmin(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Create handles POST /api/admin/products. The request is multipart when it
// carries an image, plain JSON otherwise.
func (ctrl *AdminProductController) Create(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := ctrl.products.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		url, err := ctrl.saveImage(c, fileHeader)
		if err != nil {
			respondError(c, err)
			return
		}
		product, err = ctrl.products.SetPicture(c.Request.Context(), product.ID, url)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, product)
}

// Update handles PUT /api/admin/products/:id.
func (ctrl *AdminProductController) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := ctrl.products.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// UploadImage handles POST /api/admin/products/:id/image.
func (ctrl *AdminProductController) UploadImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	url, err := ctrl.saveImage(c, fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}

	product, err := ctrl.products.SetPicture(c.Request.Context(), id, url)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Delete handles DELETE /api/admin/products/:id.
func (ctrl *AdminProductController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.products.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// CreateType handles POST /api/admin/types.
func (ctrl *AdminProductController) CreateType(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := ctrl.products.CreateType(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// Upload handles POST /api/admin/upload/image: a standalone image upload that
// returns the stored URL without touching any product.
func (ctrl *AdminProductController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	url, err := ctrl.saveImage(c, fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (ctrl *AdminProductController) saveImage(c *gin.Context, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	return ctrl.files.Save(c.Request.Context(), fileHeader.Filename, contentType, file)
}
