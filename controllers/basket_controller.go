package controllers

import (
	"net/http"

	"heritage-backend/models"
	"heritage-backend/services"

	"github.com/gin-gonic/gin"
)

// BasketController serves the Redis-backed cart.
type BasketController struct {
	baskets *services.BasketService
}

func NewBasketController(baskets *services.BasketService) *BasketController {
	return &BasketController{baskets: baskets}
}

// Get handles GET /api/basket/:id.
func (ctrl *BasketController) Get(c *gin.Context) {
	basket, err := ctrl.baskets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, basket)
}

// Save handles POST /api/basket: replaces the basket contents.
func (ctrl *BasketController) Save(c *gin.Context) {
	var basket models.Basket
	if err := c.ShouldBindJSON(&basket); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := ctrl.baskets.Save(c.Request.Context(), &basket)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// Delete handles DELETE /api/basket/:id.
func (ctrl *BasketController) Delete(c *gin.Context) {
	if err := ctrl.baskets.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Basket deleted"})
}
