package controllers

import (
	"net/http"

	"heritage-backend/middleware"
	"heritage-backend/models"
	"heritage-backend/services"

	"github.com/gin-gonic/gin"
)

// OrderController serves order queries and status management.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// List handles GET /api/admin/orders.
func (ctrl *OrderController) List(c *gin.Context) {
	page, limit := pagination(c)
	resp, err := ctrl.orders.GetAllOrders(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/admin/orders/:id.
func (ctrl *OrderController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := ctrl.orders.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order.ToResponse())
}

// GetByCode handles GET /api/admin/orders/code/:orderCode.
func (ctrl *OrderController) GetByCode(c *gin.Context) {
	order, err := ctrl.orders.GetOrderByCode(c.Request.Context(), c.Param("orderCode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order.ToResponse())
}

// ByUser handles GET /api/admin/orders/user/:userId.
func (ctrl *OrderController) ByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	orders, err := ctrl.orders.GetOrdersByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ByStatus handles GET /api/admin/orders/status/:status.
func (ctrl *OrderController) ByStatus(c *gin.Context) {
	status, err := models.ParseOrderStatus(c.Param("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	orders, err := ctrl.orders.GetOrdersByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Paid handles GET /api/admin/orders/paid.
func (ctrl *OrderController) Paid(c *gin.Context) {
	orders, err := ctrl.orders.GetPaidOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// Guest handles GET /api/admin/orders/guest.
func (ctrl *OrderController) Guest(c *gin.Context) {
	page, limit := pagination(c)
	resp, err := ctrl.orders.GetGuestOrders(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Statistics handles GET /api/admin/orders/statistics.
func (ctrl *OrderController) Statistics(c *gin.Context) {
	stats, err := ctrl.orders.GetStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus handles PUT /api/admin/orders/:id/status.
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := ctrl.orders.UpdateOrderStatusByID(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order.ToResponse())
}

// UpdateStatusByCode handles PUT /api/admin/orders/code/:orderCode/status.
func (ctrl *OrderController) UpdateStatusByCode(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	order, err := ctrl.orders.UpdateOrderStatusByCode(c.Request.Context(), c.Param("orderCode"), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order.ToResponse())
}

// Lookup handles GET /api/orders/lookup/:orderCode: the public tracking view
// guests use. It returns the flattened summary, never line items or account
// details.
func (ctrl *OrderController) Lookup(c *gin.Context) {
	order, err := ctrl.orders.GetOrderByCode(c.Request.Context(), c.Param("orderCode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order.ToGuestResponse())
}

// MyOrders handles GET /api/orders/my: the authenticated user's history.
func (ctrl *OrderController) MyOrders(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	orders, err := ctrl.orders.GetOrdersByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
