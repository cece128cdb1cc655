package controllers

import (
	"net/http"

	"heritage-backend/middleware"
	"heritage-backend/models"
	"heritage-backend/services"

	"github.com/gin-gonic/gin"
)

// PaymentController serves payment queries for admins and customers.
type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

// List handles GET /api/admin/payments.
func (ctrl *PaymentController) List(c *gin.Context) {
	page, limit := pagination(c)
	resp, err := ctrl.payments.GetAll(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/admin/payments/:id.
func (ctrl *PaymentController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	payment, err := ctrl.payments.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment.ToResponse())
}

// ByOrder handles GET /api/admin/payments/order/:orderId.
func (ctrl *PaymentController) ByOrder(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	payment, err := ctrl.payments.GetByOrderID(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment.ToResponse())
}

// ByCode handles GET /api/admin/payments/code/:paymentCode.
func (ctrl *PaymentController) ByCode(c *gin.Context) {
	payment, err := ctrl.payments.GetByCode(c.Request.Context(), c.Param("paymentCode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment.ToResponse())
}

// ByStatus handles GET /api/admin/payments/status/:status.
func (ctrl *PaymentController) ByStatus(c *gin.Context) {
	status, err := models.ParsePaymentStatus(c.Param("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	payments, err := ctrl.payments.GetByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// Statistics handles GET /api/admin/payments/statistics.
func (ctrl *PaymentController) Statistics(c *gin.Context) {
	stats, err := ctrl.payments.GetStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// MyPayments handles GET /api/payments/my.
func (ctrl *PaymentController) MyPayments(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	payments, err := ctrl.payments.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
