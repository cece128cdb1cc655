package controllers

import (
	"net/http"

	"heritage-backend/services"

	"github.com/gin-gonic/gin"
)

// AdminController serves account administration, the combined dashboard and
// the development-only catalog reset.
type AdminController struct {
	users         *services.UserService
	orders        *services.OrderService
	payments      *services.PaymentService
	seeder        *services.Seeder
	allowRecreate bool
}

func NewAdminController(users *services.UserService, orders *services.OrderService, payments *services.PaymentService, seeder *services.Seeder, allowRecreate bool) *AdminController {
	return &AdminController{
		users:         users,
		orders:        orders,
		payments:      payments,
		seeder:        seeder,
		allowRecreate: allowRecreate,
	}
}

// ListUsers handles GET /api/admin/users.
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	users, err := ctrl.users.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// Dashboard handles GET /api/admin/dashboard: order and payment aggregates
// in one response.
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	orderStats, err := ctrl.orders.GetStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	paymentStats, err := ctrl.payments.GetStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":   orderStats,
		"payments": paymentStats,
	})
}

// RecreateData handles POST /api/admin/recreate-data. It wipes and reseeds
// the catalog; only available outside production with seeding enabled.
func (ctrl *AdminController) RecreateData(c *gin.Context) {
	if !ctrl.allowRecreate {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if err := ctrl.seeder.Recreate(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Catalog data recreated"})
}
