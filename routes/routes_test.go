package routes

import (
	"net/http"
	"testing"

	"heritage-backend/common/logger"
	"heritage-backend/config"
	"heritage-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	// The s3 backend skips mounting the local static file handler, so the
	// engine builds without touching the filesystem.
	cfg := &config.Config{StorageBackend: "s3"}
	return New(cfg, services.NewTokenService("test-secret", 0), Controllers{})
}

func hasRoute(engine *gin.Engine, method, path string) bool {
	for _, r := range engine.Routes() {
		if r.Method == method && r.Path == path {
			return true
		}
	}
	return false
}

func TestPublicRoutesMounted(t *testing.T) {
	logger.Initialize("test")
	engine := newTestEngine()

	// The guest tracking lookup must be reachable without auth.
	assert.True(t, hasRoute(engine, http.MethodGet, "/api/orders/lookup/:orderCode"))

	assert.True(t, hasRoute(engine, http.MethodPost, "/api/checkout/payos/webhook"))
	assert.True(t, hasRoute(engine, http.MethodGet, "/api/checkout/payos/return"))
	assert.True(t, hasRoute(engine, http.MethodGet, "/api/products"))
}

func TestAdminRoutesMounted(t *testing.T) {
	logger.Initialize("test")
	engine := newTestEngine()

	assert.True(t, hasRoute(engine, http.MethodPost, "/api/admin/recreate-data"))
	assert.True(t, hasRoute(engine, http.MethodPost, "/api/admin/upload/image"))
	assert.True(t, hasRoute(engine, http.MethodGet, "/api/admin/orders/user/:userId"))
	assert.True(t, hasRoute(engine, http.MethodGet, "/api/admin/payments/order/:orderId"))
}
