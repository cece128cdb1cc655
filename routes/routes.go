package routes

import (
	"heritage-backend/common/logger"
	"heritage-backend/config"
	"heritage-backend/controllers"
	"heritage-backend/middleware"
	"heritage-backend/services"

	"github.com/gin-gonic/gin"
)

// Controllers bundles every controller the router mounts.
type Controllers struct {
	Auth         *controllers.AuthController
	Product      *controllers.ProductController
	AdminProduct *controllers.AdminProductController
	Basket       *controllers.BasketController
	Checkout     *controllers.CheckoutController
	Order        *controllers.OrderController
	Payment      *controllers.PaymentController
	Admin        *controllers.AdminController
}

// New builds the gin engine with all middleware and routes mounted.
func New(cfg *config.Config, tokens *services.TokenService, ctrl Controllers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimit())

	if cfg.StorageBackend == "local" || cfg.StorageBackend == "" {
		router.Static(cfg.UploadBaseURL, cfg.UploadDir)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)

		authed := auth.Group("", middleware.RequireAuth(tokens))
		{
			authed.GET("/profile", ctrl.Auth.Profile)
			authed.PUT("/profile", ctrl.Auth.UpdateProfile)
			authed.PUT("/password", ctrl.Auth.ChangePassword)
			authed.GET("/addresses", ctrl.Auth.ListAddresses)
			authed.POST("/addresses", ctrl.Auth.AddAddress)
			authed.PUT("/addresses/:id", ctrl.Auth.UpdateAddress)
			authed.DELETE("/addresses/:id", ctrl.Auth.DeleteAddress)
		}
	}

	products := api.Group("/products")
	{
		products.GET("", ctrl.Product.List)
		products.GET("/search", ctrl.Product.Search)
		products.GET("/types", ctrl.Product.Types)
		products.GET("/type/:typeId", ctrl.Product.ByType)
		products.GET("/:id", ctrl.Product.Get)
	}

	basket := api.Group("/basket")
	{
		basket.GET("/:id", ctrl.Basket.Get)
		basket.POST("", ctrl.Basket.Save)
		basket.DELETE("/:id", ctrl.Basket.Delete)
	}

	checkout := api.Group("/checkout")
	{
		checkout.POST("/simple", ctrl.Checkout.Simple)
		checkout.POST("/payos", ctrl.Checkout.PayOS)
		checkout.GET("/payos/return", ctrl.Checkout.Return)
		checkout.POST("/payos/webhook", ctrl.Checkout.Webhook)
		checkout.POST("/mock/:orderCode", ctrl.Checkout.Mock)
		checkout.GET("/order/:orderCode", ctrl.Checkout.OrderDetails)
	}

	api.GET("/orders/lookup/:orderCode", ctrl.Order.Lookup)

	authed := api.Group("", middleware.RequireAuth(tokens))
	{
		authed.GET("/orders/my", ctrl.Order.MyOrders)
		authed.GET("/payments/my", ctrl.Payment.MyPayments)
	}

	admin := api.Group("/admin", middleware.RequireAuth(tokens), middleware.RequireAdmin())
	{
		admin.GET("/users", ctrl.Admin.ListUsers)
		admin.GET("/dashboard", ctrl.Admin.Dashboard)
		admin.POST("/recreate-data", ctrl.Admin.RecreateData)
		admin.POST("/upload/image", ctrl.AdminProduct.Upload)

		admin.GET("/products", ctrl.AdminProduct.List)
		admin.POST("/products", ctrl.AdminProduct.Create)
		admin.PUT("/products/:id", ctrl.AdminProduct.Update)
		admin.POST("/products/:id/image", ctrl.AdminProduct.UploadImage)
		admin.DELETE("/products/:id", ctrl.AdminProduct.Delete)
		admin.POST("/types", ctrl.AdminProduct.CreateType)

		admin.GET("/orders", ctrl.Order.List)
		admin.GET("/orders/paid", ctrl.Order.Paid)
		admin.GET("/orders/guest", ctrl.Order.Guest)
		admin.GET("/orders/statistics", ctrl.Order.Statistics)
		admin.GET("/orders/status/:status", ctrl.Order.ByStatus)
		admin.GET("/orders/user/:userId", ctrl.Order.ByUser)
		admin.GET("/orders/code/:orderCode", ctrl.Order.GetByCode)
		admin.GET("/orders/:id", ctrl.Order.Get)
		admin.PUT("/orders/:id/status", ctrl.Order.UpdateStatus)
		admin.PUT("/orders/code/:orderCode/status", ctrl.Order.UpdateStatusByCode)

		admin.GET("/payments", ctrl.Payment.List)
		admin.GET("/payments/statistics", ctrl.Payment.Statistics)
		admin.GET("/payments/status/:status", ctrl.Payment.ByStatus)
		admin.GET("/payments/code/:paymentCode", ctrl.Payment.ByCode)
		admin.GET("/payments/order/:orderId", ctrl.Payment.ByOrder)
		admin.GET("/payments/:id", ctrl.Payment.Get)
	}

	return router
}
