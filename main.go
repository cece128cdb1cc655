package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"heritage-backend/common/logger"
	"heritage-backend/config"
	"heritage-backend/controllers"
	"heritage-backend/database"
	"heritage-backend/repository"
	"heritage-backend/routes"
	"heritage-backend/services"

	"go.uber.org/zap"
)

const basketTTL = 7 * 24 * time.Hour

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	ctx := context.Background()

	// Repositories
	productRepo := repository.NewGormProductRepository(db)
	typeRepo := repository.NewGormTypeRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	addressRepo := repository.NewGormAddressRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	paymentRepo := repository.NewGormPaymentRepository(db)
	basketRepo := repository.NewRedisBasketRepository(redisClient, basketTTL)
	txManager := repository.NewGormTxManager(db)

	// Services
	fileStore, err := services.NewFileStore(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize file storage", zap.Error(err))
	}
	mailer := services.NewSMTPSender(cfg)
	tokens := services.NewTokenService(cfg.JWTSecret, 24*time.Hour)
	userService := services.NewUserService(userRepo, addressRepo)
	productService := services.NewProductService(productRepo, typeRepo)
	basketService := services.NewBasketService(basketRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, userRepo, paymentRepo, txManager, mailer)
	paymentService := services.NewPaymentService(paymentRepo)
	gateway := services.NewPayOSClient(cfg)
	mockPayment := services.NewMockPaymentService(cfg, orderService, paymentService)

	seeder := services.NewSeeder(cfg, typeRepo, productRepo, userRepo, addressRepo)
	if err := seeder.Run(ctx); err != nil {
		logger.Log.Fatal("Database seeding failed", zap.Error(err))
	}

	router := routes.New(cfg, tokens, routes.Controllers{
		Auth:         controllers.NewAuthController(userService, tokens),
		Product:      controllers.NewProductController(productService),
		AdminProduct: controllers.NewAdminProductController(productService, fileStore),
		Basket:       controllers.NewBasketController(basketService),
		Checkout:     controllers.NewCheckoutController(cfg, orderService, paymentService, gateway, mockPayment, basketService),
		Order:        controllers.NewOrderController(orderService),
		Payment:      controllers.NewPaymentController(paymentService),
		Admin:        controllers.NewAdminController(userService, orderService, paymentService, seeder, cfg.SeedingEnabled && !cfg.IsProduction()),
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Log.Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Forced shutdown", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		logger.Log.Warn("Error closing Redis client", zap.Error(err))
	}
	logger.Log.Info("Server stopped")
}
