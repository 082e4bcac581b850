package main

import (
	"net/http"

	"ordersvc/internal/config"
	"ordersvc/internal/db"
	"ordersvc/internal/httpx"
	"ordersvc/internal/logger"
	"ordersvc/internal/metrics"
	"ordersvc/internal/order"
	"ordersvc/internal/payment"
	"ordersvc/internal/product"
	"ordersvc/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	m := metrics.New()

	orderRepo := order.NewRepository(database)
	productClient := product.NewClient(cfg.ProductSvcURL)
	userClient := user.NewClient(cfg.UserSvcURL)
	gateway := payment.NewSimulatedGateway()

	orderSvc := order.NewService(orderRepo, productClient, userClient, gateway, m)

	router := httpx.NewRouter(orderSvc, m, []byte(cfg.JWTSecret))

	logger.L().Info("order service listening",
		zap.String("port", cfg.AppPort),
		zap.String("product_service", cfg.ProductSvcURL),
		zap.String("user_service", cfg.UserSvcURL),
	)

	if err := http.ListenAndServe(":"+cfg.AppPort, router); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
