package main

import (
	"log"
	"net/http"

	"facepay-be/internal/buyer"
	"facepay-be/internal/config"
	"facepay-be/internal/db"
	"facepay-be/internal/logger"
	"facepay-be/internal/middleware"
	"facepay-be/internal/payment"
	"facepay-be/internal/precreate"
	"facepay-be/internal/qr"
	"facepay-be/internal/server"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	gateway, err := payment.NewAlipayGateway(payment.AlipayConfig{
		AppID:      cfg.AlipayAppID,
		PrivateKey: cfg.AlipayPrivateKey,
		PublicKey:  cfg.AlipayPublicKey,
		Production: cfg.AlipayProduction,
	})
	if err != nil {
		log.Fatalf("alipay gateway init: %v", err)
	}

	buyerRepo := buyer.NewRepository(database)
	buyerSvc := buyer.NewService(buyerRepo)

	orderRepo := precreate.NewRepository(database)
	orderSvc := precreate.NewService(
		orderRepo,
		buyerSvc,
		gateway,
		qr.NewRenderer(),
		cfg.CompanyName,
		cfg.QRImageSize,
	)

	handler := server.NewHandler(orderSvc, buyerSvc)
	routes := logger.RequestIDMiddleware(
		logger.LoggingMiddleware(
			middleware.RateLimitMiddleware(handler.Routes()),
		),
	)

	log.Printf("face-to-face payment server running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, routes))
}
