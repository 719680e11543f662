package main

import (
	"context"
	"fmt"
	"log"

	"github.com/MuhammadMuzammil21/LocalBites-sub000/configs"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/middlewares"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/repository"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/routes"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/services"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/ws"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := configs.LoadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// DB
	configs.ConnectionDB(cfg.DBSource)
	db := configs.DB()
	configs.SetupDatabase()
	if err := configs.SeedAdmin(); err != nil {
		sugar.Fatalw("seed admin failed", "err", err)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	restRepo := repository.NewRestaurantRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	payRepo := repository.NewPaymentRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// Notification stream
	hub := ws.NewNotifyHub(sugar)
	go hub.Run()

	// Services
	notifSvc := services.NewNotificationService(notifRepo, sugar, cfg.NotificationTTL)
	notifSvc.Pub = hub

	gateway := services.NewHTTPGateway(cfg.GatewayBaseURL, cfg.GatewaySecretKey, cfg.GatewayTimeout)
	paySvc := services.NewPaymentService(db, payRepo, orderRepo, restRepo, gateway, notifSvc, sugar, cfg.GatewayTimeout)

	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	cartSvc := services.NewCartService(db, cartRepo, menuRepo)
	orderSvc := services.NewOrderService(db, orderRepo, cartRepo, menuRepo, restRepo, notifSvc, sugar, services.PricingFromConfig(cfg))
	orderSvc.Payments = paySvc
	reviewSvc := services.NewReviewService(db, reviewRepo, orderRepo, restRepo, notifSvc)

	// Background sweeps
	ctx := context.Background()
	go notifSvc.RunTTLSweep(ctx, cfg.SweepInterval)

	reconcile := services.NewReconcileService(db, payRepo, orderRepo, sugar)
	go reconcile.Run(ctx, cfg.ReconcileInterval)

	// HTTP
	r := gin.Default()
	r.Use(middlewares.CORSMiddleware())

	routes.RegisterRoutes(r, &routes.Deps{
		Cfg:           cfg,
		Auth:          authSvc,
		Carts:         cartSvc,
		Orders:        orderSvc,
		Payments:      paySvc,
		Reviews:       reviewSvc,
		Notifications: notifSvc,
		RestRepo:      restRepo,
		MenuRepo:      menuRepo,
		Hub:           hub,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	sugar.Infow("server starting", "addr", addr)
	if err := r.Run(addr); err != nil {
		sugar.Fatalw("server stopped", "err", err)
	}
}
