package main

import (
	"log"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/gateway"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.GoEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	gormDB, err := db.Connect()
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Restaurant{},
		&model.Category{},
		&model.MenuItem{},
		&model.MenuItemVariant{},
		&model.CartLine{},
		&model.Order{},
		&model.OrderLine{},
		&model.PaymentTransaction{},
		&model.AuditLog{},
	); err != nil {
		logger.Fatal("auto migrate failed", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	restaurantRepo := infraRepo.NewRestaurantGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	menuItemRepo := infraRepo.NewMenuItemGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderLineRepo := infraRepo.NewOrderLineGormRepository(gormDB)
	paymentRepo := infraRepo.NewPaymentGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//決済ゲートウェイ（環境変数で切り替え）
	gw := newGateway(cfg)
	logger.Info("payment gateway selected", zap.String("provider", gw.Name()))

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo)
	restaurantUC := usecase.NewRestaurantUsecase(restaurantRepo, userRepo)
	adminUC := usecase.NewAdminUsecase(txm, restaurantRepo, auditRepo, logger)
	menuUC := usecase.NewMenuUsecase(restaurantRepo, categoryRepo, menuItemRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, menuItemRepo, restaurantRepo)
	orderUC := usecase.NewOrderUsecase(cfg, txm, orderRepo, orderLineRepo, logger)
	paymentUC := usecase.NewPaymentUsecase(cfg, gw, txm, orderRepo, paymentRepo, logger)
	analyticsUC := usecase.NewAnalyticsUsecase(restaurantRepo, orderRepo, menuItemRepo)

	//Handler生成
	deps := server.Deps{
		Users:       userRepo,
		Auth:        handler.NewAuthHandler(authUC),
		Restaurants: handler.NewRestaurantHandler(restaurantUC, analyticsUC),
		Menus:       handler.NewMenuHandler(menuUC),
		Carts:       handler.NewCartHandler(cartUC),
		Orders:      handler.NewOrderHandler(orderUC),
		Payments:    handler.NewPaymentHandler(paymentUC, cfg.PaymentProvider),
		Admin:       handler.NewAdminHandler(adminUC, analyticsUC),
	}

	e := server.New(cfg, logger, deps)
	if err := server.Start(e, cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(goEnv string) (*zap.Logger, error) {
	if goEnv == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newGateway(cfg config.Config) gateway.PaymentGateway {
	if cfg.PaymentProvider == config.ProviderRazorpay {
		return gateway.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayWebhookSecret)
	}
	return gateway.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.FEURL)
}
