package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	fulfillmentapp "github.com/foodworks/backend/internal/application/fulfillment"
	productionapp "github.com/foodworks/backend/internal/application/production"
	stockapp "github.com/foodworks/backend/internal/application/stock"
	stocktakingapp "github.com/foodworks/backend/internal/application/stocktaking"
	transferapp "github.com/foodworks/backend/internal/application/transfer"
	"github.com/foodworks/backend/internal/infrastructure/config"
	"github.com/foodworks/backend/internal/infrastructure/event"
	"github.com/foodworks/backend/internal/infrastructure/logger"
	"github.com/foodworks/backend/internal/infrastructure/persistence"
	"github.com/foodworks/backend/internal/infrastructure/rates"
	"github.com/foodworks/backend/internal/interfaces/http/handler"
	"github.com/foodworks/backend/internal/interfaces/http/middleware"
	"github.com/foodworks/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting foodworks backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis is only dialed when the rate provider needs it
	var redisClient *redis.Client
	if cfg.Rates.Provider == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			_ = redisClient.Close()
		}()
	}

	rateProvider, err := rates.NewProvider(cfg.Rates, redisClient)
	if err != nil {
		log.Fatal("Failed to initialize rate provider", zap.Error(err))
	}
	log.Info("Rate provider initialized", zap.String("provider", cfg.Rates.Provider))

	// Repositories
	balanceRepo := persistence.NewGormStockBalanceRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	transferRepo := persistence.NewGormTransferRepository(db.DB)
	takingRepo := persistence.NewGormStockTakingRepository(db.DB)
	recipeCatalog := persistence.NewGormRecipeCatalog(db.DB)

	// Transaction scopes
	ledgerScope := persistence.NewGormLedgerTransactionScope(db.DB)
	productionScope := persistence.NewGormProductionTransactionScope(db.DB)
	transferScope := persistence.NewGormTransferTransactionScope(db.DB)
	takingScope := persistence.NewGormStockTakingTransactionScope(db.DB)

	// Event bus with audit trail
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	// Application services
	ledgerService := stockapp.NewLedgerService(ledgerScope, balanceRepo, movementRepo, rateProvider)
	ledgerService.SetEventPublisher(eventBus)
	ledgerService.SetRetries(cfg.Ledger.ConflictRetries)

	productionService := productionapp.NewProductionService(productionScope, batchRepo, balanceRepo, recipeCatalog)
	productionService.SetEventPublisher(eventBus)

	transferService := transferapp.NewTransferService(transferScope, transferRepo)
	transferService.SetEventPublisher(eventBus)

	stockTakingService := stocktakingapp.NewStockTakingService(takingScope, takingRepo, balanceRepo)
	stockTakingService.SetEventPublisher(eventBus)

	fulfillmentService := fulfillmentapp.NewService(ledgerScope, rateProvider)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSystemHandler(db))
	r.Register(handler.NewStockHandler(ledgerService))
	r.Register(handler.NewProductionHandler(productionService))
	r.Register(handler.NewTransferHandler(transferService))
	r.Register(handler.NewStockTakingHandler(stockTakingService))
	r.Register(handler.NewFulfillmentHandler(fulfillmentService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
