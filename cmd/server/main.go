package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/lodgeworks/inventory-ledger/config"
	"github.com/lodgeworks/inventory-ledger/internal/adapter/handler"
	"github.com/lodgeworks/inventory-ledger/internal/adapter/notifier"
	"github.com/lodgeworks/inventory-ledger/internal/adapter/storage"
	"github.com/lodgeworks/inventory-ledger/internal/auth"
	"github.com/lodgeworks/inventory-ledger/internal/core/service"
	"github.com/lodgeworks/inventory-ledger/internal/port"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger(cfg.LogLevel)

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect mysql")
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		logger.WithError(err).Fatal("failed to ping mysql")
	}
	logger.Info("connected to mysql")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	var cache port.CacheRepository
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unavailable, idempotency checks disabled")
	} else {
		cache = storage.NewRedisAdapter(rdb)
		logger.Info("connected to redis")
	}

	// Low-stock publisher
	var publisher port.EventPublisher = notifier.NewLogPublisher(logger)
	if cfg.RabbitMQURL != "" {
		rmq, err := notifier.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.LowStockExchange, cfg.LowStockRoutingKey, logger)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect rabbitmq")
		}
		defer rmq.Close()
		publisher = rmq
	}

	mysqlAdapter := storage.NewMySQLAdapter(db)
	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenLifespanHours)*time.Hour)

	ledgerService := service.NewLedgerService(
		mysqlAdapter, mysqlAdapter, mysqlAdapter, mysqlAdapter,
		cache, publisher, logger,
	)
	inventoryService := service.NewInventoryService(mysqlAdapter, logger)
	vendorService := service.NewVendorService(mysqlAdapter)
	reportService := service.NewReportService(mysqlAdapter)
	authService := service.NewAuthService(mysqlAdapter, tokens, logger)

	httpHandler := handler.NewHTTPHandler(
		ledgerService, inventoryService, vendorService, reportService,
		authService, tokens, logger,
	)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	httpHandler.RegisterRoutes(router)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info("HTTP server stopped")

	rdb.Close()
	db.Close()
	logger.Info("connections closed")
}
