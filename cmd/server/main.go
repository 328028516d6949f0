package main

import (
	"context"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/omniorder/order-service/config"
	"github.com/omniorder/order-service/internal/events"
	"github.com/omniorder/order-service/internal/order"
	"github.com/omniorder/order-service/internal/server"
	"github.com/omniorder/order-service/pkg/broker"
	"github.com/omniorder/order-service/pkg/cache"
	"github.com/omniorder/order-service/pkg/database/postgres"
	"github.com/omniorder/order-service/pkg/logger"
	"github.com/omniorder/order-service/pkg/search"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	catRepoPkg "github.com/omniorder/order-service/internal/category/repository"
	catUCPkg "github.com/omniorder/order-service/internal/category/usecase"

	invRepoPkg "github.com/omniorder/order-service/internal/inventory/repository"
	invUCPkg "github.com/omniorder/order-service/internal/inventory/usecase"

	notifListenerPkg "github.com/omniorder/order-service/internal/notification/listener"
	notifRepoPkg "github.com/omniorder/order-service/internal/notification/repository"

	orderRepoPkg "github.com/omniorder/order-service/internal/order/repository"
	orderUCPkg "github.com/omniorder/order-service/internal/order/usecase"

	payRepoPkg "github.com/omniorder/order-service/internal/payment/repository"
	payUCPkg "github.com/omniorder/order-service/internal/payment/usecase"

	prodRepoPkg "github.com/omniorder/order-service/internal/product/repository"
	prodUCPkg "github.com/omniorder/order-service/internal/product/usecase"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             "info",
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = cfg.Logger.Encoding
		logConfig.Level = cfg.Logger.Level
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	db, err := postgres.NewPostgres(&postgres.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	producer := broker.NewProducer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
	})
	defer producer.Close()
	appLogger.Info("Connected to Kafka producer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (search falls back to database)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	catRepo := catRepoPkg.NewPGRepository(db)
	prodRepo := prodRepoPkg.NewPGRepository(db)
	invRepo := invRepoPkg.NewPGRepository(db)
	orderRepo := orderRepoPkg.NewPGRepository(db)
	payRepo := payRepoPkg.NewPGRepository(db)
	notifRepo := notifRepoPkg.NewPGRepository(db)

	bus := events.NewBus(cfg.Order.EventBuffer)
	defer bus.Close()

	invUC := invUCPkg.NewInventoryUseCase(invRepo, bus, appLogger)
	machine := order.NewStateMachine(order.TableByName(cfg.Order.StatusFlow))
	orderUC := orderUCPkg.NewOrderUseCase(orderRepo, invUC, machine, bus, redisClient, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(catRepo, appLogger)
	prodUC := prodUCPkg.NewProductUseCase(prodRepo, catRepo, redisClient, esClient, appLogger)
	payUC := payUCPkg.NewPaymentUseCase(payRepo, orderRepo, bus, appLogger)

	bridge := events.NewKafkaBridge(producer, bus.Subscribe(), appLogger)
	notifListener := notifListenerPkg.NewListener(bus.Subscribe(), notifRepo, cfg.Notifications.AlertUser, appLogger)

	srv := server.NewServer(orderUC, prodUC, catUC, payUC, invUC, notifRepo, cfg.Order.GatewayTimeout, appLogger)

	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	httpServer := &http.Server{
		Addr:         port,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		bridge.Start(gCtx)
		return nil
	})
	g.Go(func() error {
		notifListener.Start(gCtx)
		return nil
	})
	g.Go(func() error {
		appLogger.Info("Starting HTTP server", zap.String("port", port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		appLogger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Fatal("Server exited with error", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
