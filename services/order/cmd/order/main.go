package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	pkgdb "github.com/omerfaruksaribal/ShopKit/pkg/db"
	"github.com/omerfaruksaribal/ShopKit/pkg/logging"
	loggingmw "github.com/omerfaruksaribal/ShopKit/pkg/middleware/logging"
	"github.com/omerfaruksaribal/ShopKit/pkg/mykafka"

	ordercfg "github.com/omerfaruksaribal/ShopKit/services/order/internal/config"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/httpserver"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/idempotency"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/metrics"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/payment"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/repo"
	"github.com/omerfaruksaribal/ShopKit/services/order/internal/service"
)

func main() {
	cfg := ordercfg.Load("services/order/.env")

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.OpenDriver(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}

	orderRepo := &repo.GormRepo{DB: db}
	if err := orderRepo.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}
	cancel()

	var events service.EventPublisher
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers, cfg.OrderEventsTopic)
		events = producer
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers, "topic", producer.Topic())
	} else {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS not set")
	}

	var idem idempotency.Store
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = idempotency.NewRedisClient(cfg.RedisAddr)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			log.Fatalf("redis ping: %v", err)
		}
		idem = idempotency.NewRedisStore(rdb)
	} else {
		logger.Warn("redis_disabled", "reason", "REDIS_ADDR not set, idempotency keys kept in memory")
		idem = idempotency.NewMemoryStore()
	}

	pay := payment.FromSettings(cfg.PaymentSuccessRate, cfg.PaymentForce)
	m := metrics.New()

	orderSvc := &service.OrderService{Repo: orderRepo, Payment: pay, Events: events, Metrics: m}
	fulfillmentSvc := &service.FulfillmentService{Repo: orderRepo, Events: events, Metrics: m}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler:  &httpserver.OrderHTTP{Svc: orderSvc, Idem: idem},
		SellerHandler: &httpserver.SellerHTTP{Svc: fulfillmentSvc},
		JWTSecret:     cfg.JWTAccessSecret,
		Metrics:       m.Handler(),
		Ready: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("order_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka_close_error", "error", err)
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("order_stopped")
}
