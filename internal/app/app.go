// Package app wires the service's dependencies together.
package app

import (
	"errors"
	"fmt"

	"ongkir-service/config"
	"ongkir-service/internal/api"
	"ongkir-service/internal/broker"
	"ongkir-service/internal/rajaongkir"
	"ongkir-service/internal/redisclient"
	"ongkir-service/internal/service"
	"ongkir-service/internal/store"
	"ongkir-service/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App holds the long-lived resources shared by every request
type App struct {
	Config   *config.Config
	Store    *store.Store
	Redis    *redisclient.Client
	Producer *broker.Producer
	Router   *gin.Engine

	logger *zap.Logger
}

// New connects to the database and the optional Redis and Kafka backends,
// then builds the services and the router.
func New(cfg *config.Config) (*App, error) {
	logger := util.GetLogger()

	db, err := store.NewStore(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	return build(cfg, db), nil
}

// build assembles the application around an open store
func build(cfg *config.Config, db *store.Store) *App {
	a := &App{
		Config: cfg,
		Store:  db,
		logger: util.GetLogger(),
	}

	rates := rajaongkir.NewClient(cfg.RajaOngkir.BaseURL, cfg.RajaOngkir.APIKey, cfg.RajaOngkir.Timeout)

	var publisher service.OrderEventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		a.Producer = broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicOrder)
		publisher = broker.NewEventPublisher(a.Producer)
		a.logger.Info("Kafka producer initialized",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.TopicOrder))
	} else {
		a.logger.Info("KAFKA_BROKERS not set, order events disabled")
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			a.logger.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
		} else {
			a.Redis = rdb
			a.logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))
		}
	}

	productService := service.NewProductService(db)
	orderService := service.NewOrderService(db, rates, publisher)

	handler := api.NewHandler(productService, orderService, rates, db)
	if a.Redis != nil {
		handler.WithRateLimiter(a.Redis, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		handler.WithDependency("redis", a.Redis)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a.Router = gin.New()
	// Rate limiting keys on the client IP, so forwarded headers are only
	// honoured from configured proxies.
	if err := a.Router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		a.logger.Warn("Invalid TRUSTED_PROXIES, trusting no proxy", zap.Error(err))
		_ = a.Router.SetTrustedProxies(nil)
	}
	handler.SetupRoutes(a.Router)

	return a
}

// Close releases resources in reverse order of acquisition
func (a *App) Close() error {
	var errs []error

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if a.Producer != nil {
		if err := a.Producer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka producer: %w", err))
		}
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}

	return errors.Join(errs...)
}
