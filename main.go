package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout/internal/cart"
	"github.com/nikolayk812/checkout/internal/checkout"
	"github.com/nikolayk812/checkout/internal/config"
	"github.com/nikolayk812/checkout/internal/domain"
	"github.com/nikolayk812/checkout/internal/events"
	"github.com/nikolayk812/checkout/internal/gateway"
	"github.com/nikolayk812/checkout/internal/httpapi"
	"github.com/nikolayk812/checkout/internal/metrics"
	"github.com/nikolayk812/checkout/internal/port"
	"github.com/nikolayk812/checkout/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("service failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("repository.RunMigrations: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis.ParseURL: %w", err)
		}
		redisClient = redis.NewClient(opts)
		defer func() { _ = redisClient.Close() }()
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.EventsTopic, logger)
	defer func() { _ = publisher.Close() }()

	m := metrics.New()

	gw := gateway.New(&http.Client{}, gateway.Config{
		InventoryURL:     cfg.InventoryURL,
		PromotionsURL:    cfg.PromotionsURL,
		PaymentsURL:      cfg.PaymentsURL,
		CRMURL:           cfg.CRMURL,
		InventoryTimeout: cfg.InventoryTimeout,
		PromotionTimeout: cfg.PromotionTimeout,
		PaymentTimeout:   cfg.PaymentTimeout,
		CRMTimeout:       cfg.CRMTimeout,
	}, m, logger)

	carts := repository.NewCart(pool)
	products := repository.NewProduct(pool)
	orders := repository.NewOrder(pool)
	store := repository.NewCheckoutStore(pool)

	if err := seedProducts(ctx, products, logger); err != nil {
		return fmt.Errorf("seedProducts: %w", err)
	}

	cache := cart.NewRedisCache(redisClient, logger)
	cartSvc := cart.NewService(carts, products, cache, m, logger)
	checkoutSvc := checkout.NewService(
		carts, store, orders, gw, publisher, cache, m, logger,
		checkout.NewEscalationPolicy(cfg.CancelProbability),
	)

	router := httpapi.NewRouter(cartSvc, checkoutSvc, products, m, logger)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("checkout service starting", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server.ListenAndServe: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}

	logger.Info("checkout service stopped")
	return nil
}

// seedProducts loads a demo catalog into an empty database.
func seedProducts(ctx context.Context, products port.ProductRepository, logger *zap.Logger) error {
	existing, err := products.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("products.ListProducts: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	seed := []domain.Product{
		{Name: "Laptop Pro 15", Price: money("1299.99"), Stock: 50, Category: "electronics"},
		{Name: "Wireless Mouse", Price: money("24.99"), Stock: 500, Category: "electronics"},
		{Name: "Mechanical Keyboard", Price: money("89.99"), Stock: 200, Category: "electronics"},
		{Name: "USB-C Hub", Price: money("49.99"), Stock: 300, Category: "accessories"},
		{Name: "Noise Cancelling Headphones", Price: money("199.99"), Stock: 150, Category: "audio"},
		{Name: "4K Monitor", Price: money("399.99"), Stock: 80, Category: "electronics"},
		{Name: "Standing Desk", Price: money("549.99"), Stock: 40, Category: "furniture"},
		{Name: "Ergonomic Chair", Price: money("329.99"), Stock: 60, Category: "furniture"},
	}

	for _, p := range seed {
		if _, err := products.InsertProduct(ctx, p); err != nil {
			return fmt.Errorf("products.InsertProduct[%s]: %w", p.Name, err)
		}
	}

	logger.Info("seeded product catalog", zap.Int("count", len(seed)))
	return nil
}

func money(amount string) domain.Money {
	return domain.Money{
		Amount:   decimal.RequireFromString(amount),
		Currency: currency.USD,
	}
}
