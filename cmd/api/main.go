package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/grocerly/storefront-api/api/routes"
	"github.com/grocerly/storefront-api/internal/address"
	"github.com/grocerly/storefront-api/internal/cart"
	"github.com/grocerly/storefront-api/internal/catalog"
	"github.com/grocerly/storefront-api/internal/demand"
	"github.com/grocerly/storefront-api/internal/orders"
	"github.com/grocerly/storefront-api/internal/sequence"
	"github.com/grocerly/storefront-api/pkg/access"
	"github.com/grocerly/storefront-api/pkg/config"
	"github.com/grocerly/storefront-api/pkg/db"
	"github.com/grocerly/storefront-api/pkg/env"
	"github.com/grocerly/storefront-api/pkg/logger"
	"github.com/grocerly/storefront-api/pkg/metrics"
	"github.com/grocerly/storefront-api/pkg/migrate"
	pkgredis "github.com/grocerly/storefront-api/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)

	closers := []func() error{dbClient.Close}
	defer func() {
		var errs error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = multierr.Append(errs, closers[i]())
		}
		if errs != nil {
			logg.Error(context.Background(), "error closing resources", errs)
		}
	}()

	requireResource(ctx, logg, "dev migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	deps := routes.Deps{
		DB:     dbClient,
		Policy: access.DefaultPolicy(),
	}

	var counter pkgredis.Counter
	if cfg.NeedsRedis() {
		redisClient, err := pkgredis.New(ctx, cfg.Redis, logg)
		requireResource(ctx, logg, "redis", err)
		closers = append(closers, redisClient.Close)
		counter = redisClient
		deps.Redis = redisClient
		if cfg.FeatureFlags.Idempotency {
			deps.Idempotency = redisClient
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	orderMetrics := metrics.NewOrderMetrics(reg)
	deps.HTTPMetrics = metrics.NewHTTPMetrics(reg)
	deps.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	gdb := dbClient.DB()
	catalogRepo := catalog.NewRepository(gdb)
	addressRepo := address.NewRepository(gdb)

	deps.Catalog, err = catalog.NewService(catalogRepo, dbClient)
	requireResource(ctx, logg, "catalog service", err)

	deps.Cart, err = cart.NewService(cart.NewRepository(gdb))
	requireResource(ctx, logg, "cart service", err)

	deps.Address, err = address.NewService(addressRepo)
	requireResource(ctx, logg, "address service", err)

	seq, err := sequence.New(cfg.Orders, gdb, counter)
	requireResource(ctx, logg, "order sequencer", err)

	deps.Orders, err = orders.NewService(orders.Deps{
		Repo:         orders.NewRepository(gdb),
		Tx:           dbClient,
		Addresses:    addressRepo,
		Products:     catalogRepo,
		Sequencer:    seq,
		SequenceName: cfg.Orders.SequenceName,
		Metrics:      orderMetrics,
		Logger:       logg,
	})
	requireResource(ctx, logg, "orders service", err)

	deps.Demand, err = demand.NewService(demand.Deps{
		History:  demand.NewRepository(gdb),
		Products: catalogRepo,
		Config:   cfg.Demand,
		Metrics:  orderMetrics,
		Logger:   logg,
	})
	requireResource(ctx, logg, "demand service", err)

	// PORT is set by the hosting platform and wins over GROCER_APP_PORT.
	addr := ":" + env.Get("PORT", cfg.App.Port)
	srvCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:         addr,
		Handler:      routes.NewRouter(cfg, logg, deps),
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(srvCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(srvCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(srvCtx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(srvCtx, "graceful shutdown failed", err)
		}
		logg.Info(srvCtx, "api server stopped")
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to bootstrap "+resource, err)
	os.Exit(1)
}
