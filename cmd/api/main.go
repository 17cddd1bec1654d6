package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/herbpoint/kiosk-backend/api/routes"
	cartsvc "github.com/herbpoint/kiosk-backend/internal/cart"
	catalogsvc "github.com/herbpoint/kiosk-backend/internal/catalog"
	checkoutsvc "github.com/herbpoint/kiosk-backend/internal/checkout"
	customerssvc "github.com/herbpoint/kiosk-backend/internal/customers"
	devicessvc "github.com/herbpoint/kiosk-backend/internal/devices"
	orderssvc "github.com/herbpoint/kiosk-backend/internal/orders"
	recsvc "github.com/herbpoint/kiosk-backend/internal/recommendations"
	sessionsvc "github.com/herbpoint/kiosk-backend/internal/session"
	storessvc "github.com/herbpoint/kiosk-backend/internal/stores"
	"github.com/herbpoint/kiosk-backend/pkg/config"
	"github.com/herbpoint/kiosk-backend/pkg/db"
	"github.com/herbpoint/kiosk-backend/pkg/logger"
	"github.com/herbpoint/kiosk-backend/pkg/maps"
	"github.com/herbpoint/kiosk-backend/pkg/metrics"
	"github.com/herbpoint/kiosk-backend/pkg/migrate"
	"github.com/herbpoint/kiosk-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	kioskMetrics := metrics.NewKioskMetrics(registry)

	catalogRepo := catalogsvc.NewRepository(dbClient.DB())
	ordersRepo := orderssvc.NewRepository(dbClient.DB())
	storesRepo := storessvc.NewRepository(dbClient.DB())
	devicesRepo := devicessvc.NewRepository(dbClient.DB())
	customersRepo := customerssvc.NewRepository(dbClient.DB())

	scheduler := sessionsvc.NewResetScheduler()

	sessionService, err := sessionsvc.NewService(redisClient, devicesRepo, scheduler, kioskMetrics, logg, cfg.JWT, cfg.Kiosk)
	requireService(logg, "session", err)

	catalogService, err := catalogsvc.NewService(catalogRepo)
	requireService(logg, "catalog", err)

	cartService, err := cartsvc.NewService(redisClient, catalogRepo, storesRepo, cfg.Kiosk)
	requireService(logg, "cart", err)

	recommendationsService, err := recsvc.NewService(redisClient, catalogRepo, cfg.Kiosk)
	requireService(logg, "recommendations", err)

	ordersService, err := orderssvc.NewService(ordersRepo, cfg.Kiosk)
	requireService(logg, "orders", err)

	checkoutService, err := checkoutsvc.NewService(
		cartService,
		sessionService,
		dbClient,
		ordersRepo,
		storesRepo,
		customersRepo,
		redisClient,
		kioskMetrics,
		logg,
	)
	requireService(logg, "checkout", err)

	var storesService storessvc.Service
	if cfg.Mapbox.AccessToken != "" {
		mapsClient, mapsErr := maps.NewClient(cfg.Mapbox.AccessToken)
		requireService(logg, "maps", mapsErr)
		storesService, err = storessvc.NewService(storesRepo, mapsClient, cfg.Kiosk, logg)
	} else {
		logg.Warn(context.Background(), "mapbox token not set, address autocomplete disabled")
		storesService, err = storessvc.NewService(storesRepo, nil, cfg.Kiosk, logg)
	}
	requireService(logg, "stores", err)

	devicesService, err := devicessvc.NewService(devicesRepo, storesRepo)
	requireService(logg, "devices", err)

	customersService, err := customerssvc.NewService(customersRepo, sessionService, cfg.LoginCode, logg)
	requireService(logg, "customers", err)

	router := routes.NewRouter(routes.Deps{
		Config:           cfg,
		Logger:           logg,
		DB:               dbClient,
		Cache:            redisClient,
		IdempotencyStore: redisClient,
		HTTPMetrics:      httpMetrics,
		MetricsHandler:   promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Sessions:         sessionService,
		Catalog:          catalogService,
		Cart:             cartService,
		Recommendations:  recommendationsService,
		Checkout:         checkoutService,
		Orders:           ordersService,
		Customers:        customersService,
		Stores:           storesService,
		Devices:          devicesService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			closeAll(ctx, logg, scheduler, dbClient, redisClient)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "server shutdown failed", err)
	}

	closeAll(ctx, logg, scheduler, dbClient, redisClient)
	logg.Info(ctx, "api server stopped")
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+name+" service", err)
	os.Exit(1)
}

func closeAll(ctx context.Context, logg *logger.Logger, scheduler *sessionsvc.ResetScheduler, dbClient *db.Client, redisClient *redis.Client) {
	scheduler.Stop()

	var errs error
	errs = multierr.Append(errs, dbClient.Close())
	errs = multierr.Append(errs, redisClient.Close())
	if errs != nil {
		logg.Error(ctx, "error closing resources", errs)
	}
}
