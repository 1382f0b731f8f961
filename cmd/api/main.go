package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/evjoints/admin-backend/api/middleware"
	"github.com/evjoints/admin-backend/api/routes"
	"github.com/evjoints/admin-backend/internal/attachments"
	"github.com/evjoints/admin-backend/internal/auth"
	"github.com/evjoints/admin-backend/internal/customers"
	"github.com/evjoints/admin-backend/internal/loyalty"
	"github.com/evjoints/admin-backend/internal/networks"
	"github.com/evjoints/admin-backend/internal/stations"
	"github.com/evjoints/admin-backend/internal/trips"
	"github.com/evjoints/admin-backend/pkg/config"
	"github.com/evjoints/admin-backend/pkg/db"
	"github.com/evjoints/admin-backend/pkg/logger"
	"github.com/evjoints/admin-backend/pkg/metrics"
	"github.com/evjoints/admin-backend/pkg/migrate"
	"github.com/evjoints/admin-backend/pkg/redis"
)

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
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	conn := dbClient.DB()

	otpStore, err := auth.NewRedisOTPStore(redisClient, cfg.OTP.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create otp store", err)
		os.Exit(1)
	}
	authService, err := auth.NewService(auth.ServiceParams{
		Vendors:   auth.NewRepository(conn),
		OTPStore:  otpStore,
		JWTConfig: cfg.JWT,
		OTPConfig: cfg.OTP,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	networkRepo := networks.NewRepository(conn)
	networkService, err := networks.NewService(networks.ServiceParams{Repo: networkRepo, Logger: logg})
	if err != nil {
		logg.Error(context.Background(), "failed to create network service", err)
		os.Exit(1)
	}

	loyaltyRepo := loyalty.NewRepository(conn)

	stationService, err := stations.NewService(stations.ServiceParams{
		Conn:       conn,
		Repo:       stations.NewRepository(conn),
		Networks:   networkService,
		Reconciler: networks.NewReconciler(networkRepo),
		Loyalty:    loyaltyRepo,
		Logger:     logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create station service", err)
		os.Exit(1)
	}

	customerService, err := customers.NewService(customers.ServiceParams{
		Repo:    customers.NewRepository(conn),
		Loyalty: loyaltyRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	tripService, err := trips.NewService(trips.ServiceParams{Repo: trips.NewRepository(conn)})
	if err != nil {
		logg.Error(context.Background(), "failed to create trip service", err)
		os.Exit(1)
	}

	attachmentService, err := attachments.NewService(attachments.ServiceParams{
		Repo:    attachments.NewRepository(conn),
		BaseDir: cfg.Uploads.BaseDir,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create attachment service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	handler := routes.NewRouter(routes.RouterParams{
		Config:            cfg,
		Logger:            logg,
		DB:                dbClient,
		Redis:             redisClient,
		AuthService:       authService,
		StationService:    stationService,
		NetworkService:    networkService,
		CustomerService:   customerService,
		TripService:       tripService,
		AttachmentService: attachmentService,
		HTTPMetrics:       httpMetrics,
		MetricsGatherer:   registry,
		OTPRateLimit: middleware.OTPRateLimitPolicy{
			Name:        "otp",
			Window:      time.Minute,
			IPLimit:     20,
			MobileLimit: 3,
		},
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
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop:
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "api server stopped")
	}
}
