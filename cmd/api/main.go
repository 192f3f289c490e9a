package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/fleetlink/fleetlink/internal/delivery/http"
	"github.com/fleetlink/fleetlink/internal/infrastructure/geo"
	"github.com/fleetlink/fleetlink/internal/pkg/config"
	"github.com/fleetlink/fleetlink/internal/pkg/database"
	"github.com/fleetlink/fleetlink/internal/pkg/jwt"
	"github.com/fleetlink/fleetlink/internal/pkg/logger"
	"github.com/fleetlink/fleetlink/internal/pkg/redis"
	"github.com/fleetlink/fleetlink/internal/repository/postgres"
	"github.com/fleetlink/fleetlink/internal/usecase/auth"
	"github.com/fleetlink/fleetlink/internal/usecase/booking"
	"github.com/fleetlink/fleetlink/internal/usecase/vehicle"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format)
	log.Info("Starting FleetLink API server")

	ctx := context.Background()
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("Failed to apply database schema", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"database": cfg.Database.Database,
	})

	userRepo := postgres.NewUserRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)

	var geoClient geo.Client = geo.NewHTTPClient(
		cfg.Geo.NominatimURL,
		cfg.Geo.OSRMURL,
		cfg.Geo.CountryCode,
		cfg.Geo.Timeout,
	)

	// Redis is optional: without it geocode lookups hit Nominatim every time.
	cache, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis is not available, geocode caching disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer func() { _ = cache.Close() }()
		geoClient = geo.NewCachedClient(geoClient, cache, cfg.Geo.CacheTTL)
		log.Info("Geocode cache enabled", map[string]interface{}{
			"ttl": cfg.Geo.CacheTTL.String(),
		})
	}

	tokenService := jwt.NewTokenService(cfg.JWT.SecretKey, cfg.JWT.AccessExpiry)

	authService := auth.NewService(userRepo, tokenService, log)
	vehicleService := vehicle.NewService(vehicleRepo, bookingRepo, log)
	bookingService := booking.NewService(bookingRepo, vehicleRepo, log)

	authHandler := deliveryHTTP.NewAuthHandler(authService, log)
	vehicleHandler := deliveryHTTP.NewVehicleHandler(vehicleService, log)
	bookingHandler := deliveryHTTP.NewBookingHandler(bookingService, log)
	geoHandler := deliveryHTTP.NewGeoHandler(geoClient, log)

	router := deliveryHTTP.NewRouter(
		authHandler,
		vehicleHandler,
		bookingHandler,
		geoHandler,
		tokenService,
		cfg,
		log,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})
			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}
