package http

import (
	"net/http"

	"github.com/fleetlink/fleetlink/internal/delivery/http/middleware"
	"github.com/fleetlink/fleetlink/internal/domain"
	"github.com/fleetlink/fleetlink/internal/pkg/config"
	"github.com/fleetlink/fleetlink/internal/pkg/jwt"
	"github.com/fleetlink/fleetlink/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router holds the dependencies of the HTTP router.
type Router struct {
	authHandler    *AuthHandler
	vehicleHandler *VehicleHandler
	bookingHandler *BookingHandler
	geoHandler     *GeoHandler
	tokenService   *jwt.TokenService
	config         *config.Config
	logger         logger.Logger
}

// NewRouter creates an HTTP router.
func NewRouter(
	authHandler *AuthHandler,
	vehicleHandler *VehicleHandler,
	bookingHandler *BookingHandler,
	geoHandler *GeoHandler,
	tokenService *jwt.TokenService,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		authHandler:    authHandler,
		vehicleHandler: vehicleHandler,
		bookingHandler: bookingHandler,
		geoHandler:     geoHandler,
		tokenService:   tokenService,
		config:         config,
		logger:         logger,
	}
}

// Setup registers all routes.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.authHandler.Register)
			r.Post("/login", rt.authHandler.Login)
		})

		// Geocode/route proxies, used by the map UI
		r.Route("/geo", func(r chi.Router) {
			r.Get("/geocode", rt.geoHandler.Geocode)
			r.Get("/route", rt.geoHandler.Route)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokenService))

			r.Get("/auth/me", rt.authHandler.GetMe)

			r.Route("/vehicles", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(domain.RoleUser))
					r.Get("/available", rt.vehicleHandler.SearchAvailable)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(domain.RoleUser, domain.RoleAdmin))
					r.Get("/{id}", rt.vehicleHandler.GetVehicleByID)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(domain.RoleAdmin))
					r.Post("/", rt.vehicleHandler.CreateVehicle)
					r.Get("/me", rt.vehicleHandler.GetMyVehicles)
					r.Put("/{id}", rt.vehicleHandler.UpdateVehicle)
					r.Delete("/{id}", rt.vehicleHandler.DeleteVehicle)
				})
			})

			r.Route("/bookings", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(domain.RoleUser))
					r.Post("/", rt.bookingHandler.CreateBooking)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(domain.RoleUser, domain.RoleAdmin))
					r.Get("/me", rt.bookingHandler.GetMyBookings)
					r.Delete("/{id}", rt.bookingHandler.CancelBooking)
				})
			})
		})
	})

	return r
}
