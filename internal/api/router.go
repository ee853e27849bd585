// Package api provides the HTTP API for the flight routes service.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/flightroutes/flightroutes/internal/api/handler"
	"github.com/flightroutes/flightroutes/internal/api/middleware"
	"github.com/flightroutes/flightroutes/internal/auth"
	"github.com/flightroutes/flightroutes/internal/location"
	"github.com/flightroutes/flightroutes/internal/route"
	"github.com/flightroutes/flightroutes/internal/transportation"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version               string
	BuildTime             string
	Logger                zerolog.Logger
	ServiceName           string
	Metrics               *middleware.Metrics
	Database              handler.Pinger
	JWTService            *auth.JWTService
	AuthService           *auth.Service
	LocationService       *location.Service
	TransportationService *transportation.Service
	RouteService          *route.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "flightroutes-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Database)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	locationHandler := handler.NewLocationHandler(cfg.LocationService)
	transportationHandler := handler.NewTransportationHandler(cfg.TransportationService)
	routeHandler := handler.NewRouteHandler(cfg.RouteService)
	metadataHandler := handler.NewMetadataHandler()

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.JWTService)
	adminOnly := middleware.RequireRole(auth.RoleAdmin)
	anyOperator := middleware.RequireRole(auth.RoleAdmin, auth.RoleAgency)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)         // 10 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/login", authHandler.Login)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Metadata endpoints (public) - standard rate limiting
		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/enums", metadataHandler.GetEnums)
		})

		// Route search - expensive compute, any authenticated operator
		r.Route("/routes", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(anyOperator)
			r.Use(middleware.RateLimitByOperator(middleware.ExpensiveRateLimit))
			r.Post("/search", routeHandler.SearchRoutes)
			r.Post("/alternative-days", routeHandler.AlternativeDays)
		})

		// Location administration - reads for any operator, writes admin only
		r.Route("/locations", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByOperator(middleware.StandardRateLimit))
			r.With(anyOperator).Get("/", locationHandler.ListLocations)
			r.With(adminOnly).Post("/", locationHandler.CreateLocation)
			r.Route("/{locationId}", func(r chi.Router) {
				r.With(anyOperator).Get("/", locationHandler.GetLocation)
				r.With(adminOnly).Put("/", locationHandler.UpdateLocation)
				r.With(adminOnly).Delete("/", locationHandler.DeleteLocation)
			})
		})

		// Transportation administration - reads for any operator, writes admin only
		r.Route("/transportations", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByOperator(middleware.StandardRateLimit))
			r.With(anyOperator).Get("/", transportationHandler.ListTransportations)
			r.With(adminOnly).Post("/", transportationHandler.CreateTransportation)
			r.Route("/{transportationId}", func(r chi.Router) {
				r.With(anyOperator).Get("/", transportationHandler.GetTransportation)
				r.With(adminOnly).Put("/", transportationHandler.UpdateTransportation)
				r.With(adminOnly).Delete("/", transportationHandler.DeleteTransportation)
			})
		})
	})

	return r
}
