// Package main provides the entrypoint for the flight routes API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/flightroutes/flightroutes/internal/api"
	"github.com/flightroutes/flightroutes/internal/api/middleware"
	"github.com/flightroutes/flightroutes/internal/auth"
	"github.com/flightroutes/flightroutes/internal/database"
	"github.com/flightroutes/flightroutes/internal/events"
	"github.com/flightroutes/flightroutes/internal/location"
	"github.com/flightroutes/flightroutes/internal/resilience"
	"github.com/flightroutes/flightroutes/internal/route"
	"github.com/flightroutes/flightroutes/internal/telemetry"
	"github.com/flightroutes/flightroutes/internal/transportation"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// scheduleInvalidator flushes the local route caches and tells the other
// instances to do the same.
type scheduleInvalidator struct {
	routes    *route.Service
	publisher *events.Publisher
}

func (s *scheduleInvalidator) InvalidateAll(ctx context.Context) {
	s.routes.InvalidateAll(ctx)
	if s.publisher != nil {
		s.publisher.ScheduleChanged(ctx, "schedule_write", "")
	}
}

func main() {
	const serviceName = "flightroutes-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting flight routes API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     getEnvOrDefault("JWT_ISSUER", "https://api.flightroutes.io"),
		Audience:   getEnvOrDefault("JWT_AUDIENCE", "flightroutes-api"),
	})

	authService := auth.NewService(jwtService, operatorsFromEnv(log), log)
	log.Info().Msg("auth service initialized")

	// Optional Pub/Sub event propagation between instances
	var publisher *events.Publisher
	var listener *events.Listener
	pubsubProject := os.Getenv("PUBSUB_PROJECT_ID")
	if pubsubProject != "" {
		publisher, err = events.NewPublisher(ctx, events.PublisherConfig{
			ProjectID: pubsubProject,
			TopicName: getEnvOrDefault("SCHEDULE_EVENTS_TOPIC", "schedule-events"),
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize event publisher")
		}
		defer publisher.Close()
	} else {
		log.Warn().Msg("PUBSUB_PROJECT_ID not set - cache invalidation is instance-local only")
	}

	// Repositories and services
	locationRepo := location.NewPostgresRepository(pool)
	transportationRepo := transportation.NewPostgresRepository(pool)

	invalidator := &scheduleInvalidator{publisher: publisher}
	locationService := location.NewService(locationRepo, invalidator)
	transportationService := transportation.NewService(transportationRepo, locationRepo, invalidator)

	// Route search over a circuit-breaker guarded schedule store
	guardedStore := route.NewGuardedStore(transportationRepo, resilience.DefaultCircuitBreakerConfig("schedule-store"))
	finder := route.NewFinder(locationService, guardedStore, log)
	routeService := route.NewService(finder, log)
	invalidator.routes = routeService
	log.Info().Msg("route service initialized")

	if publisher != nil {
		subscription := os.Getenv("SCHEDULE_EVENTS_SUBSCRIPTION")
		if subscription == "" {
			log.Warn().Msg("SCHEDULE_EVENTS_SUBSCRIPTION not set - not listening for remote schedule changes")
		} else {
			listener, err = events.NewListener(ctx, events.ListenerConfig{
				ProjectID:        pubsubProject,
				SubscriptionName: subscription,
				Invalidator:      routeService,
				Logger:           log,
			})
			if err != nil {
				log.Fatal().Err(err).Msg("failed to initialize event listener")
			}
			defer listener.Close()
		}
	}

	listenerCtx, stopListener := context.WithCancel(ctx)
	defer stopListener()
	if listener != nil {
		go func() {
			if err := listener.Start(listenerCtx); err != nil && listenerCtx.Err() == nil {
				log.Error().Err(err).Msg("event listener stopped")
			}
		}()
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:               Version,
		BuildTime:             BuildTime,
		Logger:                log,
		ServiceName:           serviceName,
		Metrics:               metrics,
		Database:              pool,
		JWTService:            jwtService,
		AuthService:           authService,
		LocationService:       locationService,
		TransportationService: transportationService,
		RouteService:          routeService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	stopListener()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// operatorsFromEnv reads the fixed operator accounts. Password hashes are
// bcrypt, produced with auth.HashPassword.
func operatorsFromEnv(log zerolog.Logger) []auth.Operator {
	var operators []auth.Operator

	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		operators = append(operators, auth.Operator{
			Username:     getEnvOrDefault("ADMIN_USERNAME", "admin"),
			PasswordHash: hash,
			Role:         auth.RoleAdmin,
		})
	}
	if hash := os.Getenv("AGENCY_PASSWORD_HASH"); hash != "" {
		operators = append(operators, auth.Operator{
			Username:     getEnvOrDefault("AGENCY_USERNAME", "agency"),
			PasswordHash: hash,
			Role:         auth.RoleAgency,
		})
	}

	if len(operators) == 0 {
		log.Warn().Msg("no operator credentials configured - all logins will fail")
	}
	return operators
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
