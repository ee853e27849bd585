// Package main provides the entrypoint for the schedule seed worker.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/flightroutes/flightroutes/internal/database"
	"github.com/flightroutes/flightroutes/internal/events"
	"github.com/flightroutes/flightroutes/internal/location"
	"github.com/flightroutes/flightroutes/internal/transportation"
	"github.com/flightroutes/flightroutes/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "flightroutes-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting schedule seed worker")

	ctx := context.Background()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Optional Pub/Sub publisher so API instances drop their caches after
	// the seed run.
	var publisher *events.Publisher
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		publisher, err = events.NewPublisher(ctx, events.PublisherConfig{
			ProjectID: projectID,
			TopicName: getEnvOrDefault("SCHEDULE_EVENTS_TOPIC", "schedule-events"),
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize event publisher")
		}
		defer publisher.Close()
	}

	locationRepo := location.NewPostgresRepository(pool)
	transportationRepo := transportation.NewPostgresRepository(pool)
	locationService := location.NewService(locationRepo, nil)
	transportationService := transportation.NewService(transportationRepo, locationRepo, nil)

	job := worker.NewSeedJob(worker.SeedJobConfig{
		Config:                worker.DefaultSeedConfig(),
		LocationService:       locationService,
		TransportationService: transportationService,
		Publisher:             eventPublisher(publisher),
		Logger:                log,
	})

	start := time.Now()
	result, err := job.Run(ctx)
	if err != nil {
		log.Error().Err(err).Dur("duration", time.Since(start)).Msg("seed run failed")
		os.Exit(1)
	}

	log.Info().
		Int("locations_created", result.LocationsCreated).
		Int("edges_created", result.EdgesCreated).
		Dur("duration", result.Duration).
		Msg("seed worker finished")
}

// eventPublisher converts a possibly-nil *events.Publisher into the seed
// job's interface without producing a typed nil.
func eventPublisher(p *events.Publisher) worker.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
