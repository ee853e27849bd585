package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/flightroutes/flightroutes/internal/api/models"
	"github.com/flightroutes/flightroutes/internal/location"
	"github.com/flightroutes/flightroutes/internal/transportation"
)

// Dataset is the JSON schema of a seed file.
type Dataset struct {
	Locations       []DatasetLocation       `json:"locations"`
	Transportations []DatasetTransportation `json:"transportations"`
}

// DatasetLocation describes one location to load.
type DatasetLocation struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	City     string `json:"city"`
	Code     string `json:"locationCode"`
	IsAnchor bool   `json:"isAnchor"`
}

// DatasetTransportation describes one edge to load. Endpoints are referenced
// by location code so datasets stay readable and order-independent.
type DatasetTransportation struct {
	OriginCode      string `json:"originLocationCode"`
	DestinationCode string `json:"destinationLocationCode"`
	Kind            string `json:"transportationType"`
	OperatingDays   []int  `json:"operatingDays"`
}

// SeedResult summarizes one seed run.
type SeedResult struct {
	StartTime        time.Time
	Duration         time.Duration
	LocationsCreated int
	LocationsSkipped int
	EdgesCreated     int
	EdgesSkipped     int
	Failed           int
}

// EventPublisher announces that the schedule changed after a seed run.
type EventPublisher interface {
	ScheduleChanged(ctx context.Context, reason, entityID string)
}

// SeedJob loads a schedule dataset into the store. Runs are idempotent:
// locations already present (by code) and edges already present (by
// endpoints and type) are skipped, never duplicated.
type SeedJob struct {
	config                SeedConfig
	locationService       *location.Service
	transportationService *transportation.Service
	publisher             EventPublisher
	logger                zerolog.Logger
}

// SeedJobConfig holds dependencies for creating a SeedJob.
type SeedJobConfig struct {
	Config                SeedConfig
	LocationService       *location.Service
	TransportationService *transportation.Service
	Publisher             EventPublisher
	Logger                zerolog.Logger
}

// NewSeedJob creates a new seed job.
func NewSeedJob(cfg SeedJobConfig) *SeedJob {
	return &SeedJob{
		config:                cfg.Config,
		locationService:       cfg.LocationService,
		transportationService: cfg.TransportationService,
		publisher:             cfg.Publisher,
		logger:                cfg.Logger.With().Str("component", "seed_job").Logger(),
	}
}

// Run loads the dataset file and applies it to the store.
func (j *SeedJob) Run(ctx context.Context) (*SeedResult, error) {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	dataset, err := LoadDataset(j.config.DatasetPath)
	if err != nil {
		return nil, err
	}

	result := &SeedResult{StartTime: time.Now()}

	j.seedLocations(ctx, dataset.Locations, result)
	j.seedTransportations(ctx, dataset.Transportations, result)

	result.Duration = time.Since(result.StartTime)

	if j.publisher != nil && (result.LocationsCreated > 0 || result.EdgesCreated > 0) {
		j.publisher.ScheduleChanged(ctx, "seed_completed", "")
	}

	j.logger.Info().
		Int("locations_created", result.LocationsCreated).
		Int("locations_skipped", result.LocationsSkipped).
		Int("edges_created", result.EdgesCreated).
		Int("edges_skipped", result.EdgesSkipped).
		Int("failed", result.Failed).
		Dur("duration", result.Duration).
		Msg("seed run completed")

	if result.Failed > 0 {
		return result, fmt.Errorf("seed run had %d failures", result.Failed)
	}
	return result, nil
}

// LoadDataset reads and parses a dataset file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var dataset Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	return &dataset, nil
}

func (j *SeedJob) seedLocations(ctx context.Context, locations []DatasetLocation, result *SeedResult) {
	for _, l := range locations {
		_, err := j.locationService.Create(ctx, &models.LocationCreateRequest{
			Name:     l.Name,
			Country:  l.Country,
			City:     l.City,
			Code:     l.Code,
			IsAnchor: l.IsAnchor,
		})
		switch {
		case err == nil:
			result.LocationsCreated++
		case errors.Is(err, location.ErrCodeTaken):
			result.LocationsSkipped++
		default:
			result.Failed++
			j.logger.Error().Err(err).Str("code", l.Code).Msg("seeding location failed")
		}
	}
}

func (j *SeedJob) seedTransportations(ctx context.Context, edges []DatasetTransportation, result *SeedResult) {
	for _, e := range edges {
		origin, err := j.locationService.GetByCode(ctx, e.OriginCode)
		if err != nil {
			result.Failed++
			j.logger.Error().Err(err).Str("code", e.OriginCode).Msg("resolving edge origin failed")
			continue
		}
		destination, err := j.locationService.GetByCode(ctx, e.DestinationCode)
		if err != nil {
			result.Failed++
			j.logger.Error().Err(err).Str("code", e.DestinationCode).Msg("resolving edge destination failed")
			continue
		}

		_, err = j.transportationService.Create(ctx, &models.TransportationCreateRequest{
			OriginID:      origin.ID,
			DestinationID: destination.ID,
			Kind:          e.Kind,
			OperatingDays: e.OperatingDays,
		})
		switch {
		case err == nil:
			result.EdgesCreated++
		case errors.Is(err, transportation.ErrDuplicateEdge):
			result.EdgesSkipped++
		default:
			result.Failed++
			j.logger.Error().Err(err).
				Str("origin", e.OriginCode).
				Str("destination", e.DestinationCode).
				Str("type", e.Kind).
				Msg("seeding edge failed")
		}
	}
}
