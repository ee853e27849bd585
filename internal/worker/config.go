// Package worker provides the schedule seed job.
package worker

import (
	"os"
	"time"
)

// SeedConfig holds configuration for the seed job.
type SeedConfig struct {
	// DatasetPath is the JSON file containing locations and transportations
	// to load.
	DatasetPath string

	// Timeout bounds the whole seed run.
	// Default: 5 minutes
	Timeout time.Duration
}

// DefaultSeedConfig returns seed configuration from the environment.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		DatasetPath: getEnvOrDefault("SEED_DATASET_PATH", "seed/dataset.json"),
		Timeout:     5 * time.Minute,
	}
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
