package route

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/flightroutes/flightroutes/internal/routecache"
)

const (
	// ItineraryCacheTTL bounds how long a computed itinerary list is served
	// without recomputation. Schedule writes invalidate earlier.
	ItineraryCacheTTL = 2 * time.Minute

	// WeekdayCacheTTL bounds the alternative-day lookups, which change far
	// less often than dated searches.
	WeekdayCacheTTL = 15 * time.Minute
)

// Service answers route searches through a result cache. Identical concurrent
// requests are coalesced into a single store computation, and any schedule
// write flushes both caches via InvalidateAll.
type Service struct {
	finder      *Finder
	itineraries *routecache.Cache[[]Itinerary]
	weekdays    *routecache.Cache[[]int]
	logger      zerolog.Logger
}

func NewService(finder *Finder, logger zerolog.Logger) *Service {
	return &Service{
		finder:      finder,
		itineraries: routecache.New[[]Itinerary](ItineraryCacheTTL),
		weekdays:    routecache.New[[]int](WeekdayCacheTTL),
		logger:      logger.With().Str("component", "route_service").Logger(),
	}
}

// SearchRoutes returns every itinerary from origin to destination on date.
// Results are cached per (origin, destination, date) tuple.
func (s *Service) SearchRoutes(ctx context.Context, originCode, destinationCode string, date time.Time) ([]Itinerary, error) {
	key := searchKey(originCode, destinationCode) + ":" + date.Format("2006-01-02")
	return s.itineraries.Get(ctx, key, func(ctx context.Context) ([]Itinerary, error) {
		return s.finder.FindItineraries(ctx, originCode, destinationCode, date)
	})
}

// AlternativeDays returns the sorted union of ISO weekdays on which any
// direct flight between the resolved anchor sets operates.
func (s *Service) AlternativeDays(ctx context.Context, originCode, destinationCode string) ([]int, error) {
	key := searchKey(originCode, destinationCode)
	return s.weekdays.Get(ctx, key, func(ctx context.Context) ([]int, error) {
		return s.finder.FindAvailableWeekdays(ctx, originCode, destinationCode)
	})
}

// InvalidateAll drops every cached result. Called after any location or
// transportation write, and when a schedule-changed event arrives from
// another instance.
func (s *Service) InvalidateAll(ctx context.Context) {
	s.itineraries.InvalidateAll()
	s.weekdays.InvalidateAll()
	s.logger.Debug().Ctx(ctx).
		Uint64("generation", s.itineraries.Generation()).
		Msg("route caches invalidated")
}

func searchKey(originCode, destinationCode string) string {
	return strings.ToUpper(strings.TrimSpace(originCode)) + ":" + strings.ToUpper(strings.TrimSpace(destinationCode))
}
