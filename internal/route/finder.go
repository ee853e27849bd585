package route

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/flightroutes/flightroutes/internal/location"
	"github.com/flightroutes/flightroutes/internal/transportation"
)

// Resolver expands a location code into the anchor locations it denotes.
type Resolver interface {
	ResolveAnchors(ctx context.Context, code string) (*location.Location, []*location.Location, error)
}

// ScheduleStore is the slice of the transportation store the search needs.
// Implementations must serve each method from a consistent snapshot.
type ScheduleStore interface {
	FindFlights(ctx context.Context, originIDs, destinationIDs []string, weekday int) ([]*transportation.Edge, error)
	GroundTransfersTo(ctx context.Context, originCity, anchorID string, weekday int) ([]*transportation.Edge, error)
	GroundTransfersFrom(ctx context.Context, anchorID, destinationCity string, weekday int) ([]*transportation.Edge, error)
	UnionOperatingDays(ctx context.Context, originIDs, destinationIDs []string) ([]int, error)
}

// Finder enumerates legal itineraries between two location codes. It is a
// pure computation over the store snapshot; all failures are synchronous and
// nothing is retried here.
type Finder struct {
	resolver Resolver
	store    ScheduleStore
	logger   zerolog.Logger
}

// NewFinder creates a route finder.
func NewFinder(resolver Resolver, store ScheduleStore, logger zerolog.Logger) *Finder {
	return &Finder{resolver: resolver, store: store, logger: logger}
}

// endpoints resolves both codes and applies the shared argument checks.
func (f *Finder) endpoints(ctx context.Context, originCode, destinationCode string) (origin, destination *location.Location, originAnchors, destinationAnchors []*location.Location, err error) {
	origin, originAnchors, err = f.resolver.ResolveAnchors(ctx, originCode)
	if err != nil {
		return nil, nil, nil, nil, resolveErr("origin", originCode, err)
	}

	destination, destinationAnchors, err = f.resolver.ResolveAnchors(ctx, destinationCode)
	if err != nil {
		return nil, nil, nil, nil, resolveErr("destination", destinationCode, err)
	}

	if origin.ID == destination.ID {
		return nil, nil, nil, nil, ErrSameLocation
	}

	return origin, destination, originAnchors, destinationAnchors, nil
}

// FindItineraries enumerates every legal itinerary between the two codes on
// the given date. An endpoint that resolves to an empty anchor set yields an
// empty result, not an error: a hub without anchors is unreachable, not
// invalid.
func (f *Finder) FindItineraries(ctx context.Context, originCode, destinationCode string, date time.Time) ([]Itinerary, error) {
	origin, destination, originAnchors, destinationAnchors, err := f.endpoints(ctx, originCode, destinationCode)
	if err != nil {
		return nil, err
	}

	if len(originAnchors) == 0 || len(destinationAnchors) == 0 {
		return nil, nil
	}

	weekday := ISOWeekday(date)

	flights, err := f.store.FindFlights(ctx, locationIDs(originAnchors), locationIDs(destinationAnchors), weekday)
	if err != nil {
		return nil, storeErr("find flights", err)
	}

	var itineraries []Itinerary
	for _, flight := range flights {
		legs, err := f.expandFlight(ctx, origin, destination, flight, weekday)
		if err != nil {
			return nil, err
		}
		itineraries = append(itineraries, legs...)
	}

	f.logger.Debug().
		Str("origin", originCode).
		Str("destination", destinationCode).
		Int("weekday", weekday).
		Int("flights", len(flights)).
		Int("itineraries", len(itineraries)).
		Msg("route search computed")

	return itineraries, nil
}

// expandFlight emits the cross product of before and after options for one
// flight. An anchor endpoint contributes the single "no transfer" option; a
// hub endpoint requires at least one qualifying same-city transfer, so a hub
// side with none makes the flight contribute nothing.
func (f *Finder) expandFlight(ctx context.Context, origin, destination *location.Location, flight *transportation.Edge, weekday int) ([]Itinerary, error) {
	beforeOptions := []*transportation.Edge{nil}
	if !origin.IsAnchor {
		befores, err := f.store.GroundTransfersTo(ctx, origin.City, flight.Origin.ID, weekday)
		if err != nil {
			return nil, storeErr("find ground transfers to flight origin", err)
		}
		if len(befores) == 0 {
			return nil, nil
		}
		beforeOptions = befores
	}

	afterOptions := []*transportation.Edge{nil}
	if !destination.IsAnchor {
		afters, err := f.store.GroundTransfersFrom(ctx, flight.Destination.ID, destination.City, weekday)
		if err != nil {
			return nil, storeErr("find ground transfers from flight destination", err)
		}
		if len(afters) == 0 {
			return nil, nil
		}
		afterOptions = afters
	}

	itineraries := make([]Itinerary, 0, len(beforeOptions)*len(afterOptions))
	for _, before := range beforeOptions {
		for _, after := range afterOptions {
			itineraries = append(itineraries, Itinerary{
				Before:          before,
				Flight:          *flight,
				After:           after,
				OriginName:      origin.Name,
				DestinationName: destination.Name,
			})
		}
	}

	return itineraries, nil
}

// FindAvailableWeekdays returns every ISO weekday on which at least one
// direct flight exists between the two codes' anchor sets. Ground-transfer
// availability is deliberately ignored: this answers the coarser "is a
// flight possible" question offered when a search comes back empty.
func (f *Finder) FindAvailableWeekdays(ctx context.Context, originCode, destinationCode string) ([]int, error) {
	_, _, originAnchors, destinationAnchors, err := f.endpoints(ctx, originCode, destinationCode)
	if err != nil {
		return nil, err
	}

	if len(originAnchors) == 0 || len(destinationAnchors) == 0 {
		return nil, nil
	}

	days, err := f.store.UnionOperatingDays(ctx, locationIDs(originAnchors), locationIDs(destinationAnchors))
	if err != nil {
		return nil, storeErr("union operating days", err)
	}

	return days, nil
}

func locationIDs(locs []*location.Location) []string {
	ids := make([]string, 0, len(locs))
	for _, l := range locs {
		ids = append(ids, l.ID)
	}
	return ids
}

// resolveErr keeps not-found errors recognizable and folds everything else
// into the unavailable taxonomy.
func resolveErr(side, code string, err error) error {
	if errors.Is(err, location.ErrLocationNotFound) {
		return fmt.Errorf("%s location %q: %w", side, code, location.ErrLocationNotFound)
	}
	return fmt.Errorf("resolve %s location %q: %w: %v", side, code, ErrStoreUnavailable, err)
}

func storeErr(op string, err error) error {
	if errors.Is(err, ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
