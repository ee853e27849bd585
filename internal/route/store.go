package route

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"

	"github.com/flightroutes/flightroutes/internal/resilience"
	"github.com/flightroutes/flightroutes/internal/transportation"
)

// GuardedStore wraps a ScheduleStore with a circuit breaker. When the store
// is failing, the breaker opens and searches fail fast with
// ErrStoreUnavailable instead of piling load onto a struggling database.
type GuardedStore struct {
	store   ScheduleStore
	breaker *gobreaker.CircuitBreaker[any]
}

// NewGuardedStore creates a breaker-guarded schedule store.
func NewGuardedStore(store ScheduleStore, cfg resilience.CircuitBreakerConfig) *GuardedStore {
	return &GuardedStore{
		store:   store,
		breaker: resilience.NewCircuitBreaker[any](cfg),
	}
}

func (g *GuardedStore) execute(op string, fn func() (any, error)) (any, error) {
	v, err := g.breaker.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w: circuit open", op, ErrStoreUnavailable)
		}
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	}
	return v, nil
}

// FindFlights implements ScheduleStore.
func (g *GuardedStore) FindFlights(ctx context.Context, originIDs, destinationIDs []string, weekday int) ([]*transportation.Edge, error) {
	v, err := g.execute("find flights", func() (any, error) {
		return g.store.FindFlights(ctx, originIDs, destinationIDs, weekday)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*transportation.Edge), nil
}

// GroundTransfersTo implements ScheduleStore.
func (g *GuardedStore) GroundTransfersTo(ctx context.Context, originCity, anchorID string, weekday int) ([]*transportation.Edge, error) {
	v, err := g.execute("ground transfers to", func() (any, error) {
		return g.store.GroundTransfersTo(ctx, originCity, anchorID, weekday)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*transportation.Edge), nil
}

// GroundTransfersFrom implements ScheduleStore.
func (g *GuardedStore) GroundTransfersFrom(ctx context.Context, anchorID, destinationCity string, weekday int) ([]*transportation.Edge, error) {
	v, err := g.execute("ground transfers from", func() (any, error) {
		return g.store.GroundTransfersFrom(ctx, anchorID, destinationCity, weekday)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*transportation.Edge), nil
}

// UnionOperatingDays implements ScheduleStore.
func (g *GuardedStore) UnionOperatingDays(ctx context.Context, originIDs, destinationIDs []string) ([]int, error) {
	v, err := g.execute("union operating days", func() (any, error) {
		return g.store.UnionOperatingDays(ctx, originIDs, destinationIDs)
	})
	if err != nil {
		return nil, err
	}
	return v.([]int), nil
}

// Ensure GuardedStore implements ScheduleStore.
var _ ScheduleStore = (*GuardedStore)(nil)
