package transportation

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/flightroutes/flightroutes/internal/location"
)

// LocationSource resolves edge endpoints at read time. The in-memory
// repository re-resolves both endpoints on every read so that results
// reflect the current location rows, the same way the Postgres
// implementation joins the locations table.
type LocationSource interface {
	Get(ctx context.Context, id string) (*location.Location, error)
}

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu        sync.RWMutex
	edges     map[string]*Edge
	locations LocationSource
}

// NewInMemoryRepository creates a new in-memory transportation repository
// backed by the given location source.
func NewInMemoryRepository(locations LocationSource) *InMemoryRepository {
	return &InMemoryRepository{
		edges:     make(map[string]*Edge),
		locations: locations,
	}
}

func copyEdge(e *Edge) *Edge {
	cpy := *e
	cpy.OperatingDays = append([]int(nil), e.OperatingDays...)
	return &cpy
}

// resolve copies an edge with its endpoints refreshed from the location
// source. An edge whose endpoint no longer exists resolves to nil, matching
// the cascade delete of the Postgres schema.
func (r *InMemoryRepository) resolve(ctx context.Context, e *Edge) *Edge {
	cpy := copyEdge(e)

	origin, err := r.locations.Get(ctx, e.Origin.ID)
	if err != nil {
		return nil
	}
	destination, err := r.locations.Get(ctx, e.Destination.ID)
	if err != nil {
		return nil
	}

	cpy.Origin = *origin
	cpy.Destination = *destination
	return cpy
}

// Get retrieves an edge by ID.
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Edge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.edges[id]
	if !ok {
		return nil, ErrTransportationNotFound
	}

	resolved := r.resolve(ctx, e)
	if resolved == nil {
		return nil, ErrTransportationNotFound
	}
	return resolved, nil
}

// FindByEndpointsAndKind retrieves the edge for the (origin, destination, kind) triple.
func (r *InMemoryRepository) FindByEndpointsAndKind(ctx context.Context, originID, destinationID string, kind Kind) (*Edge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.edges {
		if e.Origin.ID == originID && e.Destination.ID == destinationID && e.Kind == kind {
			if resolved := r.resolve(ctx, e); resolved != nil {
				return resolved, nil
			}
		}
	}

	return nil, ErrTransportationNotFound
}

// List retrieves edges ordered by creation time, optionally filtered by endpoint.
func (r *InMemoryRepository) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var all []*Edge
	for _, e := range r.edges {
		if opts.OriginID != "" && e.Origin.ID != opts.OriginID {
			continue
		}
		if opts.DestinationID != "" && e.Destination.ID != opts.DestinationID {
			continue
		}
		if resolved := r.resolve(ctx, e); resolved != nil {
			all = append(all, resolved)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].CreatedAt.Before(all[j].CreatedAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	total := len(all)
	if opts.Offset >= total {
		return &ListResult{Total: total}, nil
	}

	end := opts.Offset + limit
	if end > total {
		end = total
	}

	return &ListResult{Items: all[opts.Offset:end], Total: total}, nil
}

// filter resolves every edge and keeps the ones the predicate accepts.
// Predicates see refreshed endpoints, so city matches use current rows.
func (r *InMemoryRepository) filter(ctx context.Context, keep func(*Edge) bool) []*Edge {
	var result []*Edge
	for _, e := range r.edges {
		resolved := r.resolve(ctx, e)
		if resolved != nil && keep(resolved) {
			result = append(result, resolved)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// FindFlights retrieves FLIGHT edges between the two anchor sets on the weekday.
func (r *InMemoryRepository) FindFlights(ctx context.Context, originIDs, destinationIDs []string, weekday int) ([]*Edge, error) {
	origins := toSet(originIDs)
	destinations := toSet(destinationIDs)

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(ctx, func(e *Edge) bool {
		return e.Kind.IsFlight() &&
			origins[e.Origin.ID] &&
			destinations[e.Destination.ID] &&
			e.OperatesOn(weekday)
	}), nil
}

// GroundTransfersTo retrieves non-FLIGHT edges from the city into the anchor on the weekday.
func (r *InMemoryRepository) GroundTransfersTo(ctx context.Context, originCity, anchorID string, weekday int) ([]*Edge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(ctx, func(e *Edge) bool {
		return !e.Kind.IsFlight() &&
			strings.EqualFold(e.Origin.City, originCity) &&
			e.Destination.ID == anchorID &&
			e.OperatesOn(weekday)
	}), nil
}

// GroundTransfersFrom retrieves non-FLIGHT edges from the anchor into the city on the weekday.
func (r *InMemoryRepository) GroundTransfersFrom(ctx context.Context, anchorID, destinationCity string, weekday int) ([]*Edge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(ctx, func(e *Edge) bool {
		return !e.Kind.IsFlight() &&
			e.Origin.ID == anchorID &&
			strings.EqualFold(e.Destination.City, destinationCity) &&
			e.OperatesOn(weekday)
	}), nil
}

// UnionOperatingDays returns the distinct union of FLIGHT operating days
// between the two anchor sets.
func (r *InMemoryRepository) UnionOperatingDays(ctx context.Context, originIDs, destinationIDs []string) ([]int, error) {
	origins := toSet(originIDs)
	destinations := toSet(destinationIDs)

	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int]bool)
	for _, e := range r.edges {
		if !e.Kind.IsFlight() || !origins[e.Origin.ID] || !destinations[e.Destination.ID] {
			continue
		}
		if r.resolve(ctx, e) == nil {
			continue
		}
		for _, d := range e.OperatingDays {
			seen[d] = true
		}
	}

	var days []int
	for d := range seen {
		days = append(days, d)
	}
	sort.Ints(days)
	return days, nil
}

// Create creates a new edge.
func (r *InMemoryRepository) Create(_ context.Context, edge *Edge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.edges[edge.ID] = copyEdge(edge)
	return nil
}

// Update updates an existing edge.
func (r *InMemoryRepository) Update(_ context.Context, edge *Edge) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.edges[edge.ID]; !ok {
		return ErrTransportationNotFound
	}

	r.edges[edge.ID] = copyEdge(edge)
	return nil
}

// Delete deletes an edge by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.edges[id]; !ok {
		return ErrTransportationNotFound
	}

	delete(r.edges, id)
	return nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
