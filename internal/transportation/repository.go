package transportation

import "context"

// ListOptions contains options for listing transportation edges.
// OriginID and DestinationID filter by endpoint when non-empty.
type ListOptions struct {
	Limit         int
	Offset        int
	OriginID      string
	DestinationID string
}

// ListResult contains one page of edges plus the total row count.
type ListResult struct {
	Items []*Edge
	Total int
}

// Repository defines the interface for transportation edge storage. The Find*
// methods are the schedule queries behind the route search: they are expected
// to be index-backed lookups, never full scans re-filtered by the caller.
type Repository interface {
	// Get retrieves an edge by ID with both endpoint locations resolved.
	Get(ctx context.Context, id string) (*Edge, error)

	// List retrieves edges ordered by creation time.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)

	// FindByEndpointsAndKind retrieves the single edge for the
	// (origin, destination, kind) triple, if any.
	FindByEndpointsAndKind(ctx context.Context, originID, destinationID string, kind Kind) (*Edge, error)

	// FindFlights retrieves every FLIGHT edge from any origin in originIDs to
	// any destination in destinationIDs operating on the given ISO weekday,
	// ordered by edge ID.
	FindFlights(ctx context.Context, originIDs, destinationIDs []string, weekday int) ([]*Edge, error)

	// GroundTransfersTo retrieves every non-FLIGHT edge arriving at the given
	// anchor whose origin lies in the given city (case-insensitive) and which
	// operates on the given ISO weekday, ordered by edge ID.
	GroundTransfersTo(ctx context.Context, originCity, anchorID string, weekday int) ([]*Edge, error)

	// GroundTransfersFrom is the mirrored query: every non-FLIGHT edge leaving
	// the given anchor for a destination in the given city on the weekday.
	GroundTransfersFrom(ctx context.Context, anchorID, destinationCity string, weekday int) ([]*Edge, error)

	// UnionOperatingDays returns the distinct union of operating days across
	// all FLIGHT edges between the two anchor sets, sorted ascending.
	UnionOperatingDays(ctx context.Context, originIDs, destinationIDs []string) ([]int, error)

	// Create creates a new edge.
	Create(ctx context.Context, edge *Edge) error

	// Update updates an existing edge.
	Update(ctx context.Context, edge *Edge) error

	// Delete deletes an edge by ID.
	Delete(ctx context.Context, id string) error
}
