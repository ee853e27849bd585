package location

import "context"

// ListOptions contains options for listing locations.
type ListOptions struct {
	Limit  int
	Offset int
}

// ListResult contains one page of locations plus the total row count.
type ListResult struct {
	Items []*Location
	Total int
}

// Repository defines the interface for location storage.
type Repository interface {
	// Get retrieves a location by ID.
	Get(ctx context.Context, id string) (*Location, error)

	// GetByCode retrieves a location by its unique location code.
	// Returns ErrLocationNotFound if no location has the code.
	GetByCode(ctx context.Context, code string) (*Location, error)

	// ListByCity retrieves all locations in the given city.
	// City comparison is case-insensitive.
	ListByCity(ctx context.Context, city string) ([]*Location, error)

	// List retrieves locations ordered by creation time.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)

	// Create creates a new location.
	Create(ctx context.Context, loc *Location) error

	// Update updates an existing location.
	Update(ctx context.Context, loc *Location) error

	// Delete deletes a location by ID.
	Delete(ctx context.Context, id string) error
}
