package location

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu        sync.RWMutex
	locations map[string]*Location
}

// NewInMemoryRepository creates a new in-memory location repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		locations: make(map[string]*Location),
	}
}

// Get retrieves a location by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loc, ok := r.locations[id]
	if !ok {
		return nil, ErrLocationNotFound
	}

	cpy := *loc
	return &cpy, nil
}

// GetByCode retrieves a location by its unique code.
func (r *InMemoryRepository) GetByCode(_ context.Context, code string) (*Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, loc := range r.locations {
		if strings.EqualFold(loc.Code, code) {
			cpy := *loc
			return &cpy, nil
		}
	}

	return nil, ErrLocationNotFound
}

// ListByCity retrieves all locations in the given city, case-insensitively.
func (r *InMemoryRepository) ListByCity(_ context.Context, city string) ([]*Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Location
	for _, loc := range r.locations {
		if strings.EqualFold(loc.City, city) {
			cpy := *loc
			result = append(result, &cpy)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// List retrieves locations ordered by creation time with offset pagination.
func (r *InMemoryRepository) List(_ context.Context, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Location, 0, len(r.locations))
	for _, loc := range r.locations {
		cpy := *loc
		all = append(all, &cpy)
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

// Create creates a new location.
func (r *InMemoryRepository) Create(_ context.Context, loc *Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *loc
	r.locations[loc.ID] = &cpy
	return nil
}

// Update updates an existing location.
func (r *InMemoryRepository) Update(_ context.Context, loc *Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.locations[loc.ID]; !ok {
		return ErrLocationNotFound
	}

	cpy := *loc
	r.locations[loc.ID] = &cpy
	return nil
}

// Delete deletes a location by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.locations[id]; !ok {
		return ErrLocationNotFound
	}

	delete(r.locations, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
