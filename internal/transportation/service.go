package transportation

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/flightroutes/flightroutes/internal/api/models"
	"github.com/flightroutes/flightroutes/internal/location"
)

// CacheInvalidator is notified after every successful write so that derived
// route results are recomputed rather than served stale.
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context)
}

// Service provides transportation edge CRUD.
type Service struct {
	repo         Repository
	locationRepo location.Repository
	invalidator  CacheInvalidator
}

// NewService creates a new transportation service. The invalidator may be nil
// when no result cache is attached (tests, seed jobs).
func NewService(repo Repository, locationRepo location.Repository, invalidator CacheInvalidator) *Service {
	return &Service{repo: repo, locationRepo: locationRepo, invalidator: invalidator}
}

// List retrieves a page of edges, optionally filtered by endpoint IDs.
func (s *Service) List(ctx context.Context, page, size int, originID, destinationID string) (*models.PagedTransportations, error) {
	if size <= 0 {
		size = 50
	}
	if page < 0 {
		page = 0
	}

	result, err := s.repo.List(ctx, ListOptions{
		Limit:         size,
		Offset:        page * size,
		OriginID:      originID,
		DestinationID: destinationID,
	})
	if err != nil {
		return nil, err
	}

	items := make([]models.Transportation, 0, len(result.Items))
	for _, e := range result.Items {
		items = append(items, ToAPITransportation(e))
	}

	totalPages := (result.Total + size - 1) / size

	return &models.PagedTransportations{
		Items: items,
		Meta: models.PagedResponseMeta{
			Page:       page,
			Size:       size,
			Total:      result.Total,
			TotalPages: totalPages,
			HasNext:    (page+1)*size < result.Total,
		},
	}, nil
}

// Get retrieves an edge by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Transportation, error) {
	edge, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := ToAPITransportation(edge)
	return &result, nil
}

// Create creates a new edge and invalidates cached route results.
func (s *Service) Create(ctx context.Context, input *models.TransportationCreateRequest) (*models.Transportation, error) {
	if fieldErrors := validateEdgeInput(input.Kind, input.OperatingDays, input.OriginID, input.DestinationID); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	origin, err := s.locationRepo.Get(ctx, input.OriginID)
	if err != nil {
		return nil, err
	}
	destination, err := s.locationRepo.Get(ctx, input.DestinationID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureEdgeFree(ctx, origin.ID, destination.ID, Kind(input.Kind), ""); err != nil {
		return nil, err
	}

	now := time.Now()
	edge := &Edge{
		ID:            "trn_" + uuid.New().String()[:22],
		Origin:        *origin,
		Destination:   *destination,
		Kind:          Kind(input.Kind),
		OperatingDays: normalizeDays(input.OperatingDays),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, edge); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	result := ToAPITransportation(edge)
	return &result, nil
}

// Update updates an existing edge and invalidates cached route results.
func (s *Service) Update(ctx context.Context, id string, input *models.TransportationUpdateRequest) (*models.Transportation, error) {
	edge, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.OriginID != nil {
		origin, err := s.locationRepo.Get(ctx, *input.OriginID)
		if err != nil {
			return nil, err
		}
		edge.Origin = *origin
	}
	if input.DestinationID != nil {
		destination, err := s.locationRepo.Get(ctx, *input.DestinationID)
		if err != nil {
			return nil, err
		}
		edge.Destination = *destination
	}
	if input.Kind != nil {
		edge.Kind = Kind(*input.Kind)
	}
	if input.OperatingDays != nil {
		edge.OperatingDays = normalizeDays(input.OperatingDays)
	}

	if fieldErrors := validateEdgeInput(string(edge.Kind), edge.OperatingDays, edge.Origin.ID, edge.Destination.ID); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if err := s.ensureEdgeFree(ctx, edge.Origin.ID, edge.Destination.ID, edge.Kind, edge.ID); err != nil {
		return nil, err
	}

	edge.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, edge); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	result := ToAPITransportation(edge)
	return &result, nil
}

// Delete deletes an edge and invalidates cached route results.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateAll(ctx)
	}
}

// ensureEdgeFree enforces the single-edge-per-triple constraint, ignoring the
// edge being updated.
func (s *Service) ensureEdgeFree(ctx context.Context, originID, destinationID string, kind Kind, selfID string) error {
	existing, err := s.repo.FindByEndpointsAndKind(ctx, originID, destinationID, kind)
	if err != nil {
		if errors.Is(err, ErrTransportationNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrDuplicateEdge
	}
	return nil
}

func validateEdgeInput(kind string, days []int, originID, destinationID string) []models.FieldError {
	var errs []models.FieldError

	if originID == "" {
		errs = append(errs, models.FieldError{Field: "originLocationId", Message: "is required"})
	}
	if destinationID == "" {
		errs = append(errs, models.FieldError{Field: "destinationLocationId", Message: "is required"})
	}
	if originID != "" && originID == destinationID {
		errs = append(errs, models.FieldError{Field: "destinationLocationId", Message: "must differ from origin"})
	}

	if !Kind(kind).Valid() {
		errs = append(errs, models.FieldError{Field: "transportationType", Message: "must be one of FLIGHT, BUS, SUBWAY, UBER"})
	}

	if len(days) == 0 {
		errs = append(errs, models.FieldError{Field: "operatingDays", Message: "is required"})
	} else {
		for _, day := range days {
			if day < 1 || day > 7 {
				errs = append(errs, models.FieldError{Field: "operatingDays", Message: "must contain values between 1 and 7"})
				break
			}
		}
	}

	return errs
}

// normalizeDays sorts and deduplicates an operating-days set.
func normalizeDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	var out []int
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}

// ToAPITransportation converts a domain Edge to an API Transportation.
func ToAPITransportation(e *Edge) models.Transportation {
	return models.Transportation{
		ID:            e.ID,
		Origin:        toAPILocation(&e.Origin),
		Destination:   toAPILocation(&e.Destination),
		Kind:          string(e.Kind),
		OperatingDays: append([]int(nil), e.OperatingDays...),
		CreatedAt:     models.Timestamp(e.CreatedAt),
		UpdatedAt:     models.Timestamp(e.UpdatedAt),
	}
}

func toAPILocation(l *location.Location) models.Location {
	return models.Location{
		ID:        l.ID,
		Name:      l.Name,
		Country:   l.Country,
		City:      l.City,
		Code:      l.Code,
		IsAnchor:  l.IsAnchor,
		CreatedAt: models.Timestamp(l.CreatedAt),
		UpdatedAt: models.Timestamp(l.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
