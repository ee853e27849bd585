package location

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flightroutes/flightroutes/internal/api/models"
)

// Validation constants.
const (
	MaxNameLength    = 120
	MaxCountryLength = 80
	MaxCityLength    = 80
)

// Location code formats: anchors carry IATA-style 3-letter codes,
// city hubs carry CC-prefixed city codes.
var (
	anchorCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	hubCodeRegex    = regexp.MustCompile(`^CC[A-Z]{2,4}$`)
)

// CacheInvalidator is notified after every successful write so that derived
// route results are recomputed rather than served stale.
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context)
}

// Service provides location CRUD and anchor resolution.
type Service struct {
	repo        Repository
	invalidator CacheInvalidator
}

// NewService creates a new location service. The invalidator may be nil when
// no result cache is attached (tests, seed jobs).
func NewService(repo Repository, invalidator CacheInvalidator) *Service {
	return &Service{repo: repo, invalidator: invalidator}
}

// ResolveAnchors expands a location code into the set of anchor locations it
// denotes: an anchor resolves to itself, a city hub resolves to every anchor
// sharing its city. An empty result is valid and means "no route possible
// through this endpoint"; only an unknown code is an error.
func (s *Service) ResolveAnchors(ctx context.Context, code string) (*Location, []*Location, error) {
	loc, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	if loc.IsAnchor {
		return loc, []*Location{loc}, nil
	}

	cityLocs, err := s.repo.ListByCity(ctx, loc.City)
	if err != nil {
		return nil, nil, err
	}

	var anchors []*Location
	for _, l := range cityLocs {
		if l.IsAnchor {
			anchors = append(anchors, l)
		}
	}

	return loc, anchors, nil
}

// List retrieves a page of locations.
func (s *Service) List(ctx context.Context, page, size int) (*models.PagedLocations, error) {
	if size <= 0 {
		size = 50
	}
	if page < 0 {
		page = 0
	}

	result, err := s.repo.List(ctx, ListOptions{Limit: size, Offset: page * size})
	if err != nil {
		return nil, err
	}

	items := make([]models.Location, 0, len(result.Items))
	for _, l := range result.Items {
		items = append(items, s.toAPILocation(l))
	}

	totalPages := (result.Total + size - 1) / size

	return &models.PagedLocations{
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

// Get retrieves a location by ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Location, error) {
	loc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.toAPILocation(loc)
	return &result, nil
}

// GetByCode retrieves a location by its unique code.
func (s *Service) GetByCode(ctx context.Context, code string) (*models.Location, error) {
	loc, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	result := s.toAPILocation(loc)
	return &result, nil
}

// Create creates a new location and invalidates cached route results.
func (s *Service) Create(ctx context.Context, input *models.LocationCreateRequest) (*models.Location, error) {
	if fieldErrors := s.validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if err := s.ensureCodeFree(ctx, input.Code); err != nil {
		return nil, err
	}

	now := time.Now()
	loc := &Location{
		ID:        "loc_" + uuid.New().String()[:22],
		Name:      input.Name,
		Country:   input.Country,
		City:      input.City,
		Code:      input.Code,
		IsAnchor:  input.IsAnchor,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, loc); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	result := s.toAPILocation(loc)
	return &result, nil
}

// Update updates an existing location and invalidates cached route results.
func (s *Service) Update(ctx context.Context, id string, input *models.LocationUpdateRequest) (*models.Location, error) {
	loc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if fieldErrors := s.validateUpdateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if input.Name != nil {
		loc.Name = *input.Name
	}
	if input.Country != nil {
		loc.Country = *input.Country
	}
	if input.City != nil {
		loc.City = *input.City
	}
	if input.IsAnchor != nil {
		loc.IsAnchor = *input.IsAnchor
	}
	if input.Code != nil && !strings.EqualFold(*input.Code, loc.Code) {
		if err := s.ensureCodeFree(ctx, *input.Code); err != nil {
			return nil, err
		}
		loc.Code = *input.Code
	}

	// Re-check code shape against the possibly updated anchor flag.
	if fe := validateCode(loc.Code, loc.IsAnchor); fe != nil {
		return nil, &ValidationError{Errors: []models.FieldError{*fe}}
	}

	loc.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, loc); err != nil {
		return nil, err
	}

	s.invalidate(ctx)

	result := s.toAPILocation(loc)
	return &result, nil
}

// Delete deletes a location and invalidates cached route results.
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

func (s *Service) ensureCodeFree(ctx context.Context, code string) error {
	_, err := s.repo.GetByCode(ctx, code)
	if err == nil {
		return ErrCodeTaken
	}
	if !errors.Is(err, ErrLocationNotFound) {
		return err
	}
	return nil
}

func (s *Service) validateCreateInput(input *models.LocationCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Name == "" {
		errs = append(errs, models.FieldError{Field: "name", Message: "is required"})
	} else if len(input.Name) > MaxNameLength {
		errs = append(errs, models.FieldError{Field: "name", Message: "must be at most 120 characters"})
	}

	if input.Country == "" {
		errs = append(errs, models.FieldError{Field: "country", Message: "is required"})
	} else if len(input.Country) > MaxCountryLength {
		errs = append(errs, models.FieldError{Field: "country", Message: "must be at most 80 characters"})
	}

	if input.City == "" {
		errs = append(errs, models.FieldError{Field: "city", Message: "is required"})
	} else if len(input.City) > MaxCityLength {
		errs = append(errs, models.FieldError{Field: "city", Message: "must be at most 80 characters"})
	}

	if fe := validateCode(input.Code, input.IsAnchor); fe != nil {
		errs = append(errs, *fe)
	}

	return errs
}

func (s *Service) validateUpdateInput(input *models.LocationUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Name != nil {
		if *input.Name == "" {
			errs = append(errs, models.FieldError{Field: "name", Message: "cannot be empty"})
		} else if len(*input.Name) > MaxNameLength {
			errs = append(errs, models.FieldError{Field: "name", Message: "must be at most 120 characters"})
		}
	}

	if input.Country != nil {
		if *input.Country == "" {
			errs = append(errs, models.FieldError{Field: "country", Message: "cannot be empty"})
		} else if len(*input.Country) > MaxCountryLength {
			errs = append(errs, models.FieldError{Field: "country", Message: "must be at most 80 characters"})
		}
	}

	if input.City != nil {
		if *input.City == "" {
			errs = append(errs, models.FieldError{Field: "city", Message: "cannot be empty"})
		} else if len(*input.City) > MaxCityLength {
			errs = append(errs, models.FieldError{Field: "city", Message: "must be at most 80 characters"})
		}
	}

	return errs
}

// validateCode validates the location code format against the anchor flag:
// anchors use 3-letter codes, hubs use CC-prefixed city codes.
func validateCode(code string, isAnchor bool) *models.FieldError {
	if code == "" {
		return &models.FieldError{Field: "locationCode", Message: "is required"}
	}
	if isAnchor && !anchorCodeRegex.MatchString(code) {
		return &models.FieldError{Field: "locationCode", Message: "anchor locations must use a 3-letter code"}
	}
	if !isAnchor && !hubCodeRegex.MatchString(code) {
		return &models.FieldError{Field: "locationCode", Message: "city hubs must use a CC-prefixed code"}
	}
	return nil
}

func (s *Service) toAPILocation(l *Location) models.Location {
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
