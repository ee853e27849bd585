package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/flightroutes/flightroutes/internal/api/models"
	"github.com/flightroutes/flightroutes/internal/api/response"
	"github.com/flightroutes/flightroutes/internal/location"
)

// LocationHandler handles location administration endpoints.
type LocationHandler struct {
	service *location.Service
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(service *location.Service) *LocationHandler {
	return &LocationHandler{service: service}
}

// ListLocations handles GET /v1/locations - list locations with pagination.
func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)

	result, err := h.service.List(r.Context(), page, size)
	if err != nil {
		response.InternalError(w, r, "listing locations failed")
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

// CreateLocation handles POST /v1/locations - create a location.
func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var input models.LocationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.service.Create(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Created(w, r, fmt.Sprintf("/v1/locations/%s", created.ID), created)
}

// GetLocation handles GET /v1/locations/{locationId} - get a location.
func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationId")
	if locationID == "" {
		response.BadRequest(w, r, "locationId is required", nil)
		return
	}

	loc, err := h.service.Get(r.Context(), locationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, loc)
}

// UpdateLocation handles PUT /v1/locations/{locationId} - update a location.
func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationId")
	if locationID == "" {
		response.BadRequest(w, r, "locationId is required", nil)
		return
	}

	var input models.LocationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	updated, err := h.service.Update(r.Context(), locationID, &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, updated)
}

// DeleteLocation handles DELETE /v1/locations/{locationId} - delete a location.
func (h *LocationHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationId")
	if locationID == "" {
		response.BadRequest(w, r, "locationId is required", nil)
		return
	}

	if err := h.service.Delete(r.Context(), locationID); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

func (h *LocationHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *location.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(w, r, "validation failed", validationErr.Errors)
	case errors.Is(err, location.ErrLocationNotFound):
		response.NotFound(w, r, "location not found")
	case errors.Is(err, location.ErrCodeTaken):
		response.Conflict(w, r, "location code is already in use")
	default:
		response.InternalError(w, r, "location operation failed")
	}
}

// pageParams extracts page/size query parameters with defaults and caps.
func pageParams(r *http.Request) (page, size int) {
	page, size = 0, 50
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			size = n
		}
	}
	return page, size
}
