package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/flightroutes/flightroutes/internal/api/models"
	"github.com/flightroutes/flightroutes/internal/api/response"
	"github.com/flightroutes/flightroutes/internal/location"
	"github.com/flightroutes/flightroutes/internal/transportation"
)

// TransportationHandler handles transportation administration endpoints.
type TransportationHandler struct {
	service *transportation.Service
}

// NewTransportationHandler creates a new TransportationHandler.
func NewTransportationHandler(service *transportation.Service) *TransportationHandler {
	return &TransportationHandler{service: service}
}

// ListTransportations handles GET /v1/transportations - list edges with
// pagination and optional endpoint filters.
func (h *TransportationHandler) ListTransportations(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	originID := r.URL.Query().Get("originLocationId")
	destinationID := r.URL.Query().Get("destinationLocationId")

	result, err := h.service.List(r.Context(), page, size, originID, destinationID)
	if err != nil {
		response.InternalError(w, r, "listing transportations failed")
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

// CreateTransportation handles POST /v1/transportations - create an edge.
func (h *TransportationHandler) CreateTransportation(w http.ResponseWriter, r *http.Request) {
	var input models.TransportationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	created, err := h.service.Create(r.Context(), &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Created(w, r, fmt.Sprintf("/v1/transportations/%s", created.ID), created)
}

// GetTransportation handles GET /v1/transportations/{transportationId}.
func (h *TransportationHandler) GetTransportation(w http.ResponseWriter, r *http.Request) {
	transportationID := chi.URLParam(r, "transportationId")
	if transportationID == "" {
		response.BadRequest(w, r, "transportationId is required", nil)
		return
	}

	edge, err := h.service.Get(r.Context(), transportationID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, edge)
}

// UpdateTransportation handles PUT /v1/transportations/{transportationId}.
func (h *TransportationHandler) UpdateTransportation(w http.ResponseWriter, r *http.Request) {
	transportationID := chi.URLParam(r, "transportationId")
	if transportationID == "" {
		response.BadRequest(w, r, "transportationId is required", nil)
		return
	}

	var input models.TransportationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	updated, err := h.service.Update(r.Context(), transportationID, &input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, updated)
}

// DeleteTransportation handles DELETE /v1/transportations/{transportationId}.
func (h *TransportationHandler) DeleteTransportation(w http.ResponseWriter, r *http.Request) {
	transportationID := chi.URLParam(r, "transportationId")
	if transportationID == "" {
		response.BadRequest(w, r, "transportationId is required", nil)
		return
	}

	if err := h.service.Delete(r.Context(), transportationID); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

func (h *TransportationHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *transportation.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(w, r, "validation failed", validationErr.Errors)
	case errors.Is(err, location.ErrLocationNotFound):
		response.BadRequest(w, r, "referenced location does not exist", nil)
	case errors.Is(err, transportation.ErrTransportationNotFound):
		response.NotFound(w, r, "transportation not found")
	case errors.Is(err, transportation.ErrDuplicateEdge):
		response.Conflict(w, r, "an edge of this type already exists between these locations")
	default:
		response.InternalError(w, r, "transportation operation failed")
	}
}
