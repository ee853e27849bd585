package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/flightroutes/flightroutes/internal/api/models"
	"github.com/flightroutes/flightroutes/internal/api/response"
	"github.com/flightroutes/flightroutes/internal/location"
	"github.com/flightroutes/flightroutes/internal/route"
	"github.com/flightroutes/flightroutes/internal/transportation"
)

// RouteHandler handles route search endpoints.
type RouteHandler struct {
	service *route.Service
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(service *route.Service) *RouteHandler {
	return &RouteHandler{service: service}
}

// SearchRoutes handles POST /v1/routes/search - find itineraries between two
// locations on a given date. When no itinerary exists, the response carries
// the other weekdays on which a flight between the endpoints operates.
func (h *RouteHandler) SearchRoutes(w http.ResponseWriter, r *http.Request) {
	input, date, ok := h.decodeSearch(w, r, true)
	if !ok {
		return
	}

	itineraries, err := h.service.SearchRoutes(r.Context(), input.OriginLocationCode, input.DestinationLocationCode, date)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := models.RouteSearchResponse{
		Routes: toAPIRoutes(itineraries),
	}

	if len(resp.Routes) == 0 {
		days, err := h.service.AlternativeDays(r.Context(), input.OriginLocationCode, input.DestinationLocationCode)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		resp.AlternativeDays = withoutDay(days, route.ISOWeekday(date))
	}

	w.Header().Set("Cache-Control", "private, max-age=60")
	response.JSON(w, r, http.StatusOK, resp)
}

// AlternativeDays handles POST /v1/routes/alternative-days - list the ISO
// weekdays on which any flight between the endpoints operates.
func (h *RouteHandler) AlternativeDays(w http.ResponseWriter, r *http.Request) {
	input, _, ok := h.decodeSearch(w, r, false)
	if !ok {
		return
	}

	days, err := h.service.AlternativeDays(r.Context(), input.OriginLocationCode, input.DestinationLocationCode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if days == nil {
		days = []int{}
	}
	response.JSON(w, r, http.StatusOK, models.AlternativeDaysResponse{Days: days})
}

// decodeSearch parses and validates the shared search request body. The date
// is required only for dated searches.
func (h *RouteHandler) decodeSearch(w http.ResponseWriter, r *http.Request, needDate bool) (*models.RouteSearchRequest, time.Time, bool) {
	var input models.RouteSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return nil, time.Time{}, false
	}

	var fieldErrors []models.FieldError
	if input.OriginLocationCode == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "originLocationCode", Message: "required"})
	}
	if input.DestinationLocationCode == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "destinationLocationCode", Message: "required"})
	}

	var date time.Time
	if needDate {
		if input.Date == "" {
			fieldErrors = append(fieldErrors, models.FieldError{Field: "date", Message: "required"})
		} else {
			parsed, err := time.Parse("2006-01-02", input.Date)
			if err != nil {
				fieldErrors = append(fieldErrors, models.FieldError{Field: "date", Message: "must be formatted YYYY-MM-DD"})
			} else {
				date = parsed
			}
		}
	}

	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation failed", fieldErrors)
		return nil, time.Time{}, false
	}

	return &input, date, true
}

func (h *RouteHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, location.ErrLocationNotFound):
		response.NotFound(w, r, "origin or destination location not found")
	case errors.Is(err, route.ErrSameLocation):
		response.BadRequest(w, r, "origin and destination must differ", nil)
	case errors.Is(err, route.ErrStoreUnavailable):
		response.ServiceUnavailable(w, r, "schedule store is temporarily unavailable")
	default:
		response.InternalError(w, r, "route search failed")
	}
}

func toAPIRoutes(itineraries []route.Itinerary) []models.Route {
	routes := make([]models.Route, 0, len(itineraries))
	for i := range itineraries {
		it := &itineraries[i]
		r := models.Route{
			Flight:                  transportation.ToAPITransportation(&it.Flight),
			OriginLocationName:      it.OriginName,
			DestinationLocationName: it.DestinationName,
		}
		if it.Before != nil {
			before := transportation.ToAPITransportation(it.Before)
			r.BeforeFlight = &before
		}
		if it.After != nil {
			after := transportation.ToAPITransportation(it.After)
			r.AfterFlight = &after
		}
		routes = append(routes, r)
	}
	return routes
}

// withoutDay removes the requested weekday from an alternative-day list.
func withoutDay(days []int, day int) []int {
	out := make([]int, 0, len(days))
	for _, d := range days {
		if d != day {
			out = append(out, d)
		}
	}
	return out
}
