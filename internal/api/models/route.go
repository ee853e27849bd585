package models

// RouteSearchRequest is the request body for route search and
// alternative-day queries.
type RouteSearchRequest struct {
	OriginLocationCode      string `json:"originLocationCode"`
	DestinationLocationCode string `json:"destinationLocationCode"`
	Date                    string `json:"date"` // YYYY-MM-DD
}

// Route represents one itinerary: an optional ground transfer before the
// flight, exactly one flight, and an optional ground transfer after it.
type Route struct {
	BeforeFlight *Transportation `json:"beforeFlight,omitempty"`
	Flight       Transportation  `json:"flight"`
	AfterFlight  *Transportation `json:"afterFlight,omitempty"`

	OriginLocationName      string `json:"originLocationName"`
	DestinationLocationName string `json:"destinationLocationName"`
}

// RouteSearchResponse is the response for a route search. AlternativeDays is
// populated only when Routes is empty, listing weekdays on which a direct
// flight exists between the endpoints.
type RouteSearchResponse struct {
	Routes          []Route `json:"routes"`
	AlternativeDays []int   `json:"alternativeDays,omitempty"`
}

// AlternativeDaysResponse is the response for an alternative-days query.
type AlternativeDaysResponse struct {
	Days []int `json:"days"`
}
