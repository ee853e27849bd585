package models

// Location represents a location in API responses.
type Location struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Code      string    `json:"locationCode"`
	IsAnchor  bool      `json:"isAnchor"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// PagedLocations is a paginated list of locations.
type PagedLocations struct {
	Items []Location        `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// LocationCreateRequest is the request body for creating a location.
type LocationCreateRequest struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	City     string `json:"city"`
	Code     string `json:"locationCode"`
	IsAnchor bool   `json:"isAnchor"`
}

// LocationUpdateRequest is the request body for updating a location.
// Nil fields are left unchanged.
type LocationUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Country  *string `json:"country,omitempty"`
	City     *string `json:"city,omitempty"`
	Code     *string `json:"locationCode,omitempty"`
	IsAnchor *bool   `json:"isAnchor,omitempty"`
}
