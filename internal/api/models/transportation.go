package models

// Transportation represents a transportation edge in API responses.
type Transportation struct {
	ID            string    `json:"id"`
	Origin        Location  `json:"originLocation"`
	Destination   Location  `json:"destinationLocation"`
	Kind          string    `json:"transportationType"`
	OperatingDays []int     `json:"operatingDays"`
	CreatedAt     Timestamp `json:"createdAt"`
	UpdatedAt     Timestamp `json:"updatedAt"`
}

// PagedTransportations is a paginated list of transportation edges.
type PagedTransportations struct {
	Items []Transportation  `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}

// TransportationCreateRequest is the request body for creating a transportation edge.
type TransportationCreateRequest struct {
	OriginID      string `json:"originLocationId"`
	DestinationID string `json:"destinationLocationId"`
	Kind          string `json:"transportationType"`
	OperatingDays []int  `json:"operatingDays"`
}

// TransportationUpdateRequest is the request body for updating a transportation edge.
// Nil fields are left unchanged.
type TransportationUpdateRequest struct {
	OriginID      *string `json:"originLocationId,omitempty"`
	DestinationID *string `json:"destinationLocationId,omitempty"`
	Kind          *string `json:"transportationType,omitempty"`
	OperatingDays []int   `json:"operatingDays,omitempty"`
}

// EnumsResponse lists the closed enumerations the API exposes.
type EnumsResponse struct {
	TransportationTypes []string `json:"transportationTypes"`
	Weekdays            []int    `json:"weekdays"`
}
