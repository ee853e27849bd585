package handler

import (
	"net/http"

	"github.com/flightroutes/flightroutes/internal/api/models"
	"github.com/flightroutes/flightroutes/internal/api/response"
	"github.com/flightroutes/flightroutes/internal/transportation"
)

// MetadataHandler serves static metadata about the API's enumerations.
type MetadataHandler struct{}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{}
}

// GetEnums handles GET /v1/metadata/enums - list closed enumerations.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	kinds := make([]string, 0, len(transportation.Kinds))
	for _, k := range transportation.Kinds {
		kinds = append(kinds, string(k))
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	response.JSON(w, r, http.StatusOK, models.EnumsResponse{
		TransportationTypes: kinds,
		Weekdays:            models.Weekdays,
	})
}
