package models

// HealthStatus represents the health status of a service dependency.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "OK"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusFail     HealthStatus = "FAIL"
)

// HealthResponse is the response for the health endpoint.
type HealthResponse struct {
	Status    HealthStatus `json:"status"`
	Version   string       `json:"version"`
	BuildTime string       `json:"buildTime"`
}

// ReadinessResponse is the response for the readiness endpoint.
type ReadinessResponse struct {
	Status HealthStatus            `json:"status"`
	Checks map[string]HealthStatus `json:"checks"`
}
