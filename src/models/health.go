package models

// HealthStatus is returned by GET /api/health.
type HealthStatus struct {
	Status    string `json:"status" example:"running"`
	Database  string `json:"database" example:"Fallback"`
	Timestamp string `json:"timestamp" example:"2024-01-15T10:00:00Z"`
}
