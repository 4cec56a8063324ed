// Package responses defines JSON response types used by Markview HTTP handlers.
package responses

import "time"

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
	Uptime      float64   `json:"uptime"`
	Routes      int       `json:"routes"`
	Stylesheets int       `json:"stylesheets"`
}
