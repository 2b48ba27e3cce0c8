package controllers

import (
	"database/sql"
	"net/http"
)

// Service identity reported by the health endpoint
const (
	ServiceName    = "contact-api"
	ServiceVersion = "1.0.0"
)

// HealthController handles GET /api/health
type HealthController struct {
	db *sql.DB
}

// NewHealthController creates a new health controller
func NewHealthController(db *sql.DB) *HealthController {
	return &HealthController{db: db}
}

// Check reports service health. The database ping decides between healthy
// and degraded; the endpoint never errors out entirely.
func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if err := c.db.PingContext(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]any{
		"status":  status,
		"service": ServiceName,
		"version": ServiceVersion,
	})
}
