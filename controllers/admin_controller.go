package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/corporate-inc/contact-api/logging"
	"github.com/corporate-inc/contact-api/metrics"
	"github.com/corporate-inc/contact-api/repositories"
	"github.com/corporate-inc/contact-api/services"
)

// AdminController handles the authenticated operations endpoints:
// submission listings, the audit trail, and on-demand retention cleanup.
type AdminController struct {
	services *services.Services
	log      logging.Logger
}

// NewAdminController creates a new admin controller
func NewAdminController(srvs *services.Services, log logging.Logger) *AdminController {
	return &AdminController{
		services: srvs,
		log:      log,
	}
}

// ListSubmissions handles GET /admin/submissions
func (c *AdminController) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	submissions, err := c.services.Contact.GetSubmissions(r.Context(), limit, offset)
	if err != nil {
		writeInternalError(w, c.log, "admin.submissions.list", err)
		return
	}

	total, err := c.services.Contact.CountSubmissions(r.Context())
	if err != nil {
		writeInternalError(w, c.log, "admin.submissions.count", err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"submissions": submissions,
		"total":       total,
	})
}

// GetSubmission handles GET /admin/submissions/{id}
func (c *AdminController) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	submission, err := c.services.Contact.GetSubmission(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Submission not found")
			return
		}
		writeInternalError(w, c.log, "admin.submissions.get", err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"submission": submission})
}

// ListAuditEvents handles GET /admin/audit
func (c *AdminController) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	eventType := r.URL.Query().Get("event_type")
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	events, err := c.services.Audit.GetRecentEvents(r.Context(), eventType, limit, offset)
	if err != nil {
		writeInternalError(w, c.log, "admin.audit.list", err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"events": events})
}

// RunRetentionCleanup handles POST /admin/retention/cleanup
func (c *AdminController) RunRetentionCleanup(w http.ResponseWriter, r *http.Request) {
	result, err := c.services.Retention.CleanupExpired(r.Context())
	if err != nil {
		writeInternalError(w, c.log, "admin.retention.cleanup", err)
		return
	}

	metrics.ObserveRetentionDeleted("contact_submissions", result.SubmissionsDeleted)
	metrics.ObserveRetentionDeleted("audit_logs", result.AuditEventsDeleted)

	writeSuccess(w, http.StatusOK, map[string]any{
		"submissions_deleted":  result.SubmissionsDeleted,
		"audit_events_deleted": result.AuditEventsDeleted,
		"ran_at":               result.RanAt,
	})
}

// queryInt parses an integer query parameter, falling back on absence or
// garbage. Range clamping happens in the service layer.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
