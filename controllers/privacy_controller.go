package controllers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/corporate-inc/contact-api/logging"
	"github.com/corporate-inc/contact-api/services"
)

// PrivacyController handles the data subject endpoints. Both routes sit
// behind RequireAuth; the subject is addressed by email in the URL.
type PrivacyController struct {
	privacy services.PrivacyService
	log     logging.Logger
}

// NewPrivacyController creates a new privacy controller
func NewPrivacyController(privacy services.PrivacyService, log logging.Logger) *PrivacyController {
	return &PrivacyController{
		privacy: privacy,
		log:     log,
	}
}

// Export handles GET /api/users/{id}
func (c *PrivacyController) Export(w http.ResponseWriter, r *http.Request) {
	email, ok := subjectEmail(w, r)
	if !ok {
		return
	}

	result, err := c.privacy.ExportUserData(r.Context(), email)
	if err != nil {
		writeInternalError(w, c.log, "privacy.export", err)
		return
	}
	if !result.Success {
		writeError(w, http.StatusBadRequest, result.Message)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"email":        result.Email,
		"format":       result.Format,
		"generated_at": result.GeneratedAt,
		"submissions":  result.Submissions,
	})
}

// Erase handles DELETE /api/users/{id}
func (c *PrivacyController) Erase(w http.ResponseWriter, r *http.Request) {
	email, ok := subjectEmail(w, r)
	if !ok {
		return
	}

	result, err := c.privacy.EraseUserData(r.Context(), email)
	if err != nil {
		writeInternalError(w, c.log, "privacy.erase", err)
		return
	}
	if !result.Success {
		writeError(w, http.StatusBadRequest, result.Message)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{
		"message":       result.Message,
		"deleted_count": result.DeletedCount,
	})
}

// subjectEmail extracts and unescapes the {id} path segment. A malformed
// escape answers the request itself and reports false.
func subjectEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "id")
	email, err := url.PathUnescape(raw)
	if err != nil || email == "" {
		writeError(w, http.StatusBadRequest, "Invalid user identifier")
		return "", false
	}
	return email, true
}
