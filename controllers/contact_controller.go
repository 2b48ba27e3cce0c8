package controllers

import (
	"encoding/json"
	"math"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/corporate-inc/contact-api/logging"
	"github.com/corporate-inc/contact-api/metrics"
	"github.com/corporate-inc/contact-api/middleware"
	"github.com/corporate-inc/contact-api/models"
	"github.com/corporate-inc/contact-api/services"
)

// sessionCSRFKey is where the issued token lives in the caller's session
const sessionCSRFKey = "csrf_token"

// ContactController handles the public contact form endpoints
type ContactController struct {
	contact services.ContactService
	log     logging.Logger
}

// NewContactController creates a new contact controller
func NewContactController(contact services.ContactService, log logging.Logger) *ContactController {
	return &ContactController{
		contact: contact,
		log:     log,
	}
}

// Submit handles POST /api/contact
func (c *ContactController) Submit(w http.ResponseWriter, r *http.Request) {
	var form models.ContactForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	sess := session.GetSession(r)
	sessionToken, _ := sess.Get(sessionCSRFKey).(string)

	result, err := c.contact.ProcessSubmission(r.Context(), &services.SubmissionRequest{
		Form:         form,
		ClientIP:     middleware.ClientIP(r),
		UserAgent:    r.UserAgent(),
		SessionToken: sessionToken,
	})
	if err != nil {
		metrics.ObserveSubmission(metrics.OutcomeError)
		writeInternalError(w, c.log, "contact.submit", err)
		return
	}

	if !result.Success {
		if result.RateLimited {
			metrics.ObserveSubmission(metrics.OutcomeRateLimited)
			metrics.ObserveRateLimited(metrics.ScopeSubmission)
			writeRateLimited(w, result.Message, int(math.Ceil(result.RetryAfter.Seconds())))
			return
		}
		metrics.ObserveSubmission(metrics.OutcomeRejected)
		writeValidationError(w, result.Message, result.FieldErrors.GetMessages())
		return
	}

	// A successful submission consumes the token; replays need a new one.
	_ = sess.Delete(sessionCSRFKey)

	metrics.ObserveSubmission(metrics.OutcomeAccepted)
	writeSuccess(w, http.StatusOK, map[string]any{
		"submission_id": result.SubmissionID,
		"message":       result.Message,
	})
}

// CSRFToken handles GET /api/contact/csrf
func (c *ContactController) CSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := c.contact.NewCSRFToken(r.Context())
	if err != nil {
		writeInternalError(w, c.log, "contact.csrf", err)
		return
	}

	sess := session.GetSession(r)
	if err := sess.Set(sessionCSRFKey, token); err != nil {
		writeInternalError(w, c.log, "contact.csrf", err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"csrf_token": token})
}
