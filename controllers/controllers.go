package controllers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/corporate-inc/contact-api/logging"
	"github.com/corporate-inc/contact-api/services"
)

// MsgInternalError is the only message a caller ever sees for a server-side
// failure. The underlying error goes to the log, never across the wire.
const MsgInternalError = "An internal error occurred. Please try again later."

// Controllers holds all controller instances
type Controllers struct {
	Contact *ContactController
	Privacy *PrivacyController
	Admin   *AdminController
	Health  *HealthController
	Auth    *AuthController
}

// NewControllers creates and initializes all controller instances
func NewControllers(srvs *services.Services, db *sql.DB, log logging.Logger) *Controllers {
	return &Controllers{
		Contact: NewContactController(srvs.Contact, log),
		Privacy: NewPrivacyController(srvs.Privacy, log),
		Admin:   NewAdminController(srvs, log),
		Health:  NewHealthController(db),
		Auth:    NewAuthController(log),
	}
}

// writeJSON writes a payload with the given status. Encoding failures are
// unrecoverable at this point (headers already sent) and are swallowed.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeSuccess writes the success envelope merged with the extra fields
func writeSuccess(w http.ResponseWriter, status int, extra map[string]any) {
	payload := map[string]any{"success": true}
	for k, v := range extra {
		payload[k] = v
	}
	writeJSON(w, status, payload)
}

// writeError writes the failure envelope with a client-facing message
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   message,
	})
}

// writeValidationError writes a 400 carrying the per-field messages
func writeValidationError(w http.ResponseWriter, message string, details []string) {
	payload := map[string]any{
		"success": false,
		"error":   message,
	}
	if len(details) > 0 {
		payload["details"] = details
	}
	writeJSON(w, http.StatusBadRequest, payload)
}

// writeRateLimited writes a 429 with a Retry-After hint
func writeRateLimited(w http.ResponseWriter, message string, retryAfterSeconds int) {
	if retryAfterSeconds > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	writeError(w, http.StatusTooManyRequests, message)
}

// writeInternalError logs the real failure and answers with the generic
// message
func writeInternalError(w http.ResponseWriter, log logging.Logger, operation string, err error) {
	log.Error(logging.RequestResponse, logging.Internal, "request failed",
		map[logging.ExtraKey]any{
			logging.Operation:    operation,
			logging.ErrorMessage: err.Error(),
		})
	writeError(w, http.StatusInternalServerError, MsgInternalError)
}
