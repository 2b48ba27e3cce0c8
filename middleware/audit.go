package middleware

import (
	"context"
	"net/http"
	"time"

	"gitea.com/go-chi/session"

	"github.com/corporate-inc/contact-api/logging"
	"github.com/corporate-inc/contact-api/models"
	"github.com/corporate-inc/contact-api/privacy"
	"github.com/corporate-inc/contact-api/repositories"
	"github.com/corporate-inc/contact-api/userctx"
)

// auditWriteTimeout bounds the detached audit write so a stalled database
// cannot leak goroutines indefinitely.
const auditWriteTimeout = 5 * time.Second

// AuditTrail records every mutating request (POST/PUT/DELETE) on the audit
// trail: method, path, hashed client IP, sanitized user agent, and the
// authenticated user when present. Request bodies are never recorded. The
// write happens off the request path so auditing never adds latency.
func AuditTrail(auditRepo repositories.AuditRepository, salt string, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodDelete {
				event := &models.AuditEvent{
					EventType: models.EventHTTPMutation,
					UserID:    requestUserID(r),
					IPHash:    privacy.HashIP(ClientIP(r), salt),
					UserAgent: privacy.SanitizeUserAgent(r.UserAgent()),
					EventData: models.EncodeEventData(map[string]any{
						"method": r.Method,
						"path":   r.URL.Path,
					}),
				}

				go func() {
					ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
					defer cancel()
					if err := auditRepo.Create(ctx, event); err != nil {
						log.Error(logging.Database, logging.Audit, "failed to record request audit event",
							map[logging.ExtraKey]any{
								logging.Method:       r.Method,
								logging.Path:         r.URL.Path,
								logging.ErrorMessage: err.Error(),
							})
					}
				}()
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestUserID resolves the authenticated user for a request. AuditTrail
// runs at router level, before RequireAuth has populated the request
// context, so the session is the authoritative source; the context read
// covers handlers mounted without the sessioner.
func requestUserID(r *http.Request) string {
	if sess := session.GetSession(r); sess != nil {
		if userID, ok := sess.Get("user_id").(string); ok && userID != "" {
			return userID
		}
	}
	return userctx.GetUserID(r.Context())
}
