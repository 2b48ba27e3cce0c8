package middleware

import (
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/corporate-inc/contact-api/userctx"
)

// RequireAuth ensures the caller holds an authenticated session. The user's
// identity is placed on the request context for downstream handlers and the
// audit trail; unauthenticated requests get a 401 JSON envelope.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)

		userID, ok := sess.Get("user_id").(string)
		if !ok || userID == "" {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		ctx := userctx.SetUserID(r.Context(), userID)
		if email, ok := sess.Get("user_email").(string); ok && email != "" {
			ctx = userctx.SetUserEmail(ctx, email)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
