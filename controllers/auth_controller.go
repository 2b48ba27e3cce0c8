package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/corporate-inc/contact-api/authenticator"
	"github.com/corporate-inc/contact-api/logging"
)

// AuthController handles the OIDC session flow for the admin surface
type AuthController struct {
	log logging.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(log logging.Logger) *AuthController {
	return &AuthController{log: log}
}

// Login initiates the authentication process
func (c *AuthController) Login(auth authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, err := generateRandomState()
		if err != nil {
			writeInternalError(w, c.log, "auth.login", err)
			return
		}

		// Save the state in the session to validate in callback
		sess := session.GetSession(r)
		if err := sess.Set("state", state); err != nil {
			writeInternalError(w, c.log, "auth.login", err)
			return
		}

		http.Redirect(w, r, auth.GetAuthURL(state), http.StatusTemporaryRedirect)
	}
}

// Callback handles the redirect back from the identity provider
func (c *AuthController) Callback(auth authenticator.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.GetSession(r)

		storedState, ok := sess.Get("state").(string)
		if !ok || storedState == "" {
			writeError(w, http.StatusBadRequest, "State not found in session")
			return
		}
		if r.URL.Query().Get("state") != storedState {
			writeError(w, http.StatusBadRequest, "Invalid state parameter")
			return
		}

		token, err := auth.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
		if err != nil {
			c.log.Warn(logging.General, logging.Login, "authorization code exchange failed",
				map[logging.ExtraKey]any{logging.ErrorMessage: err.Error()})
			writeError(w, http.StatusUnauthorized, "Authentication failed")
			return
		}

		claims, err := auth.GetClaims(r.Context(), token)
		if err != nil {
			c.log.Warn(logging.General, logging.Login, "ID token verification failed",
				map[logging.ExtraKey]any{logging.ErrorMessage: err.Error()})
			writeError(w, http.StatusUnauthorized, "Authentication failed")
			return
		}

		subject := claims.Subject()
		if subject == "" {
			writeError(w, http.StatusUnauthorized, "Authentication failed")
			return
		}

		if err := sess.Set("user_id", subject); err != nil {
			writeInternalError(w, c.log, "auth.callback", err)
			return
		}
		if email := claims.Email(); email != "" {
			_ = sess.Set("user_email", email)
		}
		_ = sess.Delete("state")

		c.log.Info(logging.General, logging.Login, "admin user authenticated",
			map[logging.ExtraKey]any{logging.UserID: subject})

		writeSuccess(w, http.StatusOK, map[string]any{"message": "Authenticated"})
	}
}

// Logout ends the caller's session
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	if err := sess.Flush(); err != nil {
		writeInternalError(w, c.log, "auth.logout", err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"message": "Logged out"})
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
