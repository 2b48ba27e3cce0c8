package controllers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"gitea.com/go-chi/session"
	"github.com/go-chi/chi/v5"

	"github.com/corporate-inc/contact-api/database"
	"github.com/corporate-inc/contact-api/logging"
	"github.com/corporate-inc/contact-api/middleware"
	"github.com/corporate-inc/contact-api/models"
	"github.com/corporate-inc/contact-api/ratelimiter"
	"github.com/corporate-inc/contact-api/repositories"
	"github.com/corporate-inc/contact-api/services"
)

// newTestServer wires the real stack against a temp database: migrations,
// repositories, services, controllers, session middleware.
func newTestServer(t *testing.T) (*httptest.Server, *http.Client, *sql.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test_contact.db")
	if err := database.InitializeDatabase(dbPath); err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB() })
	db := database.GetDB()

	repos := repositories.NewRepositories(db)
	limiter := ratelimiter.NewSlidingWindow(100, time.Minute, 0)
	t.Cleanup(limiter.Close)

	log := logging.NewNop()
	srvs := services.NewServices(repos, limiter, services.NewLogNotifier(log), "test_salt", log)
	ctrl := NewControllers(srvs, db, log)

	r := chi.NewRouter()
	sessioner, err := session.Sessioner(session.Options{Provider: "memory", CookieName: "test_session"})
	if err != nil {
		t.Fatalf("Failed to create session middleware: %v", err)
	}
	r.Use(sessioner)

	r.Get("/api/health", ctrl.Health.Check)
	r.Get("/api/contact/csrf", ctrl.Contact.CSRFToken)
	r.Post("/api/contact", ctrl.Contact.Submit)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/admin/submissions/{id}", ctrl.Admin.GetSubmission)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}

	return srv, &http.Client{Jar: jar}, db
}

// fetchCSRFToken walks the token handshake with the session cookie jar
func fetchCSRFToken(t *testing.T, srv *httptest.Server, client *http.Client) string {
	t.Helper()

	resp, err := client.Get(srv.URL + "/api/contact/csrf")
	if err != nil {
		t.Fatalf("CSRF request failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Success   bool   `json:"success"`
		CSRFToken string `json:"csrf_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode CSRF response: %v", err)
	}
	if !body.Success || len(body.CSRFToken) != 32 {
		t.Fatalf("Expected 32-char CSRF token, got %q", body.CSRFToken)
	}
	return body.CSRFToken
}

func postContact(t *testing.T, srv *httptest.Server, client *http.Client, form map[string]any) *http.Response {
	t.Helper()

	payload, err := json.Marshal(form)
	if err != nil {
		t.Fatalf("Failed to marshal form: %v", err)
	}
	resp, err := client.Post(srv.URL+"/api/contact", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Submit request failed: %v", err)
	}
	return resp
}

func TestSubmitContactForm(t *testing.T) {
	srv, client, db := newTestServer(t)
	token := fetchCSRFToken(t, srv, client)

	resp := postContact(t, srv, client, map[string]any{
		"name":       "John Doe",
		"email":      "john@example.com",
		"message":    "Hi",
		"consent":    true,
		"csrf_token": token,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		Success      bool   `json:"success"`
		SubmissionID string `json:"submission_id"`
		Message      string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !body.Success || body.SubmissionID == "" {
		t.Fatalf("Expected successful submission with ID, got %+v", body)
	}

	// Exactly one success audit event for the stored submission
	var successEvents int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM audit_logs WHERE event_type = ? AND submission_id = ?",
		models.EventContactSubmissionSuccess, body.SubmissionID,
	).Scan(&successEvents)
	if err != nil {
		t.Fatalf("Failed to count audit events: %v", err)
	}
	if successEvents != 1 {
		t.Errorf("Expected exactly 1 success audit event, got %d", successEvents)
	}

	// The stored row carries a hash, never the client address
	var ipHash string
	err = db.QueryRow("SELECT ip_address_hash FROM contact_submissions WHERE id = ?", body.SubmissionID).Scan(&ipHash)
	if err != nil {
		t.Fatalf("Failed to read stored submission: %v", err)
	}
	if ipHash == "" || ipHash == "127.0.0.1" {
		t.Errorf("Expected hashed IP address, got %q", ipHash)
	}
}

func TestSubmitRejectsMissingCSRF(t *testing.T) {
	srv, client, db := newTestServer(t)

	resp := postContact(t, srv, client, map[string]any{
		"name":    "John Doe",
		"email":   "john@example.com",
		"message": "Hi",
		"consent": true,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected status 400 without CSRF token, got %d", resp.StatusCode)
	}

	var stored int
	if err := db.QueryRow("SELECT COUNT(*) FROM contact_submissions").Scan(&stored); err != nil {
		t.Fatalf("Failed to count submissions: %v", err)
	}
	if stored != 0 {
		t.Errorf("Expected no stored submissions, got %d", stored)
	}
}

func TestSubmitRejectsStaleCSRFAfterSuccess(t *testing.T) {
	srv, client, _ := newTestServer(t)
	token := fetchCSRFToken(t, srv, client)

	form := map[string]any{
		"name":       "John Doe",
		"email":      "john@example.com",
		"message":    "Hi",
		"consent":    true,
		"csrf_token": token,
	}

	first := postContact(t, srv, client, form)
	first.Body.Close()
	if first.StatusCode != http.StatusOK {
		t.Fatalf("Expected first submission to succeed, got %d", first.StatusCode)
	}

	// The token was consumed; a replay with the same one must fail
	second := postContact(t, srv, client, form)
	defer second.Body.Close()
	if second.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected replayed token to be rejected with 400, got %d", second.StatusCode)
	}
}

func TestSubmitRejectsWithoutConsent(t *testing.T) {
	srv, client, _ := newTestServer(t)
	token := fetchCSRFToken(t, srv, client)

	resp := postContact(t, srv, client, map[string]any{
		"name":       "John Doe",
		"email":      "john@example.com",
		"message":    "Hi",
		"consent":    false,
		"csrf_token": token,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected status 400 without consent, got %d", resp.StatusCode)
	}

	var body struct {
		Success bool     `json:"success"`
		Details []string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Success {
		t.Error("Expected success=false")
	}
	if len(body.Details) == 0 {
		t.Error("Expected validation details in response")
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, client, _ := newTestServer(t)

	resp, err := client.Get(srv.URL + "/api/health")
	if err != nil {
		t.Fatalf("Health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		Status  string `json:"status"`
		Service string `json:"service"`
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if body.Status != "healthy" || body.Service != ServiceName || body.Version != ServiceVersion {
		t.Errorf("Unexpected health payload: %+v", body)
	}
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	srv, client, _ := newTestServer(t)

	resp, err := client.Get(srv.URL + "/admin/submissions/some-id")
	if err != nil {
		t.Fatalf("Admin request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without session, got %d", resp.StatusCode)
	}
}
