package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// Test ContactForm validation
func TestContactFormValidation(t *testing.T) {
	// Test valid form
	validForm := ContactForm{
		Name:    "John Doe",
		Email:   "john@example.com",
		Message: "Hello, I would like more information about your services.",
		Consent: true,
	}
	errors := validForm.Validate()
	if errors.HasErrors() {
		t.Errorf("Expected no errors for valid form, got: %v", errors.GetMessages())
	}

	// Test invalid form
	invalidForm := ContactForm{
		Name:    "", // Empty name
		Email:   "invalid-email",
		Message: "",
		Consent: true,
	}
	errors = invalidForm.Validate()
	if len(errors) != 3 {
		t.Errorf("Expected 3 errors for invalid form, got: %v", errors.GetMessages())
	}
}

func TestContactFormConsentRequired(t *testing.T) {
	form := ContactForm{
		Name:    "John Doe",
		Email:   "john@example.com",
		Message: "A valid message",
		Consent: false,
	}
	errors := form.Validate()
	if !errors.HasErrors() {
		t.Fatal("Expected an error when consent is not given")
	}

	found := false
	for _, e := range errors {
		if e.Field == "consent" && e.Message == "Consent is required to process your request" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected consent error, got: %v", errors.GetMessages())
	}
}

func TestContactFormLengthLimits(t *testing.T) {
	form := ContactForm{
		Name:    strings.Repeat("a", MaxNameLength+1),
		Email:   "john@example.com",
		Message: strings.Repeat("b", MaxMessageLength+1),
		Consent: true,
	}
	errors := form.Validate()
	if len(errors) != 2 {
		t.Errorf("Expected 2 length errors, got: %v", errors.GetMessages())
	}
}

func TestContactFormRejectsDangerousContent(t *testing.T) {
	form := ContactForm{
		Name:    "John Doe",
		Email:   "john@example.com",
		Message: `<script>alert("xss")</script>`,
		Consent: true,
	}
	errors := form.Validate()
	if !errors.HasErrors() {
		t.Fatal("Expected an error for script content in message")
	}
	if errors[0].Message != "Invalid input detected" {
		t.Errorf("Expected generic injection error, got: %v", errors.GetMessages())
	}
}

// Test retention expiry calculation
func TestRetentionExpiry(t *testing.T) {
	createdAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	contactExpiry := RetentionExpiry(createdAt, ContactRetentionDays)
	if contactExpiry.Before(createdAt.AddDate(0, 0, 5*365-1)) {
		t.Error("Expected contact retention of 5 years")
	}

	auditExpiry := RetentionExpiry(createdAt, AuditRetentionDays)
	if !auditExpiry.After(contactExpiry) {
		t.Error("Expected audit retention to outlast contact retention")
	}
}

// Test event data encoding
func TestEncodeEventData(t *testing.T) {
	if got := EncodeEventData(nil); got != "" {
		t.Errorf("Expected empty string for nil data, got %q", got)
	}

	encoded := EncodeEventData(map[string]any{"submission_id": "abc-123", "count": 2})
	var decoded map[string]any
	if err := json.Unmarshal([]byte(encoded), &decoded); err != nil {
		t.Fatalf("Expected valid JSON, got %q: %v", encoded, err)
	}
	if decoded["submission_id"] != "abc-123" {
		t.Errorf("Expected submission_id to round-trip, got %v", decoded)
	}
}

// Test validation error helpers
func TestValidationErrors(t *testing.T) {
	var errors ValidationErrors
	if errors.HasErrors() {
		t.Error("Expected no errors initially")
	}

	errors.Add("email", "Invalid email format")
	errors.Add("consent", "Consent is required to process your request")

	if !errors.HasErrors() {
		t.Error("Expected errors after adding")
	}
	messages := errors.GetMessages()
	if len(messages) != 2 || messages[0] != "Invalid email format" {
		t.Errorf("Expected messages in order, got: %v", messages)
	}
}
