package models

import (
	"strings"
	"time"

	"github.com/corporate-inc/contact-api/validation"
)

// Field length limits, enforced both here and by database CHECK constraints.
const (
	MaxNameLength    = 100
	MaxEmailLength   = 255
	MaxMessageLength = 5000
)

// ContactSubmission represents a stored contact form submission
type ContactSubmission struct {
	ID              string     `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	Email           string     `json:"email" db:"email"`
	Message         string     `json:"message" db:"message"`
	Timestamp       time.Time  `json:"timestamp" db:"timestamp"`
	ConsentGiven    bool       `json:"consent_given" db:"consent_given"`
	IPAddressHash   string     `json:"-" db:"ip_address_hash"`
	UserAgent       string     `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty" db:"updated_at"`
	RetentionExpiry time.Time  `json:"retention_expiry" db:"retention_expiry"`
}

// ContactForm represents the payload of a contact form submission
type ContactForm struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Consent   bool   `json:"consent"`
	CSRFToken string `json:"csrf_token"`
}

// Validate validates the contact form data. Each field runs through a
// composed validator chain; the first failing check decides the message.
// The CSRF token is checked against the session separately, before
// validation runs.
func (f *ContactForm) Validate() ValidationErrors {
	var errors ValidationErrors

	checks := []struct {
		field string
		value string
		rule  validation.Validator
	}{
		{"name", strings.TrimSpace(f.Name), validation.Compose(
			validation.WithMessage(validation.Required(), "Name is required"),
			validation.WithMessage(validation.MaxLength(MaxNameLength), "Name must be 100 characters or less"),
			validation.WithMessage(validation.NotDangerous(), "Invalid input detected"),
		)},
		{"email", strings.TrimSpace(f.Email), validation.Compose(
			validation.WithMessage(validation.Required(), "Email is required"),
			validation.WithMessage(validation.MaxLength(MaxEmailLength), "Email must be 255 characters or less"),
			validation.WithMessage(validation.Email(), "Invalid email format"),
		)},
		{"message", strings.TrimSpace(f.Message), validation.Compose(
			validation.WithMessage(validation.Required(), "Message is required"),
			validation.WithMessage(validation.MaxLength(MaxMessageLength), "Message must be 5000 characters or less"),
			validation.WithMessage(validation.NotDangerous(), "Invalid input detected"),
		)},
	}

	for _, check := range checks {
		if err := check.rule(check.value); err != nil {
			errors.Add(check.field, err.Error())
		}
	}

	if !f.Consent {
		errors.Add("consent", "Consent is required to process your request")
	}

	return errors
}
