package models

import (
	"time"
)

// Retention periods mandated by the data retention policy.
const (
	ContactRetentionDays = 5 * 365 // contact submissions: 5 years
	AuditRetentionDays   = 7 * 365 // audit trail: 7 years
)

// RetentionExpiry returns the moment a record created at the given time
// leaves its retention window and becomes eligible for cleanup.
func RetentionExpiry(createdAt time.Time, days int) time.Time {
	return createdAt.AddDate(0, 0, days)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Add appends a validation error for a field
func (ve *ValidationErrors) Add(field, message string) {
	*ve = append(*ve, ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// GetMessages returns all error messages as a slice of strings
func (ve ValidationErrors) GetMessages() []string {
	messages := make([]string, len(ve))
	for i, err := range ve {
		messages[i] = err.Message
	}
	return messages
}
