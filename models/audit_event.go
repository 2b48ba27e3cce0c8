package models

import (
	"encoding/json"
	"time"
)

// Audit event types recorded by the service. The taxonomy is append-only;
// renaming a type would orphan historical rows.
const (
	EventContactSubmissionAttempt = "contact_form_submission_attempt"
	EventContactSubmissionSuccess = "contact_form_submission_success"
	EventContactValidationError   = "contact_form_validation_error"
	EventContactRateLimited       = "contact_form_rate_limited"
	EventContactError             = "contact_form_error"

	EventDataExportRequest   = "data_export_request"
	EventDataExportSuccess   = "data_export_success"
	EventDataExportError     = "data_export_error"
	EventDataDeletionRequest = "data_deletion_request"
	EventDataDeletionSuccess = "data_deletion_success"
	EventDataDeletionError   = "data_deletion_error"
	EventGDPRErasureRequest  = "gdpr_erasure_request"

	EventEmailNotificationSent  = "email_notification_sent"
	EventEmailNotificationError = "email_notification_error"
	EventRetentionCleanup       = "data_retention_cleanup"

	EventHTTPMutation = "http_mutation"
)

// AuditEvent represents one entry in the append-only audit trail
type AuditEvent struct {
	ID              string    `json:"id" db:"id"`
	EventType       string    `json:"event_type" db:"event_type"`
	Timestamp       time.Time `json:"timestamp" db:"timestamp"`
	UserID          string    `json:"user_id,omitempty" db:"user_id"`
	IPHash          string    `json:"ip_hash,omitempty" db:"ip_hash"`
	UserAgent       string    `json:"user_agent,omitempty" db:"user_agent"`
	SubmissionID    string    `json:"submission_id,omitempty" db:"submission_id"`
	EventData       string    `json:"event_data,omitempty" db:"event_data"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	RetentionExpiry time.Time `json:"retention_expiry" db:"retention_expiry"`
}

// EncodeEventData serializes structured event details to the stored JSON
// form. Serialization failures degrade to an empty object rather than losing
// the audit row.
func EncodeEventData(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
