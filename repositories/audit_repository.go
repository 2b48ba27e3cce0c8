package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corporate-inc/contact-api/metrics"
	"github.com/corporate-inc/contact-api/models"
)

// AuditRepository handles audit trail persistence
type AuditRepository interface {
	Create(ctx context.Context, event *models.AuditEvent) error
	GetByID(ctx context.Context, id string) (*models.AuditEvent, error)
	GetRecent(ctx context.Context, limit, offset int) ([]models.AuditEvent, error)
	GetByType(ctx context.Context, eventType string, limit, offset int) ([]models.AuditEvent, error)
	CountByType(ctx context.Context, eventType string) (int, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// auditRepository implements AuditRepository interface
type auditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &auditRepository{db: db}
}

// Create inserts a new audit event
func (r *auditRepository) Create(ctx context.Context, event *models.AuditEvent) error {
	query := `
		INSERT INTO audit_logs (id, event_type, timestamp, user_id, ip_hash,
		       user_agent, submission_id, event_data, created_at, retention_expiry)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	// Set default values
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = event.Timestamp
	}
	if event.RetentionExpiry.IsZero() {
		event.RetentionExpiry = models.RetentionExpiry(event.CreatedAt, models.AuditRetentionDays)
	}

	userID := sql.NullString{String: event.UserID, Valid: event.UserID != ""}
	ipHash := sql.NullString{String: event.IPHash, Valid: event.IPHash != ""}
	userAgent := sql.NullString{String: event.UserAgent, Valid: event.UserAgent != ""}
	submissionID := sql.NullString{String: event.SubmissionID, Valid: event.SubmissionID != ""}
	eventData := sql.NullString{String: event.EventData, Valid: event.EventData != ""}

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.Timestamp,
		userID,
		ipHash,
		userAgent,
		submissionID,
		eventData,
		event.CreatedAt,
		event.RetentionExpiry,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit event: %w", err)
	}

	metrics.ObserveAuditEvent(event.EventType)

	return nil
}

// GetByID retrieves an audit event by ID
func (r *auditRepository) GetByID(ctx context.Context, id string) (*models.AuditEvent, error) {
	query := `
		SELECT id, event_type, timestamp, user_id, ip_hash,
		       user_agent, submission_id, event_data, created_at, retention_expiry
		FROM audit_logs
		WHERE id = ?
	`

	var event models.AuditEvent
	var userID, ipHash, userAgent, submissionID, eventData sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.EventType,
		&event.Timestamp,
		&userID,
		&ipHash,
		&userAgent,
		&submissionID,
		&eventData,
		&event.CreatedAt,
		&event.RetentionExpiry,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("audit event %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit event: %w", err)
	}

	// Convert NULL values to empty string
	event.UserID = userID.String
	event.IPHash = ipHash.String
	event.UserAgent = userAgent.String
	event.SubmissionID = submissionID.String
	event.EventData = eventData.String

	return &event, nil
}

// GetRecent retrieves audit events newest first, paginated
func (r *auditRepository) GetRecent(ctx context.Context, limit, offset int) ([]models.AuditEvent, error) {
	query := `
		SELECT id, event_type, timestamp, user_id, ip_hash,
		       user_agent, submission_id, event_data, created_at, retention_expiry
		FROM audit_logs
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []models.AuditEvent
	for rows.Next() {
		var event models.AuditEvent
		var userID, ipHash, userAgent, submissionID, eventData sql.NullString

		err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.Timestamp,
			&userID,
			&ipHash,
			&userAgent,
			&submissionID,
			&eventData,
			&event.CreatedAt,
			&event.RetentionExpiry,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}

		// Convert NULL values to empty string
		event.UserID = userID.String
		event.IPHash = ipHash.String
		event.UserAgent = userAgent.String
		event.SubmissionID = submissionID.String
		event.EventData = eventData.String

		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit events: %w", err)
	}

	return events, nil
}

// GetByType retrieves audit events of one type newest first, paginated
func (r *auditRepository) GetByType(ctx context.Context, eventType string, limit, offset int) ([]models.AuditEvent, error) {
	query := `
		SELECT id, event_type, timestamp, user_id, ip_hash,
		       user_agent, submission_id, event_data, created_at, retention_expiry
		FROM audit_logs
		WHERE event_type = ?
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, eventType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events by type: %w", err)
	}
	defer rows.Close()

	var events []models.AuditEvent
	for rows.Next() {
		var event models.AuditEvent
		var userID, ipHash, userAgent, submissionID, eventData sql.NullString

		err := rows.Scan(
			&event.ID,
			&event.EventType,
			&event.Timestamp,
			&userID,
			&ipHash,
			&userAgent,
			&submissionID,
			&eventData,
			&event.CreatedAt,
			&event.RetentionExpiry,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}

		// Convert NULL values to empty string
		event.UserID = userID.String
		event.IPHash = ipHash.String
		event.UserAgent = userAgent.String
		event.SubmissionID = submissionID.String
		event.EventData = eventData.String

		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit events: %w", err)
	}

	return events, nil
}

// CountByType returns the number of audit events of a given type
func (r *auditRepository) CountByType(ctx context.Context, eventType string) (int, error) {
	query := `SELECT COUNT(*) FROM audit_logs WHERE event_type = ?`

	var count int
	err := r.db.QueryRowContext(ctx, query, eventType).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit events: %w", err)
	}

	return count, nil
}

// DeleteExpired removes audit events whose retention period has passed
func (r *auditRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM audit_logs WHERE datetime(retention_expiry) <= datetime(?)`

	result, err := r.db.ExecContext(ctx, query, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired audit events: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
