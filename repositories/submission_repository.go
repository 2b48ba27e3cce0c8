package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/corporate-inc/contact-api/models"
)

// SubmissionRepository interface defines contact submission database operations
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.ContactSubmission) error
	GetByID(ctx context.Context, id string) (*models.ContactSubmission, error)
	GetByEmail(ctx context.Context, email string) ([]models.ContactSubmission, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.ContactSubmission, error)
	Count(ctx context.Context) (int, error)
	DeleteByEmail(ctx context.Context, email string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// submissionRepository implements SubmissionRepository interface
type submissionRepository struct {
	db *sql.DB
}

// NewSubmissionRepository creates a new contact submission repository
func NewSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

// Create inserts a new contact submission
func (r *submissionRepository) Create(ctx context.Context, submission *models.ContactSubmission) error {
	query := `
		INSERT INTO contact_submissions (id, name, email, message, timestamp, consent_given,
		       ip_address_hash, user_agent, created_at, retention_expiry)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	// Set default values
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.Timestamp.IsZero() {
		submission.Timestamp = time.Now().UTC()
	}
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = submission.Timestamp
	}
	if submission.RetentionExpiry.IsZero() {
		submission.RetentionExpiry = models.RetentionExpiry(submission.CreatedAt, models.ContactRetentionDays)
	}

	userAgent := sql.NullString{String: submission.UserAgent, Valid: submission.UserAgent != ""}

	_, err := r.db.ExecContext(ctx, query,
		submission.ID,
		submission.Name,
		submission.Email,
		submission.Message,
		submission.Timestamp,
		submission.ConsentGiven,
		submission.IPAddressHash,
		userAgent,
		submission.CreatedAt,
		submission.RetentionExpiry,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact submission: %w", err)
	}

	return nil
}

// GetByID retrieves a contact submission by ID
func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.ContactSubmission, error) {
	query := `
		SELECT id, name, email, message, timestamp, consent_given,
		       ip_address_hash, user_agent, created_at, updated_at, retention_expiry
		FROM contact_submissions
		WHERE id = ?
	`

	var submission models.ContactSubmission
	var userAgent sql.NullString
	var updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&submission.ID,
		&submission.Name,
		&submission.Email,
		&submission.Message,
		&submission.Timestamp,
		&submission.ConsentGiven,
		&submission.IPAddressHash,
		&userAgent,
		&submission.CreatedAt,
		&updatedAt,
		&submission.RetentionExpiry,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact submission: %w", err)
	}

	// Convert NULL values to empty string/nil
	if userAgent.Valid {
		submission.UserAgent = userAgent.String
	}
	if updatedAt.Valid {
		submission.UpdatedAt = &updatedAt.Time
	}

	return &submission, nil
}

// GetByEmail retrieves all submissions for an email address, oldest first
func (r *submissionRepository) GetByEmail(ctx context.Context, email string) ([]models.ContactSubmission, error) {
	query := `
		SELECT id, name, email, message, timestamp, consent_given,
		       ip_address_hash, user_agent, created_at, updated_at, retention_expiry
		FROM contact_submissions
		WHERE email = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions by email: %w", err)
	}
	defer rows.Close()

	var submissions []models.ContactSubmission
	for rows.Next() {
		var submission models.ContactSubmission
		var userAgent sql.NullString
		var updatedAt sql.NullTime

		err := rows.Scan(
			&submission.ID,
			&submission.Name,
			&submission.Email,
			&submission.Message,
			&submission.Timestamp,
			&submission.ConsentGiven,
			&submission.IPAddressHash,
			&userAgent,
			&submission.CreatedAt,
			&updatedAt,
			&submission.RetentionExpiry,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact submission: %w", err)
		}

		// Convert NULL values to empty string/nil
		if userAgent.Valid {
			submission.UserAgent = userAgent.String
		}
		if updatedAt.Valid {
			submission.UpdatedAt = &updatedAt.Time
		}

		submissions = append(submissions, submission)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact submissions: %w", err)
	}

	return submissions, nil
}

// GetAll retrieves submissions newest first, paginated
func (r *submissionRepository) GetAll(ctx context.Context, limit, offset int) ([]models.ContactSubmission, error) {
	query := `
		SELECT id, name, email, message, timestamp, consent_given,
		       ip_address_hash, user_agent, created_at, updated_at, retention_expiry
		FROM contact_submissions
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact submissions: %w", err)
	}
	defer rows.Close()

	var submissions []models.ContactSubmission
	for rows.Next() {
		var submission models.ContactSubmission
		var userAgent sql.NullString
		var updatedAt sql.NullTime

		err := rows.Scan(
			&submission.ID,
			&submission.Name,
			&submission.Email,
			&submission.Message,
			&submission.Timestamp,
			&submission.ConsentGiven,
			&submission.IPAddressHash,
			&userAgent,
			&submission.CreatedAt,
			&updatedAt,
			&submission.RetentionExpiry,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact submission: %w", err)
		}

		// Convert NULL values to empty string/nil
		if userAgent.Valid {
			submission.UserAgent = userAgent.String
		}
		if updatedAt.Valid {
			submission.UpdatedAt = &updatedAt.Time
		}

		submissions = append(submissions, submission)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact submissions: %w", err)
	}

	return submissions, nil
}

// Count returns the total number of contact submissions
func (r *submissionRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM contact_submissions`

	var count int
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contact submissions: %w", err)
	}

	return count, nil
}

// DeleteByEmail removes all submissions for an email address and returns
// how many rows were deleted. Audit rows referencing the deleted submissions
// keep their history; the foreign key clears submission_id on delete.
func (r *submissionRepository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	query := `DELETE FROM contact_submissions WHERE email = ?`

	result, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return 0, fmt.Errorf("failed to delete submissions by email: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// DeleteExpired removes submissions whose retention period has passed
func (r *submissionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM contact_submissions WHERE datetime(retention_expiry) <= datetime(?)`

	result, err := r.db.ExecContext(ctx, query, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired submissions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
