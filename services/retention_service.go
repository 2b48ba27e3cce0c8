package services

import (
	"context"
	"fmt"
	"time"

	"github.com/corporate-inc/contact-api/logging"
	"github.com/corporate-inc/contact-api/models"
	"github.com/corporate-inc/contact-api/repositories"
)

// CleanupResult reports how many expired records one cleanup pass removed
type CleanupResult struct {
	Success            bool      `json:"success"`
	SubmissionsDeleted int64     `json:"submissions_deleted"`
	AuditEventsDeleted int64     `json:"audit_events_deleted"`
	RanAt              time.Time `json:"ran_at"`
}

// RetentionService interface defines retention policy enforcement
type RetentionService interface {
	CleanupExpired(ctx context.Context) (*CleanupResult, error)
}

// retentionService implements RetentionService interface
type retentionService struct {
	submissionRepo repositories.SubmissionRepository
	auditRepo      repositories.AuditRepository
	log            logging.Logger
}

// NewRetentionService creates a new retention service
func NewRetentionService(submissionRepo repositories.SubmissionRepository, auditRepo repositories.AuditRepository,
	log logging.Logger) RetentionService {
	return &retentionService{
		submissionRepo: submissionRepo,
		auditRepo:      auditRepo,
		log:            log,
	}
}

// CleanupExpired removes all records past their retention expiry:
// submissions first, then audit events. One cleanup event summarizing both
// counts is written afterwards, so the cleanup itself stays on the trail.
func (s *retentionService) CleanupExpired(ctx context.Context) (*CleanupResult, error) {
	now := timeNow().UTC()

	submissionsDeleted, err := s.submissionRepo.DeleteExpired(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to delete expired submissions: %w", err)
	}

	auditDeleted, err := s.auditRepo.DeleteExpired(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to delete expired audit events: %w", err)
	}

	event := &models.AuditEvent{
		EventType: models.EventRetentionCleanup,
		EventData: models.EncodeEventData(map[string]any{
			"submissions_deleted":  submissionsDeleted,
			"audit_events_deleted": auditDeleted,
		}),
	}
	if err := s.auditRepo.Create(ctx, event); err != nil {
		s.log.Error(logging.Database, logging.Audit, "failed to record audit event",
			map[logging.ExtraKey]any{logging.EventType: event.EventType, logging.ErrorMessage: err.Error()})
	}

	s.log.Info(logging.Retention, logging.Cleanup, "retention cleanup finished",
		map[logging.ExtraKey]any{logging.DeletedCount: submissionsDeleted + auditDeleted})

	return &CleanupResult{
		Success:            true,
		SubmissionsDeleted: submissionsDeleted,
		AuditEventsDeleted: auditDeleted,
		RanAt:              now,
	}, nil
}
