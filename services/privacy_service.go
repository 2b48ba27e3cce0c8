package services

import (
	"context"
	"fmt"
	"time"

	"github.com/corporate-inc/contact-api/logging"
	"github.com/corporate-inc/contact-api/models"
	"github.com/corporate-inc/contact-api/privacy"
	"github.com/corporate-inc/contact-api/repositories"
	"github.com/corporate-inc/contact-api/userctx"
	"github.com/corporate-inc/contact-api/validation"
)

// Client-facing messages for data subject requests
const (
	MsgInvalidEmail     = "Invalid email format"
	MsgErasureScheduled = "Your data has been scheduled for deletion."
)

// ExportResult is the outcome of a data export request (right to data
// portability). Submissions are included directly; there is no async
// delivery step.
type ExportResult struct {
	Success     bool                       `json:"success"`
	Message     string                     `json:"message,omitempty"`
	Email       string                     `json:"email,omitempty"`
	Format      string                     `json:"format,omitempty"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Submissions []models.ContactSubmission `json:"submissions"`
}

// ErasureResult is the outcome of a data erasure request (right to erasure)
type ErasureResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	DeletedCount int64  `json:"deleted_count"`
}

// PrivacyService interface defines the GDPR data subject operations
type PrivacyService interface {
	ExportUserData(ctx context.Context, email string) (*ExportResult, error)
	EraseUserData(ctx context.Context, email string) (*ErasureResult, error)
}

// privacyService implements PrivacyService interface
type privacyService struct {
	submissionRepo repositories.SubmissionRepository
	auditRepo      repositories.AuditRepository
	salt           string
	log            logging.Logger
}

// NewPrivacyService creates a new privacy service
func NewPrivacyService(submissionRepo repositories.SubmissionRepository, auditRepo repositories.AuditRepository,
	salt string, log logging.Logger) PrivacyService {
	return &privacyService{
		submissionRepo: submissionRepo,
		auditRepo:      auditRepo,
		salt:           salt,
		log:            log,
	}
}

// ExportUserData collects every submission stored for the given email
// address. An unknown address yields a successful, empty export.
func (s *privacyService) ExportUserData(ctx context.Context, email string) (*ExportResult, error) {
	if !validation.ValidEmail(email) {
		return &ExportResult{Success: false, Message: MsgInvalidEmail}, nil
	}

	// The audit trail stores a hash of the identifier, never the address
	emailHash := privacy.HashIdentifier(email, s.salt)

	requestData := map[string]any{"user_identifier_hash": emailHash}
	if by := s.requesterHash(ctx); by != "" {
		requestData["requested_by_hash"] = by
	}

	s.audit(ctx, &models.AuditEvent{
		EventType: models.EventDataExportRequest,
		EventData: models.EncodeEventData(requestData),
	})

	submissions, err := s.submissionRepo.GetByEmail(ctx, email)
	if err != nil {
		s.audit(ctx, &models.AuditEvent{EventType: models.EventDataExportError})
		return nil, fmt.Errorf("failed to collect user data: %w", err)
	}

	s.audit(ctx, &models.AuditEvent{
		EventType: models.EventDataExportSuccess,
		EventData: models.EncodeEventData(map[string]any{
			"user_identifier_hash": emailHash,
			"submission_count":     len(submissions),
		}),
	})

	s.log.Info(logging.Privacy, logging.Export, "user data exported",
		map[logging.ExtraKey]any{logging.EmailHash: emailHash, logging.ExportedCount: len(submissions)})

	return &ExportResult{
		Success:     true,
		Email:       email,
		Format:      "json",
		GeneratedAt: timeNow().UTC(),
		Submissions: submissions,
	}, nil
}

// EraseUserData removes every submission stored for the given email
// address. The audit trail keeps its own rows; the foreign keys to the
// erased submissions are cleared, and the erasure itself is recorded with
// a hashed identifier only.
func (s *privacyService) EraseUserData(ctx context.Context, email string) (*ErasureResult, error) {
	if !validation.ValidEmail(email) {
		return &ErasureResult{Success: false, Message: MsgInvalidEmail}, nil
	}

	emailHash := privacy.HashIdentifier(email, s.salt)

	requestData := map[string]any{"user_identifier_hash": emailHash}
	if by := s.requesterHash(ctx); by != "" {
		requestData["requested_by_hash"] = by
	}

	s.audit(ctx, &models.AuditEvent{
		EventType: models.EventDataDeletionRequest,
		EventData: models.EncodeEventData(requestData),
	})

	deleted, err := s.submissionRepo.DeleteByEmail(ctx, email)
	if err != nil {
		s.audit(ctx, &models.AuditEvent{EventType: models.EventDataDeletionError})
		return nil, fmt.Errorf("failed to erase user data: %w", err)
	}

	// The erasure is legally significant on its own; it gets a dedicated
	// event alongside the deletion outcome.
	s.audit(ctx, &models.AuditEvent{
		EventType: models.EventGDPRErasureRequest,
		EventData: models.EncodeEventData(map[string]any{
			"user_identifier_hash": emailHash,
			"deleted_count":        deleted,
		}),
	})
	s.audit(ctx, &models.AuditEvent{
		EventType: models.EventDataDeletionSuccess,
		EventData: models.EncodeEventData(map[string]any{
			"user_identifier_hash": emailHash,
			"deleted_count":        deleted,
		}),
	})

	s.log.Info(logging.Privacy, logging.Erasure, "user data erased",
		map[logging.ExtraKey]any{logging.EmailHash: emailHash, logging.DeletedCount: deleted})

	return &ErasureResult{
		Success:      true,
		Message:      MsgErasureScheduled,
		DeletedCount: deleted,
	}, nil
}

// requesterHash identifies the authenticated operator acting on the data
// subject's behalf. Like the subject itself, the operator is stored hashed.
// Unauthenticated requests carry no attribution.
func (s *privacyService) requesterHash(ctx context.Context) string {
	email := userctx.GetUserEmail(ctx)
	if email == "" || email == "anonymous" {
		return ""
	}
	return privacy.HashIdentifier(email, s.salt)
}

// audit records a compliance event attributed to the acting operator,
// logging rather than failing on a write error
func (s *privacyService) audit(ctx context.Context, event *models.AuditEvent) {
	if event.UserID == "" {
		event.UserID = userctx.GetUserID(ctx)
	}
	if err := s.auditRepo.Create(ctx, event); err != nil {
		s.log.Error(logging.Database, logging.Audit, "failed to record audit event",
			map[logging.ExtraKey]any{logging.EventType: event.EventType, logging.ErrorMessage: err.Error()})
	}
}
