package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/corporate-inc/contact-api/logging"
	"github.com/corporate-inc/contact-api/models"
	"github.com/corporate-inc/contact-api/privacy"
	"github.com/corporate-inc/contact-api/ratelimiter"
	"github.com/corporate-inc/contact-api/repositories"
	"github.com/corporate-inc/contact-api/validation"
)

var timeNow = func() time.Time {
	return time.Now()
}

// Client-facing messages. Rejections stay generic so validation internals
// are never disclosed to the caller.
const (
	MsgSubmissionAccepted = "Thank you for your message. We will get back to you soon."
	MsgInvalidForm        = "Invalid form data. Please check your input and try again."
	MsgInvalidCSRF        = "Invalid CSRF token"
	MsgTooManyRequests    = "Too many requests. Please try again later."
)

// Listing page sizes for the admin endpoints
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SubmissionRequest carries one contact form submission together with the
// request metadata the compliance trail needs.
type SubmissionRequest struct {
	Form         models.ContactForm
	ClientIP     string
	UserAgent    string
	SessionToken string
}

// SubmissionResult is the business outcome of processing a submission.
// Success=false means the submission was rejected, not that the system
// failed; infrastructure failures are returned as errors instead.
type SubmissionResult struct {
	Success      bool                    `json:"success"`
	Message      string                  `json:"message"`
	SubmissionID string                  `json:"submission_id,omitempty"`
	FieldErrors  models.ValidationErrors `json:"field_errors,omitempty"`
	RateLimited  bool                    `json:"-"`
	RetryAfter   time.Duration           `json:"-"`
}

// ContactService interface defines contact form business logic
type ContactService interface {
	ProcessSubmission(ctx context.Context, req *SubmissionRequest) (*SubmissionResult, error)
	NewCSRFToken(ctx context.Context) (string, error)
	GetSubmission(ctx context.Context, id string) (*models.ContactSubmission, error)
	GetSubmissions(ctx context.Context, limit, offset int) ([]models.ContactSubmission, error)
	CountSubmissions(ctx context.Context) (int, error)
}

// contactService implements ContactService interface
type contactService struct {
	submissionRepo repositories.SubmissionRepository
	auditRepo      repositories.AuditRepository
	limiter        ratelimiter.Limiter
	notifier       Notifier
	salt           string
	log            logging.Logger
}

// NewContactService creates a new contact service
func NewContactService(submissionRepo repositories.SubmissionRepository, auditRepo repositories.AuditRepository,
	limiter ratelimiter.Limiter, notifier Notifier, salt string, log logging.Logger) ContactService {
	return &contactService{
		submissionRepo: submissionRepo,
		auditRepo:      auditRepo,
		limiter:        limiter,
		notifier:       notifier,
		salt:           salt,
		log:            log,
	}
}

// ProcessSubmission runs a contact form submission through the full
// compliance pipeline: audit the attempt, check the CSRF token, apply rate
// limiting, sanitize and validate, persist, audit the outcome, notify.
func (s *contactService) ProcessSubmission(ctx context.Context, req *SubmissionRequest) (*SubmissionResult, error) {
	ipHash := privacy.HashIP(req.ClientIP, s.salt)
	userAgent := privacy.SanitizeUserAgent(req.UserAgent)

	// The attempt is recorded before any checks so abuse patterns are
	// visible even when every request is rejected. Form contents are
	// never part of the event.
	s.audit(ctx, &models.AuditEvent{
		EventType: models.EventContactSubmissionAttempt,
		IPHash:    ipHash,
		UserAgent: userAgent,
		EventData: models.EncodeEventData(map[string]any{
			"has_csrf_token": req.Form.CSRFToken != "",
			"has_consent":    req.Form.Consent,
		}),
	})

	if !validation.ValidCSRFToken(req.Form.CSRFToken) || !privacy.TokensEqual(req.Form.CSRFToken, req.SessionToken) {
		s.audit(ctx, &models.AuditEvent{
			EventType: models.EventContactValidationError,
			IPHash:    ipHash,
			UserAgent: userAgent,
			EventData: models.EncodeEventData(map[string]any{"reason": "Invalid CSRF token"}),
		})
		return &SubmissionResult{Success: false, Message: MsgInvalidCSRF}, nil
	}

	if ok, retryAfter := s.limiter.Allow(ipHash); !ok {
		s.log.Warn(logging.Validation, logging.RateLimiting, "submission rate limit exceeded",
			map[logging.ExtraKey]any{logging.ClientIPHash: ipHash})
		s.audit(ctx, &models.AuditEvent{
			EventType: models.EventContactRateLimited,
			IPHash:    ipHash,
			UserAgent: userAgent,
			EventData: models.EncodeEventData(map[string]any{
				"retry_after_seconds": int(retryAfter.Seconds()),
			}),
		})
		return &SubmissionResult{
			Success:     false,
			Message:     MsgTooManyRequests,
			RateLimited: true,
			RetryAfter:  retryAfter,
		}, nil
	}

	form := req.Form
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	form.Message = validation.SanitizeMessage(form.Message)

	if errs := form.Validate(); errs.HasErrors() {
		fields := make([]string, 0, len(errs))
		for _, fieldErr := range errs {
			fields = append(fields, fieldErr.Field)
		}
		s.audit(ctx, &models.AuditEvent{
			EventType: models.EventContactValidationError,
			IPHash:    ipHash,
			UserAgent: userAgent,
			EventData: models.EncodeEventData(map[string]any{"fields": fields}),
		})
		return &SubmissionResult{Success: false, Message: MsgInvalidForm, FieldErrors: errs}, nil
	}

	now := timeNow().UTC()
	submission := &models.ContactSubmission{
		ID:              uuid.NewString(),
		Name:            form.Name,
		Email:           form.Email,
		Message:         form.Message,
		Timestamp:       now,
		ConsentGiven:    form.Consent,
		IPAddressHash:   ipHash,
		UserAgent:       userAgent,
		CreatedAt:       now,
		RetentionExpiry: models.RetentionExpiry(now, models.ContactRetentionDays),
	}

	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		s.audit(ctx, &models.AuditEvent{
			EventType: models.EventContactError,
			IPHash:    ipHash,
			EventData: models.EncodeEventData(map[string]any{"stage": "store"}),
		})
		return nil, fmt.Errorf("failed to store contact submission: %w", err)
	}

	// Exactly one success event per stored submission
	s.audit(ctx, &models.AuditEvent{
		EventType:    models.EventContactSubmissionSuccess,
		IPHash:       ipHash,
		UserAgent:    userAgent,
		SubmissionID: submission.ID,
		EventData: models.EncodeEventData(map[string]any{
			"retention_expiry": submission.RetentionExpiry.Format(time.RFC3339),
		}),
	})

	s.log.Info(logging.General, logging.Submission, "contact submission stored",
		map[logging.ExtraKey]any{logging.SubmissionID: submission.ID, logging.ClientIPHash: ipHash})

	// A failed notification never fails the submission; the data is
	// already stored and the failure is on the audit trail.
	if err := s.notifier.NotifySubmission(ctx, submission); err != nil {
		s.log.Error(logging.Notification, logging.Email, "failed to send submission notification",
			map[logging.ExtraKey]any{logging.SubmissionID: submission.ID, logging.ErrorMessage: err.Error()})
		s.audit(ctx, &models.AuditEvent{
			EventType:    models.EventEmailNotificationError,
			IPHash:       ipHash,
			SubmissionID: submission.ID,
		})
	} else {
		s.audit(ctx, &models.AuditEvent{
			EventType:    models.EventEmailNotificationSent,
			IPHash:       ipHash,
			SubmissionID: submission.ID,
			EventData: models.EncodeEventData(map[string]any{
				"recipient":     NotificationRecipient,
				"sender_domain": emailDomain(submission.Email),
			}),
		})
	}

	return &SubmissionResult{
		Success:      true,
		Message:      MsgSubmissionAccepted,
		SubmissionID: submission.ID,
	}, nil
}

// NewCSRFToken issues a fresh token for the caller's session
func (s *contactService) NewCSRFToken(ctx context.Context) (string, error) {
	token, err := privacy.NewCSRFToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate CSRF token: %w", err)
	}
	return token, nil
}

// GetSubmission retrieves a single submission by ID
func (s *contactService) GetSubmission(ctx context.Context, id string) (*models.ContactSubmission, error) {
	if id == "" {
		return nil, fmt.Errorf("submission ID is empty")
	}
	return s.submissionRepo.GetByID(ctx, id)
}

// GetSubmissions retrieves submissions newest first, with a capped page size
func (s *contactService) GetSubmissions(ctx context.Context, limit, offset int) ([]models.ContactSubmission, error) {
	limit, offset = clampPage(limit, offset)
	return s.submissionRepo.GetAll(ctx, limit, offset)
}

// CountSubmissions returns the total number of stored submissions
func (s *contactService) CountSubmissions(ctx context.Context) (int, error) {
	return s.submissionRepo.Count(ctx)
}

// audit records a compliance event. Audit writes are best-effort: a failed
// write is logged but never turns a handled submission into an error.
func (s *contactService) audit(ctx context.Context, event *models.AuditEvent) {
	if err := s.auditRepo.Create(ctx, event); err != nil {
		s.log.Error(logging.Database, logging.Audit, "failed to record audit event",
			map[logging.ExtraKey]any{logging.EventType: event.EventType, logging.ErrorMessage: err.Error()})
	}
}

// clampPage normalizes paging parameters
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// emailDomain returns the part after the @, for audit events that may not
// carry the address itself
func emailDomain(email string) string {
	if at := strings.LastIndex(email, "@"); at >= 0 {
		return email[at+1:]
	}
	return ""
}
