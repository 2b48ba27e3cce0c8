package services

import (
	"context"

	"github.com/corporate-inc/contact-api/models"
	"github.com/corporate-inc/contact-api/repositories"
)

// AuditService interface defines read access to the audit trail
type AuditService interface {
	GetRecentEvents(ctx context.Context, eventType string, limit, offset int) ([]models.AuditEvent, error)
	CountEventsByType(ctx context.Context, eventType string) (int, error)
}

// auditService implements AuditService interface
type auditService struct {
	auditRepo repositories.AuditRepository
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo repositories.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

// GetRecentEvents retrieves recent audit events, optionally filtered by
// event type
func (s *auditService) GetRecentEvents(ctx context.Context, eventType string, limit, offset int) ([]models.AuditEvent, error) {
	limit, offset = clampPage(limit, offset)
	if eventType == "" {
		return s.auditRepo.GetRecent(ctx, limit, offset)
	}
	return s.auditRepo.GetByType(ctx, eventType, limit, offset)
}

// CountEventsByType returns the number of recorded events of one type
func (s *auditService) CountEventsByType(ctx context.Context, eventType string) (int, error) {
	return s.auditRepo.CountByType(ctx, eventType)
}
