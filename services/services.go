package services

import (
	"github.com/corporate-inc/contact-api/logging"
	"github.com/corporate-inc/contact-api/ratelimiter"
	"github.com/corporate-inc/contact-api/repositories"
)

// Services holds all service instances
type Services struct {
	Contact   ContactService
	Privacy   PrivacyService
	Retention RetentionService
	Audit     AuditService
}

// NewServices creates and initializes all service instances
func NewServices(repos *repositories.Repositories, limiter ratelimiter.Limiter, notifier Notifier, salt string, log logging.Logger) *Services {
	return &Services{
		Contact:   NewContactService(repos.Submissions, repos.Audit, limiter, notifier, salt, log),
		Privacy:   NewPrivacyService(repos.Submissions, repos.Audit, salt, log),
		Retention: NewRetentionService(repos.Submissions, repos.Audit, log),
		Audit:     NewAuditService(repos.Audit),
	}
}
