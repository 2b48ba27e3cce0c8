package services

import (
	"context"

	"github.com/corporate-inc/contact-api/logging"
	"github.com/corporate-inc/contact-api/models"
)

// NotificationRecipient receives internal notifications about new
// submissions.
const NotificationRecipient = "communications@corporate-inc.com"

// Notifier delivers new-submission notifications to the communications
// team. Implementations must not mutate the submission.
type Notifier interface {
	NotifySubmission(ctx context.Context, submission *models.ContactSubmission) error
}

// logNotifier renders notifications to the structured log. It stands in for
// a real mail delivery channel behind the same interface.
type logNotifier struct {
	recipient string
	log       logging.Logger
}

// NewLogNotifier creates a notifier that writes to the application log
func NewLogNotifier(log logging.Logger) Notifier {
	return &logNotifier{
		recipient: NotificationRecipient,
		log:       log,
	}
}

// NotifySubmission logs the notification that would be mailed to the
// communications team
func (n *logNotifier) NotifySubmission(ctx context.Context, submission *models.ContactSubmission) error {
	n.log.Info(logging.Notification, logging.Email, "new contact form submission",
		map[logging.ExtraKey]any{
			logging.SubmissionID: submission.ID,
			logging.Recipient:    n.recipient,
			logging.Subject:      "New Contact Form Submission - " + submission.ID,
		})
	return nil
}
