package service

import (
	"fmt"
	"strings"

	"lostfound/internal/models"

	"github.com/sirupsen/logrus"
)

// MailSender is the outbound mail transport. pkg/mailer satisfies it; tests
// substitute fakes.
type MailSender interface {
	Send(to, subject, htmlBody string) error
}

// NotificationService sends the best-effort confirmation email for a newly
// reported item. Callers dispatch it out of band and discard failures.
type NotificationService interface {
	Notify(item *models.Item) error
}

type notificationService struct {
	mail MailSender
	log  *logrus.Logger
}

func NewNotificationService(mail MailSender, log *logrus.Logger) NotificationService {
	return &notificationService{mail: mail, log: log}
}

// Notify emails a confirmation if contact_info looks like an email address.
// A contact string without an '@' is skipped silently, not an error.
func (s *notificationService) Notify(item *models.Item) error {
	if !strings.Contains(item.ContactInfo, "@") {
		s.log.WithField("item_id", item.ID).Debug("Contact info is not an email, skipping confirmation")
		return nil
	}

	subject := fmt.Sprintf("Confirmation: You reported a %s item - Inocreal", item.Type)
	body := confirmationBody(item)

	if err := s.mail.Send(item.ContactInfo, subject, body); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"item_id": item.ID,
		"to":      item.ContactInfo,
	}).Info("Confirmation email sent")
	return nil
}

func confirmationBody(item *models.Item) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; color: #333;">
			<h2 style="color: #38bdf8;">Inocreal Lost &amp; Found</h2>
			<p>Hello,</p>
			<p>You have successfully reported a <strong>%s</strong> item: <strong>%s</strong>.</p>
			<p><strong>Details:</strong></p>
			<ul>
				<li><strong>Location:</strong> %s</li>
				<li><strong>Date:</strong> %s</li>
				<li><strong>Time:</strong> %s</li>
			</ul>
			<p>We will notify you if we find a match!</p>
			<br>
			<p>Best regards,</p>
			<p>The Inocreal Team</p>
		</div>
	`, item.Type, item.ItemName, item.Location, item.DateFoundLost, item.TimeFoundLost)
}
