package services

import (
	"context"
	"fmt"
	"log"

	"dayplanner/internal/domain"
)

type notificationService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewNotificationService returns a NotificationService that uses the given Mailer and template renderer.
func NewNotificationService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.NotificationService {
	return &notificationService{mailer: mailer, renderer: renderer}
}

// SendReminderDue sends a due-reminder email using the "reminder_due" template and the given data.
func (s *notificationService) SendReminderDue(ctx context.Context, data *domain.ReminderEmailData) error {
	if data == nil {
		return fmt.Errorf("reminder email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("reminder_due", data)
	if err != nil {
		return fmt.Errorf("failed to render reminder_due template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	log.Printf("[EMAIL] Reminder email sent to %s", data.Email)
	return nil
}
