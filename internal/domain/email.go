package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named email template into subject, html,
// and text bodies.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// ReminderEmailData holds data for a due-reminder notification email.
type ReminderEmailData struct {
	Email       string
	Name        string
	Title       string
	Description string
	TimeOfDay   string
}

// NotificationService defines the contract for sending domain-level
// notifications.
type NotificationService interface {
	SendReminderDue(ctx context.Context, data *ReminderEmailData) error
}
