package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayplanner/internal/domain"
)

func TestSendReminderDue(t *testing.T) {
	t.Run("renders the template and sends", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := NewNotificationService(mailer, &fakeRenderer{})

		err := svc.SendReminderDue(context.Background(), &domain.ReminderEmailData{
			Email: "amy@example.com",
			Name:  "Amy",
			Title: "take meds",
		})
		require.NoError(t, err)
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "amy@example.com|subject:reminder_due", mailer.sent[0])
	})

	t.Run("nil data", func(t *testing.T) {
		svc := NewNotificationService(&fakeMailer{}, &fakeRenderer{})
		assert.Error(t, svc.SendReminderDue(context.Background(), nil))
	})

	t.Run("render failure", func(t *testing.T) {
		mailer := &fakeMailer{}
		svc := NewNotificationService(mailer, &fakeRenderer{err: assert.AnError})
		err := svc.SendReminderDue(context.Background(), &domain.ReminderEmailData{Email: "a@b.co"})
		assert.Error(t, err)
		assert.Empty(t, mailer.sent)
	})

	t.Run("send failure", func(t *testing.T) {
		svc := NewNotificationService(&fakeMailer{err: assert.AnError}, &fakeRenderer{})
		err := svc.SendReminderDue(context.Background(), &domain.ReminderEmailData{Email: "a@b.co"})
		assert.Error(t, err)
	})
}
