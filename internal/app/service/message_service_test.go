package service

import (
	"testing"

	"github.com/homeheartcreation/shop-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageService(d *testDeps) MessageService {
	return NewMessageService(d.messageRepo, d.notificationRepo, d.db)
}

func TestMessageService_SubmitCreatesNotification(t *testing.T) {
	d := setupServiceTest(t)
	svc := newMessageService(d)

	message, err := svc.SubmitMessage(SubmitMessageInput{
		Name:    "Sachini",
		Email:   "sachini@example.com",
		Subject: "Custom candle",
		Message: "Could you make a lavender one?",
	})
	require.NoError(t, err)
	assert.Equal(t, model.MessageStatusUnread, message.Status)

	var notifications []model.Notification
	require.NoError(t, d.db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationTypeMessage, notifications[0].Type)
	assert.Equal(t, "New message from Sachini: Custom candle", notifications[0].Message)
}

func TestMessageService_SubmitValidation(t *testing.T) {
	d := setupServiceTest(t)
	svc := newMessageService(d)

	_, err := svc.SubmitMessage(SubmitMessageInput{Name: "A", Email: "a@example.com", Subject: "", Message: "m"})
	assert.True(t, IsValidation(err))
	assert.Zero(t, d.countNotifications(t, model.NotificationTypeMessage))

	// Fields are checked in form order, so the first blank one is reported.
	for i := 0; i < 20; i++ {
		_, err = svc.SubmitMessage(SubmitMessageInput{Subject: " "})
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "name", ve.Field)
	}

	_, err = svc.SubmitMessage(SubmitMessageInput{Name: "A", Email: "a@example.com", Subject: "s"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "message", ve.Field)
}

func TestMessageService_StatusLifecycle(t *testing.T) {
	d := setupServiceTest(t)
	svc := newMessageService(d)

	message, err := svc.SubmitMessage(SubmitMessageInput{Name: "A", Email: "a@example.com", Subject: "s", Message: "m"})
	require.NoError(t, err)

	replied, err := svc.UpdateStatus(message.ID, "replied")
	require.NoError(t, err)
	assert.Equal(t, model.MessageStatusReplied, replied.Status)

	_, err = svc.UpdateStatus(message.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidMessageStatus)

	unread, err := svc.ListMessages("unread")
	require.NoError(t, err)
	assert.Empty(t, unread)

	_, err = svc.ListMessages("bogus")
	assert.ErrorIs(t, err, ErrInvalidMessageStatus)

	require.NoError(t, svc.DeleteMessage(message.ID))
	assert.ErrorIs(t, svc.DeleteMessage(message.ID), ErrMessageNotFound)
	_, err = svc.GetMessage(message.ID)
	assert.ErrorIs(t, err, ErrMessageNotFound)
	_, err = svc.UpdateStatus(message.ID, "read")
	assert.ErrorIs(t, err, ErrMessageNotFound)
}
