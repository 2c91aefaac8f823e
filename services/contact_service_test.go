package services

import (
	"context"
	"testing"

	"timeboss-backend/models"
	"timeboss-backend/utils/logger"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contactForm = &models.ContactRequest{Name: "Pat", Email: "pat@example.com", Message: "Do you do snow removal?"}

func TestContactServiceQueuesAdminEmail(t *testing.T) {
	queue := &recordingQueue{accept: true}
	base, _ := test.NewNullLogger()
	service := NewContactService(queue, "admin@timeboss.example", logger.New(base))

	require.NoError(t, service.Submit(context.Background(), contactForm))

	require.Len(t, queue.msgs, 1)
	msg := queue.msgs[0]
	assert.Equal(t, models.ChannelEmail, msg.Channel)
	assert.Equal(t, models.NotificationContact, msg.Kind)
	assert.Equal(t, "admin@timeboss.example", msg.To)
	assert.Equal(t, "New contact form submission from Pat", msg.Subject)
	assert.Equal(t, "Name: Pat\nEmail: pat@example.com\n\nMessage:\nDo you do snow removal?", msg.Body)
}

func TestContactServiceLogsWithoutAdmin(t *testing.T) {
	queue := &recordingQueue{accept: true}
	base, hook := test.NewNullLogger()
	service := NewContactService(queue, "", logger.New(base))

	require.NoError(t, service.Submit(context.Background(), contactForm))

	assert.Empty(t, queue.msgs)
	assert.Contains(t, hook.LastEntry().Message, "New contact form submission from Pat")
}

func TestContactServiceFullQueueStillAccepts(t *testing.T) {
	base, hook := test.NewNullLogger()
	service := NewContactService(&recordingQueue{}, "admin@timeboss.example", logger.New(base))

	assert.NoError(t, service.Submit(context.Background(), contactForm))
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
