package services

import (
	"context"
	"fmt"
	"time"

	"timeboss-backend/models"
	"timeboss-backend/notifier"
	"timeboss-backend/utils/logger"
)

// Enqueuer accepts an outbound message without blocking
type Enqueuer interface {
	Enqueue(msg models.Message) bool
}

type ContactService struct {
	queue      Enqueuer
	adminEmail string
	logger     logger.Logger
	now        func() time.Time
}

// NewContactService creates the contact form handler. Without an admin address or queue,
// submissions are only logged.
func NewContactService(queue Enqueuer, adminEmail string, logger logger.Logger) *ContactService {
	return &ContactService{
		queue:      queue,
		adminEmail: adminEmail,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *ContactService) Submit(ctx context.Context, req *models.ContactRequest) error {
	subject := fmt.Sprintf("New contact form submission from %s", req.Name)
	body := fmt.Sprintf("Name: %s\nEmail: %s\n\nMessage:\n%s", req.Name, req.Email, req.Message)

	if s.adminEmail == "" || s.queue == nil {
		s.logger.Infof("Contact form submission: %s\n%s", subject, body)
		return nil
	}

	msg := notifier.EmailMessage(models.NotificationContact, s.adminEmail, subject, body, s.now())
	if !s.queue.Enqueue(msg) {
		s.logger.Warnf("Contact form submission from %s not queued", req.Email)
	}
	return nil
}
