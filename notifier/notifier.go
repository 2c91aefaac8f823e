// Package notifier fans job events out to crews and clients over SMS and e-mail.
package notifier

import (
	"context"
	"errors"

	"timeboss-backend/models"
)

// Notifier receives job events after they have been persisted. Implementations must
// not block the caller on delivery and never report delivery failures back.
type Notifier interface {
	NotifyAssignment(job *models.Job, crew *models.Crew, client *models.Client)
	NotifyStatusChange(job *models.Job, crew *models.Crew, client *models.Client)
}

// Sender delivers one message to an external channel
type Sender interface {
	Send(ctx context.Context, msg models.Message) error
}

// Multi fans every event out to each notifier in order
type Multi []Notifier

func (m Multi) NotifyAssignment(job *models.Job, crew *models.Crew, client *models.Client) {
	for _, n := range m {
		n.NotifyAssignment(job, crew, client)
	}
}

func (m Multi) NotifyStatusChange(job *models.Job, crew *models.Crew, client *models.Client) {
	for _, n := range m {
		n.NotifyStatusChange(job, crew, client)
	}
}

// Nop discards every event
type Nop struct{}

func (Nop) NotifyAssignment(*models.Job, *models.Crew, *models.Client)   {}
func (Nop) NotifyStatusChange(*models.Job, *models.Crew, *models.Client) {}

// MultiSender delivers a message through every sender and joins their errors
type MultiSender []Sender

func (m MultiSender) Send(ctx context.Context, msg models.Message) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
