package repository

import (
	"context"

	"timeboss-backend/models"
)

// RosterStore persists crews and jobs. Save is the single write path used by
// assignment and the job lifecycle; it upserts exactly the records given, as one unit.
type RosterStore interface {
	LoadCrews(ctx context.Context) ([]*models.Crew, error)
	LoadJobs(ctx context.Context) ([]*models.Job, error)
	Save(ctx context.Context, crews []*models.Crew, jobs []*models.Job) error
}

// ClientStore persists customer records
type ClientStore interface {
	LoadClients(ctx context.Context) ([]*models.Client, error)
	SaveClient(ctx context.Context, client *models.Client) error
}

// UserStore persists login accounts
type UserStore interface {
	LoadUsers(ctx context.Context) ([]*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
}

// Store is the full persistence contract behind the services
type Store interface {
	RosterStore
	ClientStore
	UserStore
	Close() error
}
