package repository

import (
	"context"
	"sync"

	"timeboss-backend/models"
)

// MemoryStore keeps every record in process. Records are copied on the way in
// and out so callers never share state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	crews   map[int]*models.Crew
	jobs    map[int]*models.Job
	clients map[int]*models.Client
	users   map[int]*models.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		crews:   map[int]*models.Crew{},
		jobs:    map[int]*models.Job{},
		clients: map[int]*models.Client{},
		users:   map[int]*models.User{},
	}
}

func (m *MemoryStore) LoadCrews(ctx context.Context) ([]*models.Crew, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Crew, 0, len(m.crews))
	for _, c := range m.crews {
		out = append(out, c.Clone())
	}
	sortCrews(out)
	return out, nil
}

func (m *MemoryStore) LoadJobs(ctx context.Context) ([]*models.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j.Clone())
	}
	sortJobs(out)
	return out, nil
}

func (m *MemoryStore) Save(ctx context.Context, crews []*models.Crew, jobs []*models.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range crews {
		m.crews[c.ID] = c.Clone()
	}
	for _, j := range jobs {
		m.jobs[j.ID] = j.Clone()
	}
	return nil
}

func (m *MemoryStore) LoadClients(ctx context.Context) ([]*models.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c.Clone())
	}
	sortClients(out)
	return out, nil
}

func (m *MemoryStore) SaveClient(ctx context.Context, client *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.ID] = client.Clone()
	return nil
}

func (m *MemoryStore) LoadUsers(ctx context.Context) ([]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u.Clone())
	}
	sortUsers(out)
	return out, nil
}

func (m *MemoryStore) SaveUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user.Clone()
	return nil
}

func (m *MemoryStore) Close() error { return nil }
