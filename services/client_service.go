package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"timeboss-backend/apperrors"
	"timeboss-backend/models"
	"timeboss-backend/repository"
	"timeboss-backend/utils/logger"
)

type ClientService struct {
	store  repository.ClientStore
	mu     sync.Mutex
	logger logger.Logger
	now    func() time.Time
}

// NewClientService creates a new client service
func NewClientService(store repository.ClientStore, logger logger.Logger) *ClientService {
	return &ClientService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

func (s *ClientService) ListClients(ctx context.Context) ([]*models.Client, error) {
	clients, err := s.store.LoadClients(ctx)
	if err != nil {
		return nil, apperrors.Wrap("load clients", err)
	}
	return clients, nil
}

func (s *ClientService) CreateClient(ctx context.Context, req *models.CreateClientRequest) (*models.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidation("name", "Client name is required")
	}
	s.logger.Infof("Creating client: %s", name)

	s.mu.Lock()
	defer s.mu.Unlock()

	clients, err := s.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	next := 1
	for _, c := range clients {
		if c.ID >= next {
			next = c.ID + 1
		}
	}

	client := &models.Client{
		ID:        next,
		Name:      name,
		Phone:     req.Phone,
		Email:     req.Email,
		CreatedAt: s.now(),
	}
	if err := s.store.SaveClient(ctx, client); err != nil {
		s.logger.Errorf("Failed to create client: %v", err)
		return nil, apperrors.Wrap("save client", err)
	}
	return client, nil
}
