package services

import (
	"context"
	"sync"
	"time"

	"timeboss-backend/apperrors"
	"timeboss-backend/models"
	"timeboss-backend/repository"
	"timeboss-backend/utils/logger"
)

type CrewService struct {
	store  repository.RosterStore
	roster *sync.Mutex
	logger logger.Logger
	now    func() time.Time
}

// NewCrewService creates a new crew service
func NewCrewService(store repository.RosterStore, roster *sync.Mutex, logger logger.Logger) *CrewService {
	return &CrewService{
		store:  store,
		roster: roster,
		logger: logger,
		now:    time.Now,
	}
}

func (s *CrewService) ListCrews(ctx context.Context) ([]*models.Crew, error) {
	crews, err := s.store.LoadCrews(ctx)
	if err != nil {
		return nil, apperrors.Wrap("load crews", err)
	}
	return crews, nil
}

func (s *CrewService) GetCrew(ctx context.Context, crewID int) (*models.Crew, error) {
	crews, err := s.ListCrews(ctx)
	if err != nil {
		return nil, err
	}
	crew := findCrew(crews, crewID)
	if crew == nil {
		return nil, apperrors.NewNotFound("crew", crewID)
	}
	return crew, nil
}

// CreateCrew adds a crew with the next free id
func (s *CrewService) CreateCrew(ctx context.Context, req *models.CreateCrewRequest) (*models.Crew, error) {
	s.logger.Infof("Creating crew: %s", req.Name)

	position, err := geoPoint(req.Lat, req.Lng)
	if err != nil {
		return nil, err
	}

	s.roster.Lock()
	defer s.roster.Unlock()

	crews, err := s.ListCrews(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	crew := &models.Crew{
		ID:        nextCrewID(crews),
		Name:      req.Name,
		Skills:    append([]string{}, req.Skills...),
		Zone:      req.Zone,
		Position:  position,
		Phone:     req.Phone,
		Email:     req.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Save(ctx, []*models.Crew{crew}, nil); err != nil {
		s.logger.Errorf("Failed to create crew: %v", err)
		return nil, apperrors.Wrap("save crew", err)
	}

	s.logger.Infof("Crew created successfully: %d", crew.ID)
	return crew, nil
}
