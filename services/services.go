package services

import (
	"sync"

	"timeboss-backend/models"
	"timeboss-backend/notifier"
	"timeboss-backend/planner"
	"timeboss-backend/repository"
	"timeboss-backend/utils/logger"
)

// Service implements ServiceContainerInterface
type Service struct {
	assignmentService AssignmentServiceInterface
	jobService        JobServiceInterface
	crewService       CrewServiceInterface
	clientService     ClientServiceInterface
	reportService     ReportServiceInterface
	userService       UserServiceInterface
	contactService    ContactServiceInterface
}

// NewService creates a new service container with all dependencies injected. Services that
// write crews or jobs share one roster lock. p and queue may be nil.
func NewService(
	store repository.Store,
	n notifier.Notifier,
	p planner.Planner,
	queue Enqueuer,
	config *models.Config,
	logger logger.Logger,
) ServiceContainerInterface {
	if n == nil {
		n = notifier.Nop{}
	}
	roster := &sync.Mutex{}

	return &Service{
		assignmentService: NewAssignmentService(store, n, p, roster, logger),
		jobService:        NewJobService(store, n, roster, config.BillingRatePerHour, logger),
		crewService:       NewCrewService(store, roster, logger),
		clientService:     NewClientService(store, logger),
		reportService:     NewReportService(store, logger),
		userService:       NewUserService(store, store, queue, logger),
		contactService:    NewContactService(queue, config.AdminEmail, logger),
	}
}

// GetAssignmentService returns the assignment service interface
func (s *Service) GetAssignmentService() AssignmentServiceInterface {
	return s.assignmentService
}

// GetJobService returns the job service interface
func (s *Service) GetJobService() JobServiceInterface {
	return s.jobService
}

// GetCrewService returns the crew service interface
func (s *Service) GetCrewService() CrewServiceInterface {
	return s.crewService
}

// GetClientService returns the client service interface
func (s *Service) GetClientService() ClientServiceInterface {
	return s.clientService
}

// GetReportService returns the report service interface
func (s *Service) GetReportService() ReportServiceInterface {
	return s.reportService
}

// GetUserService returns the user service interface
func (s *Service) GetUserService() UserServiceInterface {
	return s.userService
}

// GetContactService returns the contact service interface
func (s *Service) GetContactService() ContactServiceInterface {
	return s.contactService
}
