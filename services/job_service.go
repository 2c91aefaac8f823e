package services

import (
	"context"
	"sync"
	"time"

	"timeboss-backend/apperrors"
	"timeboss-backend/dispatch"
	"timeboss-backend/metrics"
	"timeboss-backend/models"
	"timeboss-backend/notifier"
	"timeboss-backend/repository"
	"timeboss-backend/utils/logger"
)

type JobService struct {
	store       repository.Store
	notifier    notifier.Notifier
	roster      *sync.Mutex
	ratePerHour float64
	logger      logger.Logger
	now         func() time.Time
}

// NewJobService creates a new job service. A non-positive rate falls back to the default.
func NewJobService(store repository.Store, n notifier.Notifier, roster *sync.Mutex, ratePerHour float64, logger logger.Logger) *JobService {
	if ratePerHour <= 0 {
		ratePerHour = dispatch.DefaultRatePerHour
	}
	return &JobService{
		store:       store,
		notifier:    n,
		roster:      roster,
		ratePerHour: ratePerHour,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateJob stores a new Scheduled job
func (s *JobService) CreateJob(ctx context.Context, req *models.CreateJobRequest) (*models.Job, error) {
	s.logger.Infof("Creating job: %s", req.Description)

	position, err := geoPoint(req.Lat, req.Lng)
	if err != nil {
		return nil, err
	}

	s.roster.Lock()
	defer s.roster.Unlock()

	crews, jobs, err := loadRoster(ctx, s.store)
	if err != nil {
		return nil, err
	}
	if req.CrewID != nil && findCrew(crews, *req.CrewID) == nil {
		return nil, apperrors.NewNotFound("crew", *req.CrewID)
	}
	if req.ClientID != nil {
		clients, err := s.store.LoadClients(ctx)
		if err != nil {
			return nil, apperrors.Wrap("load clients", err)
		}
		if findClient(clients, *req.ClientID) == nil {
			return nil, apperrors.NewNotFound("client", *req.ClientID)
		}
	}

	now := s.now()
	job := &models.Job{
		ID:             nextJobID(jobs),
		Description:    req.Description,
		Address:        req.Address,
		Date:           req.Date,
		RequiredSkills: append([]string{}, req.RequiredSkills...),
		Zone:           req.Zone,
		Position:       position,
		Status:         models.JobStatusScheduled,
		CrewID:         req.CrewID,
		ClientID:       req.ClientID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.Save(ctx, nil, []*models.Job{job}); err != nil {
		s.logger.Errorf("Failed to create job: %v", err)
		return nil, apperrors.Wrap("save job", err)
	}

	s.logger.Infof("Job created successfully: %d", job.ID)
	return job, nil
}

// GetJobs returns the jobs matching filter, ordered by id
func (s *JobService) GetJobs(ctx context.Context, filter *models.JobFilter) ([]*models.Job, error) {
	jobs, err := s.store.LoadJobs(ctx)
	if err != nil {
		return nil, apperrors.Wrap("load jobs", err)
	}

	result := make([]*models.Job, 0, len(jobs))
	for _, j := range jobs {
		if filter.Matches(j) {
			result = append(result, j)
		}
	}
	return result, nil
}

func (s *JobService) GetJob(ctx context.Context, jobID int) (*models.Job, error) {
	jobs, err := s.store.LoadJobs(ctx)
	if err != nil {
		return nil, apperrors.Wrap("load jobs", err)
	}
	job := findJob(jobs, jobID)
	if job == nil {
		return nil, apperrors.NewNotFound("job", jobID)
	}
	return job, nil
}

// CheckIn records the assigned crew arriving on site
func (s *JobService) CheckIn(ctx context.Context, jobID, crewID int, at *models.GeoPoint) (*models.Job, error) {
	s.logger.Infof("Crew %d checking in to job %d", crewID, jobID)
	return s.checkEvent(ctx, jobID, crewID, at, dispatch.CheckIn)
}

// CheckOut records the assigned crew finishing the job
func (s *JobService) CheckOut(ctx context.Context, jobID, crewID int, at *models.GeoPoint) (*models.Job, error) {
	s.logger.Infof("Crew %d checking out of job %d", crewID, jobID)
	return s.checkEvent(ctx, jobID, crewID, at, dispatch.CheckOut)
}

type transition func(job *models.Job, crew *models.Crew, at *models.GeoPoint, now time.Time) error

func (s *JobService) checkEvent(ctx context.Context, jobID, crewID int, at *models.GeoPoint, apply transition) (*models.Job, error) {
	s.roster.Lock()
	defer s.roster.Unlock()

	crews, jobs, err := loadRoster(ctx, s.store)
	if err != nil {
		return nil, err
	}
	job := findJob(jobs, jobID)
	if job == nil {
		return nil, apperrors.NewNotFound("job", jobID)
	}

	updated := job.Clone()
	crew := findCrew(crews, crewID).Clone()
	if err := apply(updated, crew, at, s.now()); err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, []*models.Crew{crew}, []*models.Job{updated}); err != nil {
		s.logger.Errorf("Failed to save job %d: %v", jobID, err)
		return nil, apperrors.Wrap("save check event", err)
	}

	metrics.StatusTransitions.WithLabelValues(string(updated.Status)).Inc()
	return updated, nil
}

// SetStatus overrides the status of a job and notifies its crew and client
func (s *JobService) SetStatus(ctx context.Context, jobID int, status string) (*models.Job, error) {
	parsed, err := dispatch.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Setting job %d status to %s", jobID, parsed)

	updated, crew, err := s.setStatus(ctx, jobID, parsed)
	if err != nil {
		return nil, err
	}

	metrics.StatusTransitions.WithLabelValues(string(parsed)).Inc()
	client := lookupClient(ctx, s.store, updated.ClientID, s.logger)
	s.notifier.NotifyStatusChange(updated.Clone(), crew, client)
	return updated, nil
}

func (s *JobService) setStatus(ctx context.Context, jobID int, status models.JobStatus) (*models.Job, *models.Crew, error) {
	s.roster.Lock()
	defer s.roster.Unlock()

	crews, jobs, err := loadRoster(ctx, s.store)
	if err != nil {
		return nil, nil, err
	}
	job := findJob(jobs, jobID)
	if job == nil {
		return nil, nil, apperrors.NewNotFound("job", jobID)
	}

	updated := job.Clone()
	dispatch.SetStatus(updated, status, s.now())
	if err := s.store.Save(ctx, nil, []*models.Job{updated}); err != nil {
		s.logger.Errorf("Failed to save status for job %d: %v", jobID, err)
		return nil, nil, apperrors.Wrap("save status", err)
	}
	return updated, crewOf(updated, crews).Clone(), nil
}

// GetInvoice prices a finished job. Crew users may only invoice their own jobs.
func (s *JobService) GetInvoice(ctx context.Context, jobID int, claims *models.JWTClaims) (*models.Invoice, error) {
	crews, jobs, err := loadRoster(ctx, s.store)
	if err != nil {
		return nil, err
	}
	job := findJob(jobs, jobID)
	if job == nil {
		return nil, apperrors.NewNotFound("job", jobID)
	}

	if claims != nil && claims.Role == models.UserRoleCrew {
		if claims.CrewID == nil || !job.AssignedTo(*claims.CrewID) {
			return nil, apperrors.NewForbidden("You are not assigned to this job")
		}
	}

	var client *models.Client
	if job.ClientID != nil {
		clients, err := s.store.LoadClients(ctx)
		if err != nil {
			return nil, apperrors.Wrap("load clients", err)
		}
		client = findClient(clients, *job.ClientID)
	}

	return dispatch.BuildInvoice(job, crewOf(job, crews), client, s.ratePerHour)
}
