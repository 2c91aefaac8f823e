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
	"timeboss-backend/planner"
	"timeboss-backend/repository"
	"timeboss-backend/utils/logger"
)

type AssignmentService struct {
	store    repository.Store
	notifier notifier.Notifier
	planner  planner.Planner
	roster   *sync.Mutex
	logger   logger.Logger
	now      func() time.Time
}

// NewAssignmentService creates the assignment orchestrator. roster must be the mutex shared
// with the job service; p may be nil when no external planner is configured.
func NewAssignmentService(store repository.Store, n notifier.Notifier, p planner.Planner, roster *sync.Mutex, logger logger.Logger) *AssignmentService {
	return &AssignmentService{
		store:    store,
		notifier: n,
		planner:  p,
		roster:   roster,
		logger:   logger,
		now:      time.Now,
	}
}

// AssignJob gives a job to the best eligible crew and notifies the crew and client
func (s *AssignmentService) AssignJob(ctx context.Context, jobID int) (*models.AssignmentResult, error) {
	s.logger.Infof("Assigning job: %d", jobID)

	job, crew, err := s.assign(ctx, jobID)
	if err != nil {
		metrics.Assignments.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	client := lookupClient(ctx, s.store, job.ClientID, s.logger)
	s.notifier.NotifyAssignment(job.Clone(), crew.Clone(), client)

	s.logger.Infof("Job %d assigned to crew %d", job.ID, crew.ID)
	return &models.AssignmentResult{Job: job, AssignedTo: crew}, nil
}

// assign runs filter, score and write under the roster lock
func (s *AssignmentService) assign(ctx context.Context, jobID int) (*models.Job, *models.Crew, error) {
	s.roster.Lock()
	defer s.roster.Unlock()

	crews, jobs, err := loadRoster(ctx, s.store)
	if err != nil {
		s.logger.Errorf("Failed to load roster: %v", err)
		return nil, nil, err
	}

	job := findJob(jobs, jobID)
	if job == nil {
		return nil, nil, apperrors.NewNotFound("job", jobID)
	}
	if err := dispatch.CanReassign(job); err != nil {
		return nil, nil, err
	}

	candidates := dispatch.FilterCandidates(job, crews)
	if len(candidates) == 0 {
		return nil, nil, &apperrors.NoEligibleCrewError{JobID: jobID}
	}
	crew, score := dispatch.SelectCrew(job, candidates, jobs)
	s.logger.Debugf("Job %d: %d candidates, crew %d scored %.3f", jobID, len(candidates), crew.ID, score)

	reassigned := job.IsAssigned()
	if reassigned {
		s.logger.Warnf("Reassigning job %d from crew %d to crew %d", jobID, *job.CrewID, crew.ID)
	}

	updated := job.Clone()
	crewID := crew.ID
	updated.CrewID = &crewID
	updated.UpdatedAt = s.now()

	if err := s.store.Save(ctx, nil, []*models.Job{updated}); err != nil {
		s.logger.Errorf("Failed to save assignment for job %d: %v", jobID, err)
		return nil, nil, apperrors.Wrap("save assignment", err)
	}

	if reassigned {
		metrics.Assignments.WithLabelValues("reassigned").Inc()
	} else {
		metrics.Assignments.WithLabelValues("assigned").Inc()
	}
	return updated, crew, nil
}

// SuggestAssignments proposes crews for every unassigned job without changing anything
func (s *AssignmentService) SuggestAssignments(ctx context.Context) ([]models.Suggestion, error) {
	crews, jobs, err := loadRoster(ctx, s.store)
	if err != nil {
		return nil, err
	}
	return dispatch.Suggest(jobs, crews), nil
}

// Optimize asks the external planner for suggestions and falls back to the heuristic
// when the planner is missing, fails or answers with something unusable.
func (s *AssignmentService) Optimize(ctx context.Context) (*models.SuggestionResult, error) {
	crews, jobs, err := loadRoster(ctx, s.store)
	if err != nil {
		return nil, err
	}

	unassigned := dispatch.Unassigned(jobs)
	if len(unassigned) == 0 {
		return &models.SuggestionResult{
			Suggestions: []models.Suggestion{},
			Source:      models.SuggestionSourceHeuristic,
			Message:     "No unassigned jobs",
		}, nil
	}

	if s.planner != nil {
		suggestions, raw, err := s.planner.Plan(ctx, unassigned, crews)
		if err == nil {
			return &models.SuggestionResult{
				Suggestions: suggestions,
				Source:      models.SuggestionSourcePlanner,
				Raw:         raw,
			}, nil
		}
		s.logger.Warnf("Planner failed, using heuristic: %v", err)
	}

	return &models.SuggestionResult{
		Suggestions: dispatch.Suggest(jobs, crews),
		Source:      models.SuggestionSourceHeuristic,
	}, nil
}

func outcome(err error) string {
	switch {
	case apperrors.IsNoEligibleCrew(err):
		return "no_eligible_crew"
	case apperrors.IsNotFound(err):
		return "not_found"
	case apperrors.IsInvalidState(err):
		return "invalid_state"
	default:
		return "error"
	}
}
