package worker

import (
	"context"
	"fmt"

	"timeboss-backend/models"
	"timeboss-backend/utils/logger"
)

// Service wraps the digest worker for main and the admin endpoints
type Service struct {
	worker *DigestWorker
	logger logger.Logger
}

// NewService creates a new worker service
func NewService(cfg *models.Config, reports Reporter, queue Enqueuer, log logger.Logger) (*Service, error) {
	worker, err := NewDigestWorker(cfg, reports, queue, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create digest worker: %w", err)
	}

	return &Service{
		worker: worker,
		logger: log,
	}, nil
}

// StartInBackground starts the schedule; runs happen on cron goroutines
func (s *Service) StartInBackground() error {
	s.logger.Info("Starting digest worker service in background")
	return s.worker.Start()
}

// Stop stops the digest worker service
func (s *Service) Stop() {
	s.logger.Info("Stopping digest worker service")
	s.worker.Stop()
}

func (s *Service) LastRun() (*models.DigestRun, error) {
	return s.worker.LastRun()
}

// RunNow triggers a digest outside the schedule (admin function)
func (s *Service) RunNow(ctx context.Context, date string) (*models.DigestRun, error) {
	s.logger.Infof("Manual digest run requested for %q", date)
	return s.worker.RunNow(ctx, date)
}

// GetHealthStatus returns a health status for monitoring
func (s *Service) GetHealthStatus() map[string]interface{} {
	run, err := s.worker.LastRun()
	if err != nil {
		return map[string]interface{}{
			"status":         "error",
			"message":        fmt.Sprintf("Failed to get status: %v", err),
			"healthy":        false,
			"worker_running": s.worker.IsRunning(),
		}
	}

	if run == nil {
		return map[string]interface{}{
			"status":         "idle",
			"healthy":        s.worker.IsRunning(),
			"worker_running": s.worker.IsRunning(),
		}
	}

	status := "sent"
	switch {
	case run.Error != "":
		status = "failed"
	case run.Skipped:
		status = "skipped"
	}

	return map[string]interface{}{
		"status":         status,
		"healthy":        run.Error == "",
		"worker_running": s.worker.IsRunning(),
		"last_date":      run.Date,
		"start_time":     run.StartedAt,
		"duration":       run.Duration.String(),
		"error_message":  run.Error,
	}
}
