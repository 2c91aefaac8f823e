package services

import (
	"context"
	"time"

	"timeboss-backend/apperrors"
	"timeboss-backend/dispatch"
	"timeboss-backend/models"
	"timeboss-backend/repository"
	"timeboss-backend/utils"
	"timeboss-backend/utils/logger"
)

type ReportService struct {
	store  repository.RosterStore
	logger logger.Logger
	now    func() time.Time
}

func NewReportService(store repository.RosterStore, logger logger.Logger) *ReportService {
	return &ReportService{store: store, logger: logger, now: time.Now}
}

// DailySummary reports the jobs dated on date, today when empty
func (s *ReportService) DailySummary(ctx context.Context, date string) (*models.DailySummary, error) {
	if date == "" {
		date = utils.Today(s.now())
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, apperrors.NewValidation("date", "date must be YYYY-MM-DD")
	}

	crews, jobs, err := loadRoster(ctx, s.store)
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("Summarizing %d jobs for %s", len(jobs), date)
	return dispatch.Summarize(date, jobs, crews), nil
}
