package dispatch

import (
	"time"

	"timeboss-backend/apperrors"
	"timeboss-backend/models"
)

// ParseStatus validates a status value coming from an override request.
func ParseStatus(value string) (models.JobStatus, error) {
	for _, s := range models.JobStatuses {
		if string(s) == value {
			return s, nil
		}
	}
	return "", &apperrors.InvalidStatusError{Value: value}
}

// CanReassign reports whether a job may be given to a (new) crew.
// Work that has started or finished stays with its crew.
func CanReassign(job *models.Job) error {
	switch job.Status {
	case models.JobStatusOnSite, models.JobStatusComplete:
		return &apperrors.InvalidStateError{
			Current: string(job.Status),
			Message: "job is " + string(job.Status) + " and can no longer be reassigned",
		}
	}
	return nil
}

// CheckIn moves job to On-Site for crew. job and crew are modified in place, so callers pass
// copies and commit them only once persisted. at may be nil, in which case the crew's last
// known position is recorded.
func CheckIn(job *models.Job, crew *models.Crew, at *models.GeoPoint, now time.Time) error {
	if err := authorizeCrew(job, crew); err != nil {
		return err
	}
	if job.Status != models.JobStatusScheduled {
		return &apperrors.InvalidStateError{
			Current:  string(job.Status),
			Expected: string(models.JobStatusScheduled),
			Message:  "Job is not in Scheduled status",
		}
	}
	start := now
	job.Status = models.JobStatusOnSite
	job.StartTime = &start
	// a reopened job starts a fresh visit
	job.EndTime = nil
	job.CheckOutPosition = nil
	job.CheckInPosition = recordPosition(crew, at, now)
	job.UpdatedAt = now
	return nil
}

// CheckOut moves job from On-Site to Complete for crew. Same copy rules as CheckIn.
func CheckOut(job *models.Job, crew *models.Crew, at *models.GeoPoint, now time.Time) error {
	if err := authorizeCrew(job, crew); err != nil {
		return err
	}
	if job.Status != models.JobStatusOnSite {
		return &apperrors.InvalidStateError{
			Current:  string(job.Status),
			Expected: string(models.JobStatusOnSite),
			Message:  "Job is not in On-Site status",
		}
	}
	end := now
	job.Status = models.JobStatusComplete
	job.EndTime = &end
	job.CheckOutPosition = recordPosition(crew, at, now)
	job.UpdatedAt = now
	return nil
}

// SetStatus applies an administrative override. Any state may move to any known status.
func SetStatus(job *models.Job, status models.JobStatus, now time.Time) {
	job.Status = status
	job.UpdatedAt = now
}

func authorizeCrew(job *models.Job, crew *models.Crew) error {
	if crew == nil || !job.AssignedTo(crew.ID) {
		return apperrors.NewForbidden("You are not assigned to this job")
	}
	return nil
}

// recordPosition picks the position stored on a check event and moves the crew when explicit
// coordinates were given.
func recordPosition(crew *models.Crew, at *models.GeoPoint, now time.Time) *models.GeoPoint {
	if at == nil {
		return crew.Position.Clone()
	}
	crew.Position = at.Clone()
	crew.UpdatedAt = now
	return at.Clone()
}
