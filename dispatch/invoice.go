package dispatch

import (
	"math"

	"timeboss-backend/apperrors"
	"timeboss-backend/models"
)

// DefaultRatePerHour is the flat billing rate used when none is configured.
const DefaultRatePerHour = 100.0

const msPerHour = 1000 * 60 * 60

// BuildInvoice prices the on-site time of a finished job. crew and client are optional.
func BuildInvoice(job *models.Job, crew *models.Crew, client *models.Client, ratePerHour float64) (*models.Invoice, error) {
	if job.StartTime == nil || job.EndTime == nil {
		return nil, &apperrors.InvalidStateError{
			Current: string(job.Status),
			Message: "Job has not been completed yet",
		}
	}
	if job.EndTime.Before(*job.StartTime) {
		return nil, &apperrors.InvalidStateError{
			Current: string(job.Status),
			Message: "Job has not been checked out since its last check-in",
		}
	}
	durationMs := job.EndTime.Sub(*job.StartTime).Milliseconds()
	hours := round2(float64(durationMs) / msPerHour)

	invoice := &models.Invoice{
		JobID:       job.ID,
		Description: job.Description,
		Date:        job.Date,
		StartTime:   *job.StartTime,
		EndTime:     *job.EndTime,
		Hours:       hours,
		RatePerHour: ratePerHour,
		Total:       round2(hours * ratePerHour),
	}
	if crew != nil {
		invoice.Crew = &models.PartyRef{ID: crew.ID, Name: crew.Name}
	}
	if client != nil {
		invoice.Client = &models.PartyRef{ID: client.ID, Name: client.Name}
	}
	return invoice, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
