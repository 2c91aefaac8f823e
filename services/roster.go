package services

import (
	"context"

	"timeboss-backend/apperrors"
	"timeboss-backend/models"
	"timeboss-backend/repository"
	"timeboss-backend/utils/logger"
)

func loadRoster(ctx context.Context, store repository.RosterStore) ([]*models.Crew, []*models.Job, error) {
	crews, err := store.LoadCrews(ctx)
	if err != nil {
		return nil, nil, apperrors.Wrap("load crews", err)
	}
	jobs, err := store.LoadJobs(ctx)
	if err != nil {
		return nil, nil, apperrors.Wrap("load jobs", err)
	}
	return crews, jobs, nil
}

func findJob(jobs []*models.Job, id int) *models.Job {
	for _, j := range jobs {
		if j.ID == id {
			return j
		}
	}
	return nil
}

func findCrew(crews []*models.Crew, id int) *models.Crew {
	for _, c := range crews {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func findClient(clients []*models.Client, id int) *models.Client {
	for _, c := range clients {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// crewOf returns the job's crew, or nil when unassigned or unknown
func crewOf(job *models.Job, crews []*models.Crew) *models.Crew {
	if job.CrewID == nil {
		return nil
	}
	return findCrew(crews, *job.CrewID)
}

func nextJobID(jobs []*models.Job) int {
	max := 0
	for _, j := range jobs {
		if j.ID > max {
			max = j.ID
		}
	}
	return max + 1
}

func nextCrewID(crews []*models.Crew) int {
	max := 0
	for _, c := range crews {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

// geoPoint builds a position from optional coordinates. Both or neither must be set.
func geoPoint(lat, lng *float64) (*models.GeoPoint, error) {
	if lat == nil && lng == nil {
		return nil, nil
	}
	if lat == nil || lng == nil {
		return nil, apperrors.NewValidation("lat", "lat and lng must be provided together")
	}
	return &models.GeoPoint{Lat: *lat, Lng: *lng}, nil
}

// lookupClient resolves a job's client for notifications. Lookup failures only cost
// the client message, so they are logged and reported as no client.
func lookupClient(ctx context.Context, store repository.ClientStore, id *int, log logger.Logger) *models.Client {
	if id == nil {
		return nil
	}
	clients, err := store.LoadClients(ctx)
	if err != nil {
		log.Warnf("Failed to load client %d for notification: %v", *id, err)
		return nil
	}
	return findClient(clients, *id).Clone()
}
