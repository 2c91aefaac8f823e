package dispatch

import "timeboss-backend/models"

func at(lat, lng float64) *models.GeoPoint {
	return &models.GeoPoint{Lat: lat, Lng: lng}
}

func intPtr(v int) *int {
	return &v
}

func crew(id int, zone string, pos *models.GeoPoint, skills ...string) *models.Crew {
	return &models.Crew{ID: id, Name: "Crew " + string(rune('A'+id-1)), Zone: zone, Position: pos, Skills: skills}
}

func job(id int, zone string, pos *models.GeoPoint, skills ...string) *models.Job {
	return &models.Job{ID: id, Zone: zone, Position: pos, RequiredSkills: skills, Status: models.JobStatusScheduled}
}

func assigned(j *models.Job, crewID int) *models.Job {
	j.CrewID = intPtr(crewID)
	return j
}
