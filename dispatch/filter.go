package dispatch

import "timeboss-backend/models"

// ZoneCompatible is true when either side has no zone or both zones are equal.
func ZoneCompatible(job *models.Job, crew *models.Crew) bool {
	return job.Zone == "" || crew.Zone == "" || job.Zone == crew.Zone
}

// SkillsCompatible is true when the crew carries every skill the job requires.
func SkillsCompatible(job *models.Job, crew *models.Crew) bool {
	for _, skill := range job.RequiredSkills {
		if !crew.HasSkill(skill) {
			return false
		}
	}
	return true
}

// Eligible reports whether crew may be assigned job.
func Eligible(job *models.Job, crew *models.Crew) bool {
	return ZoneCompatible(job, crew) && SkillsCompatible(job, crew)
}

// FilterCandidates returns the crews eligible for job, keeping roster order.
// An empty result is a normal outcome.
func FilterCandidates(job *models.Job, crews []*models.Crew) []*models.Crew {
	candidates := make([]*models.Crew, 0, len(crews))
	for _, crew := range crews {
		if crew != nil && Eligible(job, crew) {
			candidates = append(candidates, crew)
		}
	}
	return candidates
}
