package dispatch

import "timeboss-backend/models"

// Unassigned returns the jobs with no crew, in roster order.
func Unassigned(jobs []*models.Job) []*models.Job {
	out := make([]*models.Job, 0, len(jobs))
	for _, j := range jobs {
		if j != nil && !j.IsAssigned() {
			out = append(out, j)
		}
	}
	return out
}

// Suggest proposes a crew for every unassigned job without changing anything.
// Each job is scored against the same unmodified roster, so two suggestions may name the
// same crew. Jobs with no eligible crew are left out.
func Suggest(jobs []*models.Job, crews []*models.Crew) []models.Suggestion {
	suggestions := make([]models.Suggestion, 0)
	for _, job := range Unassigned(jobs) {
		candidates := FilterCandidates(job, crews)
		if len(candidates) == 0 {
			continue
		}
		crew, _ := SelectCrew(job, candidates, jobs)
		suggestions = append(suggestions, models.Suggestion{JobID: job.ID, CrewID: crew.ID})
	}
	return suggestions
}
