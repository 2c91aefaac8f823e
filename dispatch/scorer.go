package dispatch

import "timeboss-backend/models"

// WorkloadWeight converts one assigned job into kilometers of score. It is larger than any
// realistic intra-zone distance so the least loaded crew always wins and distance only breaks
// ties within a workload bucket.
const WorkloadWeight = 1000.0

// Workload counts the jobs, of any status, assigned to crewID.
func Workload(crewID int, jobs []*models.Job) int {
	n := 0
	for _, j := range jobs {
		if j != nil && j.AssignedTo(crewID) {
			n++
		}
	}
	return n
}

// TravelDistance is the distance between job and crew, or 0 when either has no position.
func TravelDistance(job *models.Job, crew *models.Crew) float64 {
	if job.Position == nil || crew.Position == nil {
		return 0
	}
	return Distance(*job.Position, *crew.Position)
}

// Score ranks crew for job; lower is better.
func Score(job *models.Job, crew *models.Crew, jobs []*models.Job) float64 {
	return float64(Workload(crew.ID, jobs))*WorkloadWeight + TravelDistance(job, crew)
}

// SelectCrew returns the candidate with the lowest score and that score.
// On equal scores the earliest candidate is kept. Returns nil for an empty candidate list.
func SelectCrew(job *models.Job, candidates []*models.Crew, jobs []*models.Job) (*models.Crew, float64) {
	var (
		best      *models.Crew
		bestScore float64
	)
	for _, crew := range candidates {
		score := Score(job, crew, jobs)
		if best == nil || score < bestScore {
			best = crew
			bestScore = score
		}
	}
	return best, bestScore
}
