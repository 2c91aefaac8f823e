package dispatch

import (
	"fmt"
	"sort"

	"timeboss-backend/models"
)

// Summarize reports the jobs dated on date: totals, counts per status and per crew.
// Jobs without a status count as Scheduled; unknown crews are labelled "Crew <id>".
func Summarize(date string, jobs []*models.Job, crews []*models.Crew) *models.DailySummary {
	names := make(map[int]string, len(crews))
	for _, c := range crews {
		names[c.ID] = c.Name
	}

	summary := &models.DailySummary{
		Date:         date,
		StatusCounts: map[string]int{},
		CrewSummary:  []models.CrewSummary{},
	}
	perCrew := map[int]int{}
	for _, j := range jobs {
		if j.Date != date {
			continue
		}
		summary.TotalJobs++
		status := j.Status
		if status == "" {
			status = models.JobStatusScheduled
		}
		summary.StatusCounts[string(status)]++
		if j.CrewID != nil {
			perCrew[*j.CrewID]++
		}
	}

	for id, count := range perCrew {
		name, ok := names[id]
		if !ok {
			name = fmt.Sprintf("Crew %d", id)
		}
		summary.CrewSummary = append(summary.CrewSummary, models.CrewSummary{CrewID: id, Name: name, Count: count})
	}
	sort.Slice(summary.CrewSummary, func(a, b int) bool {
		return summary.CrewSummary[a].CrewID < summary.CrewSummary[b].CrewID
	})
	return summary
}

// FormatSummary renders a summary as plain text for the digest mail.
func FormatSummary(s *models.DailySummary) string {
	out := fmt.Sprintf("Daily summary for %s\nTotal jobs: %d\n", s.Date, s.TotalJobs)
	for _, status := range models.JobStatuses {
		if n, ok := s.StatusCounts[string(status)]; ok {
			out += fmt.Sprintf("  %s: %d\n", status, n)
		}
	}
	for _, c := range s.CrewSummary {
		out += fmt.Sprintf("  %s (#%d): %d job(s)\n", c.Name, c.CrewID, c.Count)
	}
	return out
}
