package dispatch

import (
	"testing"

	"timeboss-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	crews := []*models.Crew{
		crew(1, "north", at(40.0, -75.0), "mowing"),
		crew(2, "north", at(40.1, -75.1), "mowing", "trimming"),
	}

	t.Run("every unassigned job scored against the same roster", func(t *testing.T) {
		jobs := []*models.Job{
			job(1, "north", at(40.0, -75.0), "mowing"),
			job(2, "north", at(40.0, -75.0), "mowing"),
		}

		got := Suggest(jobs, crews)

		// Neither suggestion accounts for the other, so both name crew 1.
		assert.Equal(t, []models.Suggestion{{JobID: 1, CrewID: 1}, {JobID: 2, CrewID: 1}}, got)
	})

	t.Run("assigned jobs are skipped but still count as workload", func(t *testing.T) {
		jobs := []*models.Job{
			assigned(job(1, "north", at(40.0, -75.0), "mowing"), 1),
			job(2, "north", at(40.0, -75.0), "mowing"),
		}

		got := Suggest(jobs, crews)

		assert.Equal(t, []models.Suggestion{{JobID: 2, CrewID: 2}}, got)
	})

	t.Run("jobs without candidates are omitted", func(t *testing.T) {
		jobs := []*models.Job{
			job(1, "south", nil, "mowing"),
			job(2, "north", nil, "welding"),
			job(3, "", nil, "trimming"),
		}

		got := Suggest(jobs, crews)

		assert.Equal(t, []models.Suggestion{{JobID: 3, CrewID: 2}}, got)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		jobs := []*models.Job{job(1, "north", nil, "mowing")}
		before := jobs[0].Clone()

		Suggest(jobs, crews)

		assert.Equal(t, before, jobs[0])
		assert.Nil(t, jobs[0].CrewID)
	})

	t.Run("empty inputs", func(t *testing.T) {
		assert.Empty(t, Suggest(nil, crews))
		assert.Empty(t, Suggest([]*models.Job{job(1, "", nil)}, nil))
		assert.NotNil(t, Suggest(nil, nil))
	})
}

func TestUnassigned(t *testing.T) {
	jobs := []*models.Job{assigned(job(1, "", nil), 3), job(2, "", nil), nil, job(4, "", nil)}

	got := Unassigned(jobs)

	assert.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, 4, got[1].ID)
}
