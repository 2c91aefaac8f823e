package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"timeboss-backend/apperrors"
	"timeboss-backend/models"
	"timeboss-backend/utils/logger"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AssignmentServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *flakyStore
	notifier *recordingNotifier
	planner  *stubPlanner
	hook     *test.Hook
	service  *AssignmentService
}

func (suite *AssignmentServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.store = newFlakyStore()
	seedRoster(suite.store)
	suite.notifier = &recordingNotifier{}
	suite.planner = &stubPlanner{}

	base, hook := test.NewNullLogger()
	suite.hook = hook
	suite.service = NewAssignmentService(suite.store, suite.notifier, nil, &sync.Mutex{}, logger.New(base))
}

func (suite *AssignmentServiceTestSuite) TestAssignJobPicksClosestEligibleCrew() {
	result, err := suite.service.AssignJob(suite.ctx, 1)
	require.NoError(suite.T(), err)

	// Bravo is 5.5 km away, Alpha 50 km; Charlie is in another zone
	assert.Equal(suite.T(), 2, result.AssignedTo.ID)
	assert.Equal(suite.T(), 2, *result.Job.CrewID)

	jobs, err := suite.store.LoadJobs(suite.ctx)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, *jobs[0].CrewID)

	require.Len(suite.T(), suite.notifier.calls, 1)
	assert.Equal(suite.T(), "assignment", suite.notifier.calls[0].kind)
	assert.Nil(suite.T(), suite.notifier.calls[0].client)
}

func (suite *AssignmentServiceTestSuite) TestAssignJobPrefersLessLoadedCrew() {
	_, err := suite.service.AssignJob(suite.ctx, 1)
	require.NoError(suite.T(), err)

	// A second mowing job next to Bravo still goes to Alpha, who has no work yet
	job := &models.Job{ID: 4, Zone: "North", RequiredSkills: []string{"mowing"}, Position: point(40.5, -75.0), Status: models.JobStatusScheduled}
	require.NoError(suite.T(), suite.store.Save(suite.ctx, nil, []*models.Job{job}))

	result, err := suite.service.AssignJob(suite.ctx, 4)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, result.AssignedTo.ID)
}

func (suite *AssignmentServiceTestSuite) TestAssignJobNotifiesClient() {
	result, err := suite.service.AssignJob(suite.ctx, 2)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), 1, result.AssignedTo.ID)
	require.Len(suite.T(), suite.notifier.calls, 1)
	require.NotNil(suite.T(), suite.notifier.calls[0].client)
	assert.Equal(suite.T(), "Mrs. Smith", suite.notifier.calls[0].client.Name)
}

func (suite *AssignmentServiceTestSuite) TestAssignJobNotFound() {
	_, err := suite.service.AssignJob(suite.ctx, 99)

	assert.True(suite.T(), apperrors.IsNotFound(err))
	assert.True(suite.T(), errors.Is(err, apperrors.ErrJobNotFound))
	assert.Empty(suite.T(), suite.notifier.calls)
}

func (suite *AssignmentServiceTestSuite) TestAssignJobNoEligibleCrew() {
	_, err := suite.service.AssignJob(suite.ctx, 3)

	assert.True(suite.T(), apperrors.IsNoEligibleCrew(err))
	assert.Empty(suite.T(), suite.notifier.calls)

	jobs, _ := suite.store.LoadJobs(suite.ctx)
	assert.Nil(suite.T(), jobs[2].CrewID)
}

func (suite *AssignmentServiceTestSuite) TestAssignJobRefusesStartedWork() {
	job := &models.Job{ID: 5, Zone: "North", Status: models.JobStatusOnSite, CrewID: intPtr(1)}
	require.NoError(suite.T(), suite.store.Save(suite.ctx, nil, []*models.Job{job}))

	_, err := suite.service.AssignJob(suite.ctx, 5)
	assert.True(suite.T(), apperrors.IsInvalidState(err))
}

func (suite *AssignmentServiceTestSuite) TestReassignmentLogsWarning() {
	job := &models.Job{ID: 6, Zone: "North", RequiredSkills: []string{"mowing"}, Position: point(40.5, -75.0), Status: models.JobStatusScheduled, CrewID: intPtr(3)}
	require.NoError(suite.T(), suite.store.Save(suite.ctx, nil, []*models.Job{job}))

	result, err := suite.service.AssignJob(suite.ctx, 6)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, result.AssignedTo.ID)

	var warned bool
	for _, e := range suite.hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Message == "Reassigning job 6 from crew 3 to crew 2" {
			warned = true
		}
	}
	assert.True(suite.T(), warned)
}

func (suite *AssignmentServiceTestSuite) TestAssignJobSaveFailureLeavesNothingBehind() {
	suite.store.failSave = true

	_, err := suite.service.AssignJob(suite.ctx, 1)
	assert.True(suite.T(), apperrors.IsInfrastructure(err))
	assert.ErrorIs(suite.T(), err, errStoreDown)
	assert.Empty(suite.T(), suite.notifier.calls)

	jobs, _ := suite.store.MemoryStore.LoadJobs(suite.ctx)
	assert.Nil(suite.T(), jobs[0].CrewID)
}

func (suite *AssignmentServiceTestSuite) TestAssignJobLoadFailure() {
	suite.store.failLoad = true

	_, err := suite.service.AssignJob(suite.ctx, 1)
	assert.True(suite.T(), apperrors.IsInfrastructure(err))
}

func (suite *AssignmentServiceTestSuite) TestConcurrentAssignmentsBalanceWorkload() {
	jobs := []*models.Job{}
	for id := 10; id < 14; id++ {
		jobs = append(jobs, &models.Job{ID: id, Zone: "North", RequiredSkills: []string{"mowing"}, Status: models.JobStatusScheduled})
	}
	require.NoError(suite.T(), suite.store.Save(suite.ctx, nil, jobs))

	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := suite.service.AssignJob(suite.ctx, id)
			assert.NoError(suite.T(), err)
		}(j.ID)
	}
	wg.Wait()

	stored, _ := suite.store.LoadJobs(suite.ctx)
	perCrew := map[int]int{}
	for _, j := range stored {
		if j.ID >= 10 {
			perCrew[*j.CrewID]++
		}
	}
	assert.Equal(suite.T(), map[int]int{1: 2, 2: 2}, perCrew)
}

func (suite *AssignmentServiceTestSuite) TestSuggestAssignments() {
	suggestions, err := suite.service.SuggestAssignments(suite.ctx)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), []models.Suggestion{{JobID: 1, CrewID: 2}, {JobID: 2, CrewID: 1}}, suggestions)
	assert.Empty(suite.T(), suite.notifier.calls)
}

func (suite *AssignmentServiceTestSuite) TestOptimizeWithoutPlannerUsesHeuristic() {
	result, err := suite.service.Optimize(suite.ctx)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), models.SuggestionSourceHeuristic, result.Source)
	assert.Len(suite.T(), result.Suggestions, 2)
}

func (suite *AssignmentServiceTestSuite) TestOptimizeUsesPlanner() {
	suite.planner.suggestions = []models.Suggestion{{JobID: 1, CrewID: 1}}
	suite.planner.raw = `[{"jobId":1,"crewId":1}]`
	suite.service.planner = suite.planner

	result, err := suite.service.Optimize(suite.ctx)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), models.SuggestionSourcePlanner, result.Source)
	assert.Equal(suite.T(), suite.planner.suggestions, result.Suggestions)
	assert.Equal(suite.T(), suite.planner.raw, result.Raw)
}

func (suite *AssignmentServiceTestSuite) TestOptimizeFallsBackOnPlannerError() {
	suite.planner.err = errors.New("planner timeout")
	suite.service.planner = suite.planner

	result, err := suite.service.Optimize(suite.ctx)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), 1, suite.planner.calls)
	assert.Equal(suite.T(), models.SuggestionSourceHeuristic, result.Source)
	assert.Len(suite.T(), result.Suggestions, 2)
}

func (suite *AssignmentServiceTestSuite) TestOptimizeNoUnassignedJobs() {
	suite.service.planner = suite.planner
	jobs, _ := suite.store.LoadJobs(suite.ctx)
	for _, j := range jobs {
		j.CrewID = intPtr(1)
	}
	require.NoError(suite.T(), suite.store.Save(suite.ctx, nil, jobs))

	result, err := suite.service.Optimize(suite.ctx)
	require.NoError(suite.T(), err)

	assert.Empty(suite.T(), result.Suggestions)
	assert.NotNil(suite.T(), result.Suggestions)
	assert.Equal(suite.T(), "No unassigned jobs", result.Message)
	assert.Zero(suite.T(), suite.planner.calls)
}

func TestAssignmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AssignmentServiceTestSuite))
}
