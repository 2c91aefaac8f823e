package services

import (
	"context"
	"errors"
	"sync"

	"timeboss-backend/models"
	"timeboss-backend/repository"
)

var errStoreDown = errors.New("store down")

// flakyStore wraps the memory store and fails on demand
type flakyStore struct {
	*repository.MemoryStore
	failLoad bool
	failSave bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: repository.NewMemoryStore()}
}

func (f *flakyStore) LoadJobs(ctx context.Context) ([]*models.Job, error) {
	if f.failLoad {
		return nil, errStoreDown
	}
	return f.MemoryStore.LoadJobs(ctx)
}

func (f *flakyStore) Save(ctx context.Context, crews []*models.Crew, jobs []*models.Job) error {
	if f.failSave {
		return errStoreDown
	}
	return f.MemoryStore.Save(ctx, crews, jobs)
}

type notifyCall struct {
	kind   string
	job    *models.Job
	crew   *models.Crew
	client *models.Client
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
}

func (r *recordingNotifier) NotifyAssignment(job *models.Job, crew *models.Crew, client *models.Client) {
	r.record("assignment", job, crew, client)
}

func (r *recordingNotifier) NotifyStatusChange(job *models.Job, crew *models.Crew, client *models.Client) {
	r.record("status", job, crew, client)
}

func (r *recordingNotifier) record(kind string, job *models.Job, crew *models.Crew, client *models.Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, notifyCall{kind: kind, job: job, crew: crew, client: client})
}

type stubPlanner struct {
	suggestions []models.Suggestion
	raw         string
	err         error
	calls       int
}

func (p *stubPlanner) Plan(ctx context.Context, jobs []*models.Job, crews []*models.Crew) ([]models.Suggestion, string, error) {
	p.calls++
	return p.suggestions, p.raw, p.err
}

type recordingQueue struct {
	accept bool
	msgs   []models.Message
}

func (q *recordingQueue) Enqueue(msg models.Message) bool {
	if q.accept {
		q.msgs = append(q.msgs, msg)
	}
	return q.accept
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func point(lat, lng float64) *models.GeoPoint {
	return &models.GeoPoint{Lat: lat, Lng: lng}
}

// seedRoster gives two North crews and one South crew, plus three unassigned jobs
func seedRoster(store repository.Store) {
	crews := []*models.Crew{
		{ID: 1, Name: "Alpha", Zone: "North", Skills: []string{"mowing", "pruning"}, Position: point(40.0, -75.0), Phone: "+1555100"},
		{ID: 2, Name: "Bravo", Zone: "North", Skills: []string{"mowing"}, Position: point(40.5, -75.0), Email: "bravo@example.com"},
		{ID: 3, Name: "Charlie", Zone: "South", Skills: []string{"mowing", "irrigation"}, Position: point(39.0, -75.0)},
	}
	jobs := []*models.Job{
		{ID: 1, Description: "Front lawn", Zone: "North", RequiredSkills: []string{"mowing"}, Position: point(40.45, -75.0), Status: models.JobStatusScheduled, Date: "2025-06-02"},
		{ID: 2, Description: "Hedges", Zone: "North", RequiredSkills: []string{"pruning"}, Position: point(40.5, -75.0), Status: models.JobStatusScheduled, Date: "2025-06-02", ClientID: intPtr(1)},
		{ID: 3, Description: "Sprinklers", Zone: "East", RequiredSkills: []string{"irrigation"}, Status: models.JobStatusScheduled, Date: "2025-06-03"},
	}
	_ = store.Save(context.Background(), crews, jobs)
	_ = store.SaveClient(context.Background(), &models.Client{ID: 1, Name: "Mrs. Smith", Phone: "+1555200", Email: "smith@example.com"})
}
