package repository

import (
	"context"

	"timeboss-backend/dal"
	"timeboss-backend/infrastructure"
	"timeboss-backend/models"
	"timeboss-backend/utils/logger"
)

// DynamoStore persists records in one DynamoDB table per entity
type DynamoStore struct {
	db     dal.DatabaseClientInterface
	config *models.Config
	logger logger.Logger
}

func NewDynamoStore(db dal.DatabaseClientInterface, cfg *models.Config, log logger.Logger) *DynamoStore {
	return &DynamoStore{
		db:     db,
		config: cfg,
		logger: log,
	}
}

func (r *DynamoStore) table(base string) string {
	return infrastructure.TableName(r.config.DynamoDBTablePrefix, base)
}

func (r *DynamoStore) LoadCrews(ctx context.Context) ([]*models.Crew, error) {
	var crews []*models.Crew
	if err := r.db.ScanTable(ctx, r.table("crews"), &crews); err != nil {
		r.logger.Errorf("Failed to scan crews: %v", err)
		return nil, err
	}
	sortCrews(crews)
	return crews, nil
}

func (r *DynamoStore) LoadJobs(ctx context.Context) ([]*models.Job, error) {
	var jobs []*models.Job
	if err := r.db.ScanTable(ctx, r.table("jobs"), &jobs); err != nil {
		r.logger.Errorf("Failed to scan jobs: %v", err)
		return nil, err
	}
	sortJobs(jobs)
	return jobs, nil
}

// Save writes crews and jobs with TransactWriteItems. Writes larger than
// dal.MaxTransactItems are split, and each chunk is atomic on its own.
func (r *DynamoStore) Save(ctx context.Context, crews []*models.Crew, jobs []*models.Job) error {
	requests := make([]dal.PutRequest, 0, len(crews)+len(jobs))
	for _, c := range crews {
		requests = append(requests, dal.PutRequest{TableName: r.table("crews"), Item: c})
	}
	for _, j := range jobs {
		requests = append(requests, dal.PutRequest{TableName: r.table("jobs"), Item: j})
	}

	for start := 0; start < len(requests); start += dal.MaxTransactItems {
		end := start + dal.MaxTransactItems
		if end > len(requests) {
			end = len(requests)
		}
		if err := r.db.TransactPutItems(ctx, requests[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *DynamoStore) LoadClients(ctx context.Context) ([]*models.Client, error) {
	var clients []*models.Client
	if err := r.db.ScanTable(ctx, r.table("clients"), &clients); err != nil {
		return nil, err
	}
	sortClients(clients)
	return clients, nil
}

func (r *DynamoStore) SaveClient(ctx context.Context, client *models.Client) error {
	return r.db.PutItem(ctx, r.table("clients"), client)
}

func (r *DynamoStore) LoadUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := r.db.ScanTable(ctx, r.table("users"), &users); err != nil {
		return nil, err
	}
	sortUsers(users)
	return users, nil
}

func (r *DynamoStore) SaveUser(ctx context.Context, user *models.User) error {
	return r.db.PutItem(ctx, r.table("users"), user)
}

func (r *DynamoStore) Close() error { return nil }
