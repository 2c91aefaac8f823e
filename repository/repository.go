package repository

import (
	"context"
	"fmt"
	"sort"

	"timeboss-backend/dal"
	"timeboss-backend/infrastructure"
	"timeboss-backend/models"
	"timeboss-backend/utils/logger"
)

// NewStore opens the store selected by cfg.StoreDriver
func NewStore(ctx context.Context, cfg *models.Config, log logger.Logger) (Store, error) {
	switch cfg.StoreDriver {
	case "", "memory":
		log.Info("Using in-memory store")
		return NewMemoryStore(), nil
	case "file":
		log.Infof("Using file store at %s", cfg.StoreDataDir)
		return NewFileStore(cfg.StoreDataDir)
	case "dynamodb":
		db, err := dal.NewDynamoDBClient(cfg, log)
		if err != nil {
			return nil, err
		}
		if err := infrastructure.EnsureTables(ctx, db, cfg.DynamoDBTablePrefix, cfg.Tables, log); err != nil {
			return nil, fmt.Errorf("failed to provision tables: %w", err)
		}
		return NewDynamoStore(db, cfg, log), nil
	case "postgres":
		log.Info("Using postgres store")
		return NewPostgresStore(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func sortCrews(crews []*models.Crew) {
	sort.Slice(crews, func(i, j int) bool { return crews[i].ID < crews[j].ID })
}

func sortJobs(jobs []*models.Job) {
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
}

func sortClients(clients []*models.Client) {
	sort.Slice(clients, func(i, j int) bool { return clients[i].ID < clients[j].ID })
}

func sortUsers(users []*models.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
}
