package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"timeboss-backend/models"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// rosterTables are created on open. Each record is kept as a jsonb document keyed by id.
var rosterTables = []string{"crews", "jobs", "clients", "users"}

// PostgresStore persists records through database/sql with the pgx driver
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	p := &PostgresStore{db: db}
	if err := p.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return p, nil
}

// Migrate creates the tables if they do not exist
func (p *PostgresStore) Migrate(ctx context.Context) error {
	for _, t := range rosterTables {
		if _, err := p.db.ExecContext(ctx, createTableSQL(t)); err != nil {
			return fmt.Errorf("migrate %s: %w", t, err)
		}
	}
	return nil
}

func createTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id INTEGER PRIMARY KEY,
    doc JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, table)
}

func upsertSQL(table string) string {
	return fmt.Sprintf(`INSERT INTO %s (id, doc, updated_at) VALUES ($1, $2, now())
    ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`, table)
}

func selectSQL(table string) string {
	return fmt.Sprintf(`SELECT doc FROM %s ORDER BY id`, table)
}

func (p *PostgresStore) LoadCrews(ctx context.Context) ([]*models.Crew, error) {
	var crews []*models.Crew
	err := p.load(ctx, "crews", func(raw []byte) error {
		var c models.Crew
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		crews = append(crews, &c)
		return nil
	})
	return crews, err
}

func (p *PostgresStore) LoadJobs(ctx context.Context) ([]*models.Job, error) {
	var jobs []*models.Job
	err := p.load(ctx, "jobs", func(raw []byte) error {
		var j models.Job
		if err := json.Unmarshal(raw, &j); err != nil {
			return err
		}
		jobs = append(jobs, &j)
		return nil
	})
	return jobs, err
}

// Save upserts crews and jobs in a single transaction
func (p *PostgresStore) Save(ctx context.Context, crews []*models.Crew, jobs []*models.Job) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range crews {
		if err := upsert(ctx, tx, "crews", c.ID, c); err != nil {
			return err
		}
	}
	for _, j := range jobs {
		if err := upsert(ctx, tx, "jobs", j.ID, j); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (p *PostgresStore) LoadClients(ctx context.Context) ([]*models.Client, error) {
	var clients []*models.Client
	err := p.load(ctx, "clients", func(raw []byte) error {
		var c models.Client
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		clients = append(clients, &c)
		return nil
	})
	return clients, err
}

func (p *PostgresStore) SaveClient(ctx context.Context, client *models.Client) error {
	return upsert(ctx, p.db, "clients", client.ID, client)
}

func (p *PostgresStore) LoadUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := p.load(ctx, "users", func(raw []byte) error {
		var rec storedUser
		if err := json.Unmarshal(raw, &rec); err != nil {
			return err
		}
		if u := rec.user(); u != nil {
			users = append(users, u)
		}
		return nil
	})
	return users, err
}

func (p *PostgresStore) SaveUser(ctx context.Context, user *models.User) error {
	return upsert(ctx, p.db, "users", user.ID, newStoredUser(user))
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}

func (p *PostgresStore) load(ctx context.Context, table string, scan func([]byte) error) error {
	rows, err := p.db.QueryContext(ctx, selectSQL(table))
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		if err := scan(raw); err != nil {
			return fmt.Errorf("decode %s row: %w", table, err)
		}
	}
	return rows.Err()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, ex execer, table string, id int, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, upsertSQL(table), id, raw)
	return err
}
