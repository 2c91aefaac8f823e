package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"timeboss-backend/models"
)

const (
	crewsFile   = "crews.json"
	jobsFile    = "jobs.json"
	clientsFile = "clients.json"
	usersFile   = "users.json"
)

// FileStore keeps one JSON array per entity under a data directory
type FileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store requires a data directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) LoadCrews(ctx context.Context) ([]*models.Crew, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var crews []*models.Crew
	if err := f.read(crewsFile, &crews); err != nil {
		return nil, err
	}
	sortCrews(crews)
	return crews, nil
}

func (f *FileStore) LoadJobs(ctx context.Context) ([]*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var jobs []*models.Job
	if err := f.read(jobsFile, &jobs); err != nil {
		return nil, err
	}
	sortJobs(jobs)
	return jobs, nil
}

// Save merges the given records into the stored arrays. Both files are staged
// before either is renamed into place, so a marshal or write error leaves the
// previous state intact.
func (f *FileStore) Save(ctx context.Context, crews []*models.Crew, jobs []*models.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var staged []string
	defer func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}()

	var renames [][2]string
	if len(crews) > 0 {
		var current []*models.Crew
		if err := f.read(crewsFile, &current); err != nil {
			return err
		}
		merged := mergeByID(current, crews, func(c *models.Crew) int { return c.ID })
		sortCrews(merged)
		tmp, err := f.stage(crewsFile, merged)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
		renames = append(renames, [2]string{tmp, f.path(crewsFile)})
	}
	if len(jobs) > 0 {
		var current []*models.Job
		if err := f.read(jobsFile, &current); err != nil {
			return err
		}
		merged := mergeByID(current, jobs, func(j *models.Job) int { return j.ID })
		sortJobs(merged)
		tmp, err := f.stage(jobsFile, merged)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
		renames = append(renames, [2]string{tmp, f.path(jobsFile)})
	}

	for _, r := range renames {
		if err := os.Rename(r[0], r[1]); err != nil {
			return fmt.Errorf("failed to commit %s: %w", filepath.Base(r[1]), err)
		}
	}
	return nil
}

func (f *FileStore) LoadClients(ctx context.Context) ([]*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var clients []*models.Client
	if err := f.read(clientsFile, &clients); err != nil {
		return nil, err
	}
	sortClients(clients)
	return clients, nil
}

func (f *FileStore) SaveClient(ctx context.Context, client *models.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var current []*models.Client
	if err := f.read(clientsFile, &current); err != nil {
		return err
	}
	merged := mergeByID(current, []*models.Client{client}, func(c *models.Client) int { return c.ID })
	sortClients(merged)
	return f.write(clientsFile, merged)
}

func (f *FileStore) LoadUsers(ctx context.Context) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []*models.User
	if err := f.readUsers(&users); err != nil {
		return nil, err
	}
	sortUsers(users)
	return users, nil
}

func (f *FileStore) SaveUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var current []*models.User
	if err := f.readUsers(&current); err != nil {
		return err
	}
	merged := mergeByID(current, []*models.User{user}, func(u *models.User) int { return u.ID })
	sortUsers(merged)

	records := make([]storedUser, 0, len(merged))
	for _, u := range merged {
		records = append(records, newStoredUser(u))
	}
	return f.write(usersFile, records)
}

func (f *FileStore) Close() error { return nil }

// storedUser keeps the password hash and pending reset, which models.User hides from JSON
type storedUser struct {
	*models.User
	PasswordHash string                `json:"passwordHash"`
	Reset        *models.PasswordReset `json:"passwordReset,omitempty"`
}

func newStoredUser(u *models.User) storedUser {
	return storedUser{User: u, PasswordHash: u.PasswordHash, Reset: u.Reset}
}

func (r storedUser) user() *models.User {
	if r.User == nil {
		return nil
	}
	r.User.PasswordHash = r.PasswordHash
	r.User.Reset = r.Reset
	return r.User
}

func (f *FileStore) readUsers(users *[]*models.User) error {
	var records []storedUser
	if err := f.read(usersFile, &records); err != nil {
		return err
	}
	for _, r := range records {
		if u := r.user(); u != nil {
			*users = append(*users, u)
		}
	}
	return nil
}

func (f *FileStore) path(name string) string {
	return filepath.Join(f.dir, name)
}

// read decodes a file; a missing file is an empty collection
func (f *FileStore) read(name string, out interface{}) error {
	data, err := os.ReadFile(f.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// stage writes data to a temp file next to name and returns its path
func (f *FileStore) stage(name string, data interface{}) (string, error) {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(f.dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", name, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to stage %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to stage %s: %w", name, err)
	}
	return tmp.Name(), nil
}

func (f *FileStore) write(name string, data interface{}) error {
	tmp, err := f.stage(name, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, f.path(name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit %s: %w", name, err)
	}
	return nil
}

// mergeByID replaces records with matching IDs and appends the rest
func mergeByID[T any](current, updates []T, id func(T) int) []T {
	index := make(map[int]int, len(current))
	for i, rec := range current {
		index[id(rec)] = i
	}
	for _, rec := range updates {
		if i, ok := index[id(rec)]; ok {
			current[i] = rec
			continue
		}
		index[id(rec)] = len(current)
		current = append(current, rec)
	}
	return current
}
