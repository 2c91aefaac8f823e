package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"timeboss-backend/models"
)

// StatusManager keeps the outcome of the latest digest run on disk
type StatusManager struct {
	StatusFilePath string
}

// NewStatusManager creates a new status manager
func NewStatusManager(statusPath string) *StatusManager {
	return &StatusManager{StatusFilePath: statusPath}
}

func (sm *StatusManager) SaveRun(run *models.DigestRun) error {
	if err := os.MkdirAll(filepath.Dir(sm.StatusFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create status directory: %w", err)
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	return writeAtomic(sm.StatusFilePath, data)
}

// LoadRun returns the last recorded run, or nil when nothing has run yet
func (sm *StatusManager) LoadRun() (*models.DigestRun, error) {
	data, err := os.ReadFile(sm.StatusFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read status file: %w", err)
	}

	var run models.DigestRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status: %w", err)
	}

	return &run, nil
}

// ResetStatus forgets the recorded run
func (sm *StatusManager) ResetStatus() error {
	if err := os.Remove(sm.StatusFilePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
